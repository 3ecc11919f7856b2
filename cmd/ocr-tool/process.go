package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/config"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/easyocr"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/engine"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/pipeline"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/resolve"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run a document through the OCR pipeline",
	Long: `Process a scanned document image or PDF.

This command:
1. Loads and normalizes the page (grayscale, contrast, deskew)
2. Detects and classifies text zones
3. Runs each zone through the configured OCR engines
4. Keeps the best result per zone and assembles the final text

Examples:
  # Process an invoice scan
  ocr-tool process facture.png --type facture

  # Process a PDF form with per-zone artifacts for inspection
  ocr-tool process formulaire.pdf --type formulaire --artifacts ./out

  # Use recognized text to improve classification
  ocr-tool process page.jpg --prepass`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("type", "", "document type preset (facture, formulaire, journal, manuscrit, tableau, photo, standard)")
	processCmd.Flags().String("artifacts", "", "directory for per-zone crops and result JSON")
	processCmd.Flags().String("overrides", "", "YAML file with threshold and engine overrides")
	processCmd.Flags().Bool("prepass", false, "run a recognition pre-pass to aid classification")
	processCmd.Flags().Int("workers", 0, "concurrent zone recognitions (0 = config default)")

	_ = viper.BindPFlag("document-type", processCmd.Flags().Lookup("type"))
	_ = viper.BindPFlag("artifacts-dir", processCmd.Flags().Lookup("artifacts"))
	_ = viper.BindPFlag("overrides-file", processCmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("semantic-pre-pass", processCmd.Flags().Lookup("prepass"))
	_ = viper.BindPFlag("workers", processCmd.Flags().Lookup("workers"))
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: "console",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	preset := cfg.Preset()
	if t, _ := cmd.Flags().GetString("type"); t != "" {
		preset, err = profile.ParsePreset(t)
		if err != nil {
			return err
		}
	}

	registry, err := buildRegistry(cmd, cfg, log)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithResolver(resolve.New(registry,
			resolve.WithWorkers(cfg.Workers),
			resolve.WithLogger(log))),
	}
	if cfg.ArtifactsDir != "" {
		opts = append(opts, pipeline.WithArtifacts(cfg.ArtifactsDir))
	}
	if cfg.OverridesFile != "" {
		opts = append(opts, pipeline.WithProfileOverrides(cfg.OverridesFile))
	}
	if cfg.SemanticPrePass {
		opts = append(opts, pipeline.WithSemanticPrePass(true))
	}

	p := pipeline.New(registry, opts...)
	doc := pipeline.NewDocument(path, preset)

	log.WithDocumentID(doc.ID).WithFields("path", path, "preset", preset).Info("Processing document")
	start := time.Now()

	result, err := p.Process(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	log.WithDocumentID(doc.ID).WithFields(
		"zones", len(result.Zones),
		"low_confidence", result.LowConfidenceZones,
		"confidence", fmt.Sprintf("%.2f", result.Confidence),
		"duration", time.Since(start).Round(time.Millisecond),
	).Info("Processing complete")

	fmt.Println(result.Text)
	return nil
}

// buildRegistry wires the configured OCR engines. Engines that fail
// their health check are sidelined by Init, not fatal.
func buildRegistry(cmd *cobra.Command, cfg *config.Config, log *logger.Logger) (*engine.Registry, error) {
	client := easyocr.NewClient(
		easyocr.WithEndpoint(cfg.EasyOCR.Endpoint),
		easyocr.WithTimeout(cfg.EasyOCR.Timeout),
		easyocr.WithMaxRetries(cfg.EasyOCR.MaxRetries),
		easyocr.WithLogger(log),
	)

	easy := engine.NewEasyOCR(client, cfg.EasyOCR.Languages)

	registry := engine.NewRegistry(log)
	registry.Register(engine.NewTesseract(cfg.Tesseract.Languages, log))
	registry.Register(easy)
	registry.Register(engine.NewDocTR(cfg.DocTR.ModelsDir, easy, log))

	if err := registry.Init(cmd.Context()); err != nil {
		return nil, fmt.Errorf("no OCR engine available: %w", err)
	}
	return registry, nil
}

// loadConfig loads the application configuration honoring the --config
// flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
