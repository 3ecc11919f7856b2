package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ocr-tool",
	Short: "Extract text from scanned documents with zone-aware OCR",
	Long: `ocr-tool detects text zones on scanned pages, classifies them
semantically, and runs each zone through multiple OCR engines, keeping
the highest-quality result per zone.

Features:
  - Adaptive multi-scale zone detection
  - Semantic zone classification (headers, prices, dates, signatures, ...)
  - Tesseract, EasyOCR and DocTR engines with per-zone arbitration
  - Document-type presets (facture, formulaire, journal, manuscrit, ...)
  - PNG, JPEG, BMP, TIFF and PDF input
  - Per-zone artifact output for inspection`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ocr-tool.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}
