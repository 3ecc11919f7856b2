// Package config provides configuration management for the ocr-tool
// application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
)

// Config holds all configuration settings for the ocr-tool application.
// Configuration precedence: CLI flags > Environment variables > Config file > Defaults
type Config struct {
	// DocumentType is the default document preset applied when the
	// process command is invoked without --type
	DocumentType string

	// ArtifactsDir is the directory where per-zone crops and result
	// JSON are written (empty disables artifact output)
	ArtifactsDir string

	// OverridesFile points to an optional YAML file with per-preset
	// threshold and engine-order overrides
	OverridesFile string

	// Workers bounds the number of concurrent zone recognitions
	Workers int

	// SemanticPrePass enables a recognition pre-pass so zone
	// classification can use textual content in addition to geometry
	SemanticPrePass bool

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// Tesseract configuration for the local tesseract engine
	Tesseract TesseractConfig

	// EasyOCR configuration for the HTTP sidecar engine
	EasyOCR EasyOCRConfig

	// DocTR configuration for the document-transformer engine
	DocTR DocTRConfig
}

// TesseractConfig holds settings for the local tesseract engine.
type TesseractConfig struct {
	// Languages lists the traineddata languages, e.g. ["fra", "eng"]
	Languages []string
}

// EasyOCRConfig holds settings for the EasyOCR HTTP sidecar.
type EasyOCRConfig struct {
	// Endpoint is the base URL of the sidecar service
	Endpoint string

	// Languages lists the recognition languages, e.g. ["fr", "en"]
	Languages []string

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for requests
	MaxRetries int
}

// DocTRConfig holds settings for the DocTR engine.
type DocTRConfig struct {
	// ModelsDir is where the detection and recognition model files
	// live; when they are missing the engine runs degraded
	ModelsDir string
}

// Load reads configuration from multiple sources and returns a Config
// instance. Sources are checked in this order: CLI flags > env vars >
// config file > defaults
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(".ocr-tool")
			v.SetConfigType("yaml")
		}
	}

	// Config file not found is OK, env vars and defaults still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("OCRTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	config := &Config{
		DocumentType:    v.GetString("document-type"),
		ArtifactsDir:    v.GetString("artifacts-dir"),
		OverridesFile:   v.GetString("overrides-file"),
		Workers:         v.GetInt("workers"),
		SemanticPrePass: v.GetBool("semantic-pre-pass"),
		LogLevel:        v.GetString("log-level"),
		Tesseract: TesseractConfig{
			Languages: v.GetStringSlice("tesseract-languages"),
		},
		EasyOCR: EasyOCRConfig{
			Endpoint:   v.GetString("easyocr-endpoint"),
			Languages:  v.GetStringSlice("easyocr-languages"),
			Timeout:    v.GetDuration("easyocr-timeout"),
			MaxRetries: v.GetInt("easyocr-max-retries"),
		},
		DocTR: DocTRConfig{
			ModelsDir: v.GetString("doctr-models-dir"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("document-type", string(profile.PresetStandard))
	v.SetDefault("artifacts-dir", "")
	v.SetDefault("overrides-file", "")
	v.SetDefault("workers", 4)
	v.SetDefault("semantic-pre-pass", false)
	v.SetDefault("log-level", "info")

	v.SetDefault("tesseract-languages", []string{"fra", "eng"})

	v.SetDefault("easyocr-endpoint", "http://localhost:8765")
	v.SetDefault("easyocr-languages", []string{"fr", "en"})
	v.SetDefault("easyocr-timeout", 3*time.Minute)
	v.SetDefault("easyocr-max-retries", 3)

	v.SetDefault("doctr-models-dir", filepath.Join(home, ".ocr-tool", "models"))
}

// Validate checks that the configuration is valid and internally consistent
func (c *Config) Validate() error {
	if _, err := profile.ParsePreset(c.DocumentType); err != nil {
		return err
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log-level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if len(c.Tesseract.Languages) == 0 {
		return fmt.Errorf("tesseract-languages cannot be empty")
	}

	if c.EasyOCR.Endpoint == "" {
		return fmt.Errorf("easyocr-endpoint cannot be empty")
	}
	if !strings.HasPrefix(c.EasyOCR.Endpoint, "http://") && !strings.HasPrefix(c.EasyOCR.Endpoint, "https://") {
		return fmt.Errorf("easyocr-endpoint must start with http:// or https://, got %q", c.EasyOCR.Endpoint)
	}
	if len(c.EasyOCR.Languages) == 0 {
		return fmt.Errorf("easyocr-languages cannot be empty")
	}
	if c.EasyOCR.MaxRetries < 0 {
		return fmt.Errorf("easyocr-max-retries cannot be negative, got %d", c.EasyOCR.MaxRetries)
	}

	// Expand home directory in paths where present.
	for _, p := range []*string{&c.ArtifactsDir, &c.OverridesFile, &c.DocTR.ModelsDir} {
		if strings.HasPrefix(*p, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to expand home directory in %q: %w", *p, err)
			}
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	if c.ArtifactsDir != "" {
		if err := os.MkdirAll(c.ArtifactsDir, 0755); err != nil {
			return fmt.Errorf("failed to create artifacts directory %s: %w", c.ArtifactsDir, err)
		}
	}

	if c.OverridesFile != "" {
		if _, err := os.Stat(c.OverridesFile); err != nil {
			return fmt.Errorf("overrides file %s: %w", c.OverridesFile, err)
		}
	}

	return nil
}

// Preset returns the configured default document type as a parsed
// preset. Validate guarantees parsing succeeds.
func (c *Config) Preset() profile.Preset {
	p, _ := profile.ParsePreset(c.DocumentType)
	return p
}
