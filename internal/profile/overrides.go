package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// Overrides is the YAML shape for tuning a preset without rebuilding.
// Only the fields present in the file are applied.
type Overrides struct {
	DefaultThreshold *float64 `yaml:"default_threshold,omitempty"`

	// Thresholds overrides the acceptance threshold per zone type.
	Thresholds map[string]float64 `yaml:"thresholds,omitempty"`

	// Engines overrides the ordered engine list per zone type.
	Engines map[string][]string `yaml:"engines,omitempty"`

	Preprocess struct {
		MinWidth       *int     `yaml:"min_width,omitempty"`
		MaxSkewDegrees *float64 `yaml:"max_skew_degrees,omitempty"`
	} `yaml:"preprocess,omitempty"`
}

// LoadOverrides reads a YAML override file and applies it to the
// profile in place.
func LoadOverrides(p *Profile, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile overrides: %w", err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse profile overrides: %w", err)
	}
	return Apply(p, &o)
}

// Apply merges overrides into a profile.
func Apply(p *Profile, o *Overrides) error {
	if o.DefaultThreshold != nil {
		p.Default.Threshold = *o.DefaultThreshold
	}

	for name, threshold := range o.Thresholds {
		t := zone.Type(name)
		if !t.Valid() {
			return fmt.Errorf("overrides: unknown zone type %q", name)
		}
		sel := p.SelectionFor(t)
		sel.Threshold = threshold
		p.Engines[t] = sel
	}

	for name, engines := range o.Engines {
		t := zone.Type(name)
		if !t.Valid() {
			return fmt.Errorf("overrides: unknown zone type %q", name)
		}
		if len(engines) == 0 {
			return fmt.Errorf("overrides: empty engine list for zone type %q", name)
		}
		sel := p.SelectionFor(t)
		sel.Engines = append([]string(nil), engines...)
		p.Engines[t] = sel
	}

	if o.Preprocess.MinWidth != nil {
		p.Preprocess.MinWidth = *o.Preprocess.MinWidth
	}
	if o.Preprocess.MaxSkewDegrees != nil {
		p.Preprocess.MaxSkewDegrees = *o.Preprocess.MaxSkewDegrees
	}
	return nil
}
