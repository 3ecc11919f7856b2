// Package profile holds the per-document-type configuration that
// drives every pipeline stage: preprocessing, zone detection, filtering,
// classification and engine selection.
package profile

import (
	"fmt"
	"strings"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/engine"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// Preset identifies one of the supported document-type profiles.
type Preset string

const (
	PresetFacture    Preset = "facture"
	PresetFormulaire Preset = "formulaire"
	PresetJournal    Preset = "journal"
	PresetManuscrit  Preset = "manuscrit"
	PresetTableau    Preset = "tableau"
	PresetPhoto      Preset = "photo"

	// PresetStandard skips zone detection entirely and treats the
	// whole page as a single body zone.
	PresetStandard Preset = "standard"
)

// Presets returns all supported presets.
func Presets() []Preset {
	return []Preset{
		PresetFacture, PresetFormulaire, PresetJournal,
		PresetManuscrit, PresetTableau, PresetPhoto, PresetStandard,
	}
}

// ParsePreset resolves a user-supplied name to a Preset.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q (supported: facture, formulaire, journal, manuscrit, tableau, photo, standard)", name)
}

// PreprocessParams configures image normalization before detection.
type PreprocessParams struct {
	// MinWidth is the resolution floor; narrower pages are upscaled.
	MinWidth int

	// ContrastLow and ContrastHigh are the percentiles stretched to
	// full range during contrast normalization.
	ContrastLow  float64
	ContrastHigh float64

	// MaxSkewDegrees bounds the deskew search. Zero disables deskew.
	MaxSkewDegrees float64
}

// EngineSelection is the ordered engine list and acceptance threshold
// applied to one zone type.
type EngineSelection struct {
	// Engines are tried in order; earlier entries win confidence ties.
	Engines []string

	// Threshold is the minimum adjusted confidence for a zone to
	// resolve; below it the zone is flagged low-confidence.
	Threshold float64
}

// Profile is the complete configuration for processing one document.
type Profile struct {
	Preset     Preset
	Preprocess PreprocessParams
	Detect     zone.DetectParams
	Filter     zone.FilterParams
	Classify   zone.ClassifyParams

	// Engines maps zone types to their engine selection. Types not
	// present fall back to Default.
	Engines map[zone.Type]EngineSelection

	// Default applies to any zone type without an explicit entry.
	Default EngineSelection
}

// SelectionFor returns the engine selection for a zone type.
func (p *Profile) SelectionFor(t zone.Type) EngineSelection {
	if sel, ok := p.Engines[t]; ok {
		return sel
	}
	return p.Default
}

// RemoveEngine strips an engine from every selection, preserving the
// order of the remaining ones. Used when an engine fails its health
// check so the resolver never schedules it.
func (p *Profile) RemoveEngine(name string) {
	p.Default.Engines = without(p.Default.Engines, name)
	for t, sel := range p.Engines {
		sel.Engines = without(sel.Engines, name)
		p.Engines[t] = sel
	}
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

const defaultThreshold = 0.30

// generalOrder favors the neural reader for free text; tesseract backs
// it up and doctr arbitrates.
var generalOrder = []string{engine.NameEasyOCR, engine.NameTesseract, engine.NameDocTR}

// structuredOrder favors doctr for fields with rigid shape (amounts,
// dates, references, tables) where its confidence profile is sharpest.
var structuredOrder = []string{engine.NameDocTR, engine.NameEasyOCR, engine.NameTesseract}

// handwritingOrder drops tesseract to last; it reads print far better
// than script.
var handwritingOrder = []string{engine.NameEasyOCR, engine.NameDocTR, engine.NameTesseract}

// ForPreset builds the profile for a document type. Values derive from
// field experience with each document family; the base profile suits
// clean printed pages.
func ForPreset(p Preset) *Profile {
	prof := &Profile{
		Preset: p,
		Preprocess: PreprocessParams{
			MinWidth:       1200,
			ContrastLow:    2,
			ContrastHigh:   98,
			MaxSkewDegrees: 5,
		},
		Detect:   zone.DefaultDetectParams(),
		Filter:   zone.DefaultFilterParams(),
		Classify: zone.DefaultClassifyParams(),
		Engines:  make(map[zone.Type]EngineSelection),
		Default:  EngineSelection{Engines: generalOrder, Threshold: defaultThreshold},
	}

	for _, t := range zone.Types() {
		if t.Structured() {
			prof.Engines[t] = EngineSelection{Engines: structuredOrder, Threshold: defaultThreshold}
		}
	}

	switch p {
	case PresetFacture:
		// Invoices carry small line items and thin totals rows.
		prof.Detect.MinAreaRatio = 0.0002
		prof.Detect.MinWidth = 12
		prof.Detect.MinHeight = 6
		prof.Classify.MinConfidence = 0.15

	case PresetFormulaire:
		// Form fields are tiny and must not merge with their labels.
		prof.Detect.MinAreaRatio = 0.0001
		prof.Detect.MinWidth = 10
		prof.Detect.MinHeight = 5
		prof.Detect.HKernel = 10
		prof.Filter.OverlapTolerance = 0.6

	case PresetJournal:
		// Newspaper columns are tall; avoid splitting or joining them.
		prof.Detect.MinAspect = 0.3
		prof.Detect.MaxAspect = 15
		prof.Detect.VKernel = 12

	case PresetManuscrit:
		// Handwriting is irregular: wider binarization blocks, longer
		// horizontal joins, more tolerance for uneven ink.
		prof.Detect.FineBlock = 17
		prof.Detect.StandardBlock = 21
		prof.Detect.HKernel = 20
		prof.Filter.MinStdDev = 4
		prof.Default = EngineSelection{Engines: handwritingOrder, Threshold: 0.25}
		for t := range prof.Engines {
			prof.Engines[t] = EngineSelection{Engines: handwritingOrder, Threshold: 0.25}
		}

	case PresetTableau:
		// Keep individual cells apart.
		prof.Detect.MinAspect = 0.1
		prof.Detect.MaxAspect = 20
		prof.Detect.HKernel = 8
		prof.Detect.VKernel = 4
		prof.Filter.OverlapTolerance = 0.7

	case PresetPhoto:
		// Photographed documents are noisy and unevenly lit.
		prof.Detect.MinAreaRatio = 0.001
		prof.Detect.FineBlock = 15
		prof.Detect.StandardBlock = 19
		prof.Detect.LargeBlock = 25
		prof.Filter.MinDensity = 0.05
		prof.Filter.MinStdDev = 8
		prof.Default.Threshold = 0.35
		for t, sel := range prof.Engines {
			sel.Threshold = 0.35
			prof.Engines[t] = sel
		}

	case PresetStandard:
		prof.Detect.Disabled = true
	}

	return prof
}
