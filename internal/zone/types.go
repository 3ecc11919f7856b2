// Package zone implements the zone detection and classification engine:
// geometric candidate detection, anti-geometric filtering, semantic
// labeling and reading-order reconstruction for scanned page images.
package zone

import (
	"fmt"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

// Type is the semantic category assigned to a zone.
type Type string

const (
	TypeHeader    Type = "header"
	TypeTitle     Type = "title"
	TypeSubtitle  Type = "subtitle"
	TypeBody      Type = "body"
	TypeList      Type = "list"
	TypeTable     Type = "table"
	TypeTableCell Type = "table_cell"
	TypeFooter    Type = "footer"
	TypeSignature Type = "signature"
	TypeLogo      Type = "logo"
	TypeFormField Type = "form_field"
	TypePrice     Type = "price"
	TypeDate      Type = "date"
	TypeAddress   Type = "address"
	TypeReference Type = "reference"
	TypeNoise     Type = "noise"
)

// Types lists every semantic category in a stable order.
func Types() []Type {
	return []Type{
		TypeHeader, TypeTitle, TypeSubtitle, TypeBody,
		TypeList, TypeTable, TypeTableCell, TypeFooter,
		TypeSignature, TypeLogo, TypeFormField, TypePrice,
		TypeDate, TypeAddress, TypeReference, TypeNoise,
	}
}

// Valid reports whether t is one of the known categories.
func (t Type) Valid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Structured reports whether the category denotes a structured-content zone
// (numbers, codes, tabular data) as opposed to free-running text. Structured
// zones favor the document-specialized engine during arbitration.
func (t Type) Structured() bool {
	switch t {
	case TypePrice, TypeDate, TypeReference, TypeTable, TypeTableCell, TypeFormField:
		return true
	default:
		return false
	}
}

// State is a zone's position in its processing lifecycle.
type State int

const (
	// StateDetected is the initial state of a geometric candidate that
	// survived the anti-geometric filter.
	StateDetected State = iota

	// StateClassified means a semantic type has been assigned.
	StateClassified

	// StateOCRPending means engine invocations have been scheduled.
	StateOCRPending

	// StateResolved is terminal: the winning engine result met the
	// profile's confidence threshold.
	StateResolved

	// StateLowConfidence is terminal: the zone carries its best available
	// text but no candidate met the threshold. It is a sibling of
	// StateResolved, not an error.
	StateLowConfidence
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDetected:
		return "detected"
	case StateClassified:
		return "classified"
	case StateOCRPending:
		return "ocr_pending"
	case StateResolved:
		return "resolved"
	case StateLowConfidence:
		return "low_confidence"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateLowConfidence
}

// transitions maps each state to the states reachable from it. No
// transition skips a stage and terminal states have no successors.
var transitions = map[State][]State{
	StateDetected:   {StateClassified},
	StateClassified: {StateOCRPending},
	StateOCRPending: {StateResolved, StateLowConfidence},
}

// Zone is a candidate or resolved text region of a page. A Zone is owned
// by the pipeline run that created it; fields past the lifecycle state are
// written exactly once, by the stage that advances the state.
type Zone struct {
	// ID numbers the zone within its pipeline run (1-based).
	ID int

	// Bounds is the zone's bounding box in page coordinates.
	Bounds geom.Rect

	// Type is the semantic category.
	Type Type

	// TypeConfidence is the classifier's confidence in Type, in [0,1].
	// It is independent of OCR confidence.
	TypeConfidence float64

	// State is the lifecycle state.
	State State

	// ReadingOrder is the position in the document reading sequence
	// (1-based), assigned by the reading-order resolver.
	ReadingOrder int

	// Text is the recognized text of the winning engine result.
	Text string

	// Confidence is the winning result's (quality-adjusted) confidence.
	Confidence float64

	// Engine names the engine that produced the winning result. Empty
	// when no engine produced a candidate result at all.
	Engine string

	// Candidates counts the engine results produced for this zone.
	Candidates int
}

// Advance moves the zone to the next lifecycle state, enforcing the
// state machine. It returns an error for skipped or backward transitions.
func (z *Zone) Advance(next State) error {
	for _, allowed := range transitions[z.State] {
		if next == allowed {
			z.State = next
			return nil
		}
	}
	return fmt.Errorf("invalid zone state transition %s -> %s", z.State, next)
}

// LowConfidence reports whether the zone terminated below threshold.
func (z *Zone) LowConfidence() bool {
	return z.State == StateLowConfidence
}

// Candidate is a detected region that has not yet been promoted to a Zone.
// The pixel statistics are filled in by the anti-geometric filter and
// reused by the classifier.
type Candidate struct {
	// Bounds is the candidate's bounding box in page coordinates.
	Bounds geom.Rect

	// InkDensity is the fraction of foreground pixels after Otsu
	// binarization of the region, in [0,1].
	InkDensity float64

	// StdDev is the standard deviation of the region's gray intensities.
	StdDev float64

	// TransitionRatio is the mean number of horizontal ink transitions
	// per row, normalized by region width.
	TransitionRatio float64

	// LineCount estimates the number of text lines in the region.
	LineCount int
}
