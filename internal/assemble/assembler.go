// Package assemble folds resolved zones into the final consolidated
// document result.
package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// ZoneRecord is the immutable per-zone entry of a consolidated result.
type ZoneRecord struct {
	ID            int       `json:"id"`
	Type          zone.Type `json:"type"`
	Bounds        geom.Rect `json:"bounds"`
	ReadingOrder  int       `json:"reading_order"`
	Text          string    `json:"text"`
	Confidence    float64   `json:"confidence"`
	Engine        string    `json:"engine,omitempty"`
	Candidates    int       `json:"candidates"`
	LowConfidence bool      `json:"low_confidence"`
}

// Result is the consolidated output for one document.
type Result struct {
	DocumentID string         `json:"document_id"`
	Preset     profile.Preset `json:"preset"`

	// Text is the document text in reading order, each zone prefixed
	// with its type marker.
	Text string `json:"text"`

	// Confidence is the equal-weight mean of all zone confidences.
	Confidence float64 `json:"confidence"`

	Zones              []ZoneRecord `json:"zones"`
	LowConfidenceZones int          `json:"low_confidence_zones"`
}

// Build consolidates terminal zones into a Result. Every zone appears
// in the output, low-confidence ones included; a non-terminal zone is
// a bug in the caller and yields an error.
func Build(documentID string, preset profile.Preset, zones []*zone.Zone) (*Result, error) {
	records := make([]ZoneRecord, 0, len(zones))
	for _, z := range zones {
		if !z.State.Terminal() {
			return nil, fmt.Errorf("zone %d is still %s, cannot assemble", z.ID, z.State)
		}
		records = append(records, ZoneRecord{
			ID:            z.ID,
			Type:          z.Type,
			Bounds:        z.Bounds,
			ReadingOrder:  z.ReadingOrder,
			Text:          z.Text,
			Confidence:    z.Confidence,
			Engine:        z.Engine,
			Candidates:    z.Candidates,
			LowConfidence: z.LowConfidence(),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ReadingOrder < records[j].ReadingOrder
	})

	var blocks []string
	var confSum float64
	lowCount := 0
	for _, rec := range records {
		confSum += rec.Confidence
		if rec.LowConfidence {
			lowCount++
		}
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", rec.Type, rec.Text))
	}

	res := &Result{
		DocumentID:         documentID,
		Preset:             preset,
		Text:               strings.Join(blocks, "\n\n"),
		Zones:              records,
		LowConfidenceZones: lowCount,
	}
	if len(records) > 0 {
		res.Confidence = confSum / float64(len(records))
	}
	return res, nil
}
