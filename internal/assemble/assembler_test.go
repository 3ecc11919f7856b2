package assemble

import (
	"strings"
	"testing"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

func terminalZone(id, order int, typ zone.Type, text string, conf float64, resolved bool) *zone.Zone {
	z := &zone.Zone{ID: id, Type: typ, ReadingOrder: order, Text: text, Confidence: conf}
	for _, s := range []zone.State{zone.StateClassified, zone.StateOCRPending} {
		if err := z.Advance(s); err != nil {
			panic(err)
		}
	}
	final := zone.StateLowConfidence
	if resolved {
		final = zone.StateResolved
	}
	if err := z.Advance(final); err != nil {
		panic(err)
	}
	return z
}

func TestBuild_ReadingOrderAndMarkers(t *testing.T) {
	zones := []*zone.Zone{
		terminalZone(2, 2, zone.TypePrice, "Total : 45,90", 0.8, true),
		terminalZone(1, 1, zone.TypeHeader, "FACTURE 2024-117", 0.9, true),
	}

	res, err := Build("doc-1", profile.PresetFacture, zones)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "[header]\nFACTURE 2024-117\n\n[price]\nTotal : 45,90"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Zones[0].ID != 1 || res.Zones[1].ID != 2 {
		t.Errorf("zone records out of reading order: %v, %v", res.Zones[0].ID, res.Zones[1].ID)
	}
}

func TestBuild_MeanConfidence(t *testing.T) {
	zones := []*zone.Zone{
		terminalZone(1, 1, zone.TypeBody, "a", 0.9, true),
		terminalZone(2, 2, zone.TypeBody, "b", 0.5, true),
		terminalZone(3, 3, zone.TypeBody, "", 0.1, false),
	}

	res, err := Build("doc-1", profile.PresetStandard, zones)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := (0.9 + 0.5 + 0.1) / 3
	if diff := res.Confidence - want; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("Confidence = %v, want %v", res.Confidence, want)
	}
}

func TestBuild_LowConfidenceZonesIncluded(t *testing.T) {
	zones := []*zone.Zone{
		terminalZone(1, 1, zone.TypeBody, "lisible", 0.8, true),
		terminalZone(2, 2, zone.TypeSignature, "", 0.1, false),
	}

	res, err := Build("doc-1", profile.PresetFacture, zones)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(res.Zones) != 2 {
		t.Fatalf("Zones = %d records, want low-confidence zone kept", len(res.Zones))
	}
	if res.LowConfidenceZones != 1 {
		t.Errorf("LowConfidenceZones = %d, want 1", res.LowConfidenceZones)
	}
	if !res.Zones[1].LowConfidence {
		t.Error("second record not flagged low confidence")
	}
	if strings.Contains(res.Text, "[signature]") {
		t.Error("empty-text zone leaked into consolidated text")
	}
}

func TestBuild_NonTerminalZoneRejected(t *testing.T) {
	z := &zone.Zone{ID: 1, Type: zone.TypeBody}
	if _, err := Build("doc-1", profile.PresetFacture, []*zone.Zone{z}); err == nil {
		t.Error("Build() error = nil, want non-terminal zone rejected")
	}
}

func TestBuild_Empty(t *testing.T) {
	res, err := Build("doc-1", profile.PresetStandard, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Confidence != 0 || res.Text != "" || len(res.Zones) != 0 {
		t.Errorf("empty build = %+v, want zero result", res)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	mk := func() []*zone.Zone {
		return []*zone.Zone{
			terminalZone(1, 2, zone.TypeBody, "deux", 0.7, true),
			terminalZone(2, 1, zone.TypeHeader, "un", 0.9, true),
		}
	}

	a, err := Build("doc-1", profile.PresetFacture, mk())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build("doc-1", profile.PresetFacture, mk())
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != b.Text || a.Confidence != b.Confidence {
		t.Error("Build output differs across identical runs")
	}
}
