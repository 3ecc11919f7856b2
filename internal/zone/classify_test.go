package zone

import (
	"testing"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

func TestClassify_ContentPatterns(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	mid := geom.Rect{X: 100, Y: 600, Width: 300, Height: 60}

	tests := []struct {
		name    string
		content string
		want    Type
	}{
		{"invoice keyword", "FACTURE N° 2024-117", TypeHeader},
		{"company form", "Dupont SARL", TypeHeader},
		{"numeric date", "15/03/2024", TypeDate},
		{"month name", "12 janvier 2024", TypeDate},
		{"amount with euro", "Total : 1 234,56 €", TypePrice},
		{"tax keyword", "TVA 20%", TypePrice},
		{"street address", "12 rue de la Paix", TypeAddress},
		{"postal code", "75002 Paris", TypeAddress},
		{"reference", "Ref : CMD-889", TypeReference},
		{"signature", "Signature du client", TypeSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := c.Classify(Candidate{Bounds: mid}, page, tt.content)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.content, got, tt.want)
			}
			if conf < 0.8 {
				t.Errorf("Classify(%q) confidence = %v, want >= 0.8 for content match", tt.content, conf)
			}
		})
	}
}

func TestClassify_Positional(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}

	tests := []struct {
		name   string
		bounds geom.Rect
		want   Type
	}{
		{"wide top band", geom.Rect{X: 50, Y: 30, Width: 700, Height: 80}, TypeHeader},
		{"narrow top band", geom.Rect{X: 700, Y: 30, Width: 200, Height: 40}, TypeReference},
		{"thin bottom strip", geom.Rect{X: 100, Y: 1320, Width: 600, Height: 30}, TypeFooter},
		{"tall bottom block", geom.Rect{X: 600, Y: 1150, Width: 250, Height: 150}, TypeSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := c.Classify(Candidate{Bounds: tt.bounds}, page, "")
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.bounds, got, tt.want)
			}
		})
	}
}

func TestClassify_DigitHeavyIsPrice(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	mid := geom.Rect{X: 400, Y: 700, Width: 200, Height: 40}

	got, _ := c.Classify(Candidate{Bounds: mid}, page, "1250,00 $")
	if got != TypePrice {
		t.Errorf("Classify(digit heavy) = %v, want %v", got, TypePrice)
	}
}

func TestClassify_WideStripIsBody(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	strip := geom.Rect{X: 100, Y: 700, Width: 700, Height: 40}

	got, _ := c.Classify(Candidate{Bounds: strip}, page, "")
	if got != TypeBody {
		t.Errorf("Classify(wide strip) = %v, want %v", got, TypeBody)
	}
}

func TestClassify_FallbackIsBody(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	square := geom.Rect{X: 400, Y: 700, Width: 100, Height: 100}

	got, conf := c.Classify(Candidate{Bounds: square}, page, "")
	if got != TypeBody {
		t.Errorf("Classify(featureless) = %v, want %v", got, TypeBody)
	}
	if conf < DefaultClassifyParams().MinConfidence {
		t.Errorf("confidence = %v, want floored at MinConfidence", conf)
	}
}

func TestClassify_LinedBlockIsTable(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	bounds := geom.Rect{X: 100, Y: 600, Width: 700, Height: 300}

	got, _ := c.Classify(Candidate{Bounds: bounds, LineCount: 6}, page, "")
	if got != TypeTable {
		t.Errorf("Classify(lined block) = %v, want %v", got, TypeTable)
	}

	// The same geometry without line evidence stays body.
	got, _ = c.Classify(Candidate{Bounds: bounds}, page, "")
	if got != TypeBody {
		t.Errorf("Classify(lineless block) = %v, want %v", got, TypeBody)
	}
}

func TestClassify_ContentBeatsPosition(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}
	top := geom.Rect{X: 50, Y: 20, Width: 800, Height: 60}

	// A date in the header band stays a date.
	got, _ := c.Classify(Candidate{Bounds: top}, page, "Date : 01/02/2024")
	if got != TypeDate {
		t.Errorf("Classify(date at top) = %v, want %v", got, TypeDate)
	}
}

func TestTypeBonus(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypePrice, 0.15},
		{TypeHeader, 0.1},
		{TypeDate, 0.1},
		{TypeReference, 0.05},
		{TypeNoise, -0.5},
		{TypeBody, 0.0},
		{TypeTable, 0.0},
	}
	for _, tt := range tests {
		if got := TypeBonus(tt.typ); got != tt.want {
			t.Errorf("TypeBonus(%v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
