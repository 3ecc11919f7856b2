package engine

import (
	"strings"
	"testing"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
 <head><title></title></head>
 <body>
  <div class="ocr_page" title="image; bbox 0 0 800 600">
   <div class="ocr_carea" title="bbox 40 40 760 120">
    <p class="ocr_par">
     <span class="ocr_line" title="bbox 40 40 760 80">
      <span class="ocrx_word" title="bbox 40 40 200 80; x_wconf 95">FACTURE</span>
      <span class="ocrx_word" title="bbox 220 40 320 80; x_wconf 91">2024-117</span>
     </span>
     <span class="ocr_line" title="bbox 40 90 760 120">
      <span class="ocrx_word" title="bbox 40 90 140 120; x_wconf 88">Total</span>
      <span class="ocrx_word" title="bbox 160 90 260 120; x_wconf 86">45,90</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	text, conf, words := parseHOCR(sampleHOCR)

	if words != 4 {
		t.Errorf("words = %d, want 4", words)
	}

	wantLines := []string{"FACTURE 2024-117", "Total 45,90"}
	gotLines := strings.Split(text, "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("text = %q, want %d lines", text, len(wantLines))
	}
	for i, want := range wantLines {
		if gotLines[i] != want {
			t.Errorf("line %d = %q, want %q", i, gotLines[i], want)
		}
	}

	wantConf := (95 + 91 + 88 + 86) / 4.0 / 100.0
	if diff := conf - wantConf; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("confidence = %v, want %v", conf, wantConf)
	}
}

func TestParseHOCR_Empty(t *testing.T) {
	empty := `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title></title></head>
<body><div class="ocr_page" title="image; bbox 0 0 800 600"></div></body></html>`

	text, conf, words := parseHOCR(empty)
	if text != "" || conf != 0 || words != 0 {
		t.Errorf("parseHOCR(empty) = (%q, %v, %d), want zero values", text, conf, words)
	}
}

func TestParseHOCR_Malformed(t *testing.T) {
	text, conf, words := parseHOCR("not xml at all")
	if text != "" || conf != 0 || words != 0 {
		t.Errorf("parseHOCR(malformed) = (%q, %v, %d), want zero values", text, conf, words)
	}
}

func TestExtractWordConfidence(t *testing.T) {
	tests := []struct {
		title string
		want  float64
	}{
		{"bbox 40 40 200 80; x_wconf 95", 95},
		{"bbox 40 40 200 80", 0},
		{"x_wconf 7", 7},
		{"", 0},
	}
	for _, tt := range tests {
		if got := extractWordConfidence(tt.title); got != tt.want {
			t.Errorf("extractWordConfidence(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}
