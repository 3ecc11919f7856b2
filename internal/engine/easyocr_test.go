package engine

import (
	"context"
	"encoding/json"
	"image"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/easyocr"
)

func newSidecar(t *testing.T, handler http.HandlerFunc) *easyocr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return easyocr.NewClient(easyocr.WithEndpoint(server.URL), easyocr.WithMaxRetries(1))
}

func testImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 10, 10))
}

func TestEasyOCR_Recognize(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recognize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req easyocr.RecognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Image == "" {
			t.Error("request carries no image data")
		}
		if len(req.Languages) != 2 || req.Languages[0] != "fr" {
			t.Errorf("languages = %v, want [fr en]", req.Languages)
		}
		_ = json.NewEncoder(w).Encode(easyocr.RecognizeResponse{
			Lines: []easyocr.Line{
				{Text: "Facture N° 2024-117", Confidence: 0.92},
				{Text: "  ", Confidence: 0.10},
				{Text: "Total : 45,90 €", Confidence: 0.88},
			},
		})
	})

	eng := NewEasyOCR(client, nil)
	res, err := eng.Recognize(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	want := "Facture N° 2024-117\nTotal : 45,90 €"
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
	// Blank lines are dropped from the confidence mean too.
	if math.Abs(res.Confidence-0.90) > 1e-9 {
		t.Errorf("confidence = %v, want 0.90", res.Confidence)
	}
	if res.Engine != NameEasyOCR {
		t.Errorf("engine = %q, want %q", res.Engine, NameEasyOCR)
	}
}

func TestEasyOCR_RecognizeEmpty(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(easyocr.RecognizeResponse{})
	})

	eng := NewEasyOCR(client, []string{"fr"})
	res, err := eng.Recognize(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.Text != "" || res.Confidence != 0 {
		t.Errorf("got %+v, want empty result", res)
	}
}

func TestEasyOCR_RecognizeServerError(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusBadRequest)
	})

	eng := NewEasyOCR(client, []string{"fr"})
	if _, err := eng.Recognize(context.Background(), testImage()); err == nil {
		t.Fatal("expected error from failing sidecar")
	}
}

func TestEasyOCR_HealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{"ready", "ok", false},
		{"loading", "loading", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(easyocr.HealthResponse{Status: tt.status})
			})
			eng := NewEasyOCR(client, nil)
			err := eng.HealthCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("HealthCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
