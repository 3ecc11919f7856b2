package engine

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/easyocr"
)

// EasyOCR adapts the sidecar client to the Engine interface.
type EasyOCR struct {
	client    *easyocr.Client
	languages []string
}

func NewEasyOCR(client *easyocr.Client, languages []string) *EasyOCR {
	if len(languages) == 0 {
		languages = []string{"fr", "en"}
	}
	return &EasyOCR{client: client, languages: languages}
}

func (e *EasyOCR) Name() string { return NameEasyOCR }

func (e *EasyOCR) HealthCheck(ctx context.Context) error {
	if err := e.client.Health(ctx); err != nil {
		return fmt.Errorf("easyocr sidecar: %w", err)
	}
	return nil
}

func (e *EasyOCR) Recognize(ctx context.Context, img image.Image) (Result, error) {
	resp, err := e.client.RecognizeImage(ctx, img, e.languages)
	if err != nil {
		return Result{}, fmt.Errorf("easyocr recognition failed: %w", err)
	}

	var lines []string
	var confSum float64
	for _, line := range resp.Lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		lines = append(lines, text)
		confSum += line.Confidence
	}

	if len(lines) == 0 {
		return Result{Engine: NameEasyOCR}, nil
	}
	return Result{
		Text:       strings.Join(lines, "\n"),
		Confidence: confSum / float64(len(lines)),
		Engine:     NameEasyOCR,
	}, nil
}
