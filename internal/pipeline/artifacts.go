package pipeline

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/assemble"
)

// writeArtifacts dumps debugging output for one processed document:
// a PNG crop per zone plus the consolidated result as JSON. Layout:
//
//	<dir>/<documentID>/zone_003_price.png
//	<dir>/<documentID>/result.json
func writeArtifacts(dir, documentID string, page *image.Gray, result *assemble.Result) error {
	docDir := filepath.Join(dir, documentID)
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	for _, rec := range result.Zones {
		r := rec.Bounds
		crop := page.SubImage(image.Rect(r.X, r.Y, r.Right(), r.Bottom()).Intersect(page.Bounds()))

		name := fmt.Sprintf("zone_%03d_%s.png", rec.ID, rec.Type)
		f, err := os.Create(filepath.Join(docDir, name))
		if err != nil {
			return fmt.Errorf("failed to create zone crop: %w", err)
		}
		if err := png.Encode(f, crop); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode zone crop: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "result.json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write result metadata: %w", err)
	}
	return nil
}
