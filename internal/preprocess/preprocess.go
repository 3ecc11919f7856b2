// Package preprocess normalizes raw page images before zone detection:
// decode, grayscale, contrast stretch, deskew and resolution floor.
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"

	// Register decoders for the formats scanned documents arrive in.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
)

// ErrDecode is returned when input bytes cannot be decoded as a
// supported raster image or PDF.
var ErrDecode = errors.New("cannot decode input image")

// Load reads a page image from disk. PDF files yield the largest image
// embedded in their first page; everything else is decoded directly.
func Load(path string, log *logger.Logger) (image.Image, error) {
	if log == nil {
		log = logger.Get()
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return loadPDFPage(path, log)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return Decode(data)
}

// Decode decodes raw bytes as PNG, JPEG, TIFF or BMP.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}
	return img, nil
}

// loadPDFPage extracts the embedded images of the first PDF page and
// returns the largest one, which on scanned documents is the page scan
// itself.
func loadPDFPage(path string, log *logger.Logger) (image.Image, error) {
	dir, err := os.MkdirTemp("", "ocr-pdf-extract-")
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := api.ExtractImagesFile(path, dir, []string{"1"}, nil); err != nil {
		return nil, fmt.Errorf("%w: pdf image extraction failed: %v", ErrDecode, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted images: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var best image.Image
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			log.Debugw("Skipping undecodable extracted object", "name", entry.Name(), "error", err)
			continue
		}
		if best == nil || area(img) > area(best) {
			best = img
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no raster image on first PDF page", ErrDecode)
	}
	return best, nil
}

func area(img image.Image) int {
	return img.Bounds().Dx() * img.Bounds().Dy()
}

// Normalize prepares a decoded image for detection. The result is a
// new grayscale image; the input is never modified.
func Normalize(img image.Image, p profile.PreprocessParams) *image.Gray {
	gray := toGray(img)
	gray = stretchContrast(gray, p.ContrastLow, p.ContrastHigh)

	if p.MaxSkewDegrees > 0 {
		// estimateSkew returns the correction directly: it scores
		// angles with the same sampling transform rotate applies.
		if angle := estimateSkew(gray, p.MaxSkewDegrees); angle != 0 {
			gray = rotate(gray, angle)
		}
	}

	if p.MinWidth > 0 && gray.Bounds().Dx() < p.MinWidth {
		gray = upscale(gray, p.MinWidth)
	}
	return gray
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// stretchContrast maps the low and high intensity percentiles to the
// full 0..255 range. A flat image (both percentiles equal) is returned
// unchanged.
func stretchContrast(img *image.Gray, lowPct, highPct float64) *image.Gray {
	if lowPct <= 0 && highPct <= 0 {
		return img
	}

	var hist [256]int
	total := len(img.Pix)
	for _, v := range img.Pix {
		hist[v]++
	}

	low := percentileValue(hist, total, lowPct)
	high := percentileValue(hist, total, highPct)
	if high <= low {
		return img
	}

	out := image.NewGray(img.Bounds())
	scale := 255.0 / float64(high-low)
	for i, v := range img.Pix {
		stretched := (float64(v) - float64(low)) * scale
		if stretched < 0 {
			stretched = 0
		}
		if stretched > 255 {
			stretched = 255
		}
		out.Pix[i] = uint8(stretched)
	}
	return out
}

func percentileValue(hist [256]int, total int, pct float64) int {
	target := int(float64(total) * pct / 100.0)
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum >= target {
			return v
		}
	}
	return 255
}

// estimateSkew finds the rotation angle (degrees) that best aligns text
// rows with the horizontal axis, searching in 0.5 degree steps. The
// score of an angle is the variance of per-row ink counts; horizontal
// lines concentrate ink into few rows, maximizing it.
func estimateSkew(img *image.Gray, maxDegrees float64) float64 {
	small := img
	if img.Bounds().Dx() > 600 {
		small = downscale(img, 600)
	}

	bestAngle, bestScore := 0.0, rowVariance(small, 0)
	for angle := -maxDegrees; angle <= maxDegrees; angle += 0.5 {
		if angle == 0 {
			continue
		}
		if score := rowVariance(small, angle); score > bestScore {
			bestScore, bestAngle = score, angle
		}
	}
	return bestAngle
}

// rowVariance computes the variance of binarized ink counts per row
// after rotating sample points by the given angle.
func rowVariance(img *image.Gray, degrees float64) float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0
	}

	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(w)/2, float64(h)/2

	counts := make([]float64, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Sample the source pixel that lands on (x, y) after
			// rotation.
			sx := cos*(float64(x)-cx) + sin*(float64(y)-cy) + cx
			sy := -sin*(float64(x)-cx) + cos*(float64(y)-cy) + cy
			ix, iy := int(sx), int(sy)
			if ix < 0 || ix >= w || iy < 0 || iy >= h {
				continue
			}
			if img.GrayAt(img.Bounds().Min.X+ix, img.Bounds().Min.Y+iy).Y < 128 {
				counts[y]++
			}
		}
	}

	var sum float64
	for _, c := range counts {
		sum += c
	}
	mean := sum / float64(h)

	var variance float64
	for _, c := range counts {
		d := c - mean
		variance += d * d
	}
	return variance / float64(h)
}

// rotate rotates the image by the given angle (degrees, positive is
// counterclockwise), filling uncovered corners with white.
func rotate(img *image.Gray, degrees float64) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for i := range out.Pix {
		out.Pix[i] = 255
	}

	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := cos*(float64(x)-cx) + sin*(float64(y)-cy) + cx
			sy := -sin*(float64(x)-cx) + cos*(float64(y)-cy) + cy
			ix, iy := int(sx), int(sy)
			if ix < 0 || ix >= w || iy < 0 || iy >= h {
				continue
			}
			out.SetGray(x, y, img.GrayAt(img.Bounds().Min.X+ix, img.Bounds().Min.Y+iy))
		}
	}
	return out
}

func upscale(img *image.Gray, minWidth int) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scale := float64(minWidth) / float64(w)
	out := image.NewGray(image.Rect(0, 0, minWidth, int(float64(h)*scale)))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out
}

func downscale(img *image.Gray, width int) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scale := float64(width) / float64(w)
	out := image.NewGray(image.Rect(0, 0, width, int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out
}
