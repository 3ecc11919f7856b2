package engine

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
)

// Engine name constants shared by profiles and configuration.
const (
	NameTesseract = "tesseract"
	NameEasyOCR   = "easyocr"
	NameDocTR     = "doctr"
)

// Tesseract runs OCR through the local Tesseract installation. A fresh
// gosseract client is created per call; the underlying C API is not
// safe to share across goroutines.
type Tesseract struct {
	languages []string
	logger    *logger.Logger
}

// NewTesseract builds a Tesseract engine. Languages are Tesseract
// traineddata codes; the default is French plus English, matching the
// documents this tool targets.
func NewTesseract(languages []string, log *logger.Logger) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"fra", "eng"}
	}
	if log == nil {
		log = logger.Get()
	}
	return &Tesseract{languages: languages, logger: log}
}

func (t *Tesseract) Name() string { return NameTesseract }

func (t *Tesseract) HealthCheck(ctx context.Context) error {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return fmt.Errorf("tesseract language data missing: %w", err)
	}
	return nil
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("failed to encode image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return Result{}, fmt.Errorf("failed to set tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("failed to set image data: %w", err)
	}

	hocr, err := client.HOCRText()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get HOCR text: %w", err)
	}

	text, confidence, words := parseHOCR(hocr)
	t.logger.WithEngine(NameTesseract).Debugw("Recognition completed",
		"words", words, "confidence", confidence)

	return Result{Text: text, Confidence: confidence, Engine: NameTesseract}, nil
}

// parseHOCR extracts the recognized text and the mean word confidence
// from Tesseract's HOCR output. Confidence is normalized to [0, 1].
func parseHOCR(hocr string) (string, float64, int) {
	var page hocrPage
	if err := xml.Unmarshal([]byte(hocr), &page); err != nil {
		return "", 0, 0
	}

	var lines []string
	var confSum float64
	words := 0

	for _, pageDiv := range page.Body.Pages {
		for _, area := range pageDiv.Areas {
			for _, par := range area.Pars {
				for _, line := range par.Lines {
					var parts []string
					for _, word := range line.Words {
						text := strings.TrimSpace(word.Text)
						if text == "" {
							continue
						}
						parts = append(parts, text)
						confSum += extractWordConfidence(word.Title)
						words++
					}
					if len(parts) > 0 {
						lines = append(lines, strings.Join(parts, " "))
					}
				}
			}
		}
	}

	if words == 0 {
		return "", 0, 0
	}
	return strings.Join(lines, "\n"), confSum / float64(words) / 100.0, words
}

var wconfRe = regexp.MustCompile(`x_wconf\s+(\d+)`)

// extractWordConfidence reads the x_wconf value from an HOCR title
// attribute ("bbox x0 y0 x1 y1; x_wconf 95").
func extractWordConfidence(title string) float64 {
	matches := wconfRe.FindStringSubmatch(title)
	if len(matches) != 2 {
		return 0
	}
	conf, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}
	return conf
}

// hocrPage mirrors the HOCR XML document structure.
type hocrPage struct {
	XMLName xml.Name `xml:"html"`
	Body    hocrBody `xml:"body"`
}

type hocrBody struct {
	Pages []hocrPageDiv `xml:"div"`
}

type hocrPageDiv struct {
	Class string     `xml:"class,attr"`
	Title string     `xml:"title,attr"`
	Areas []hocrArea `xml:"div"`
}

type hocrArea struct {
	Class string    `xml:"class,attr"`
	Pars  []hocrPar `xml:"p"`
}

type hocrPar struct {
	Lines []hocrLine `xml:"span"`
}

type hocrLine struct {
	Class string     `xml:"class,attr"`
	Words []hocrWord `xml:"span"`
}

type hocrWord struct {
	Class string `xml:"class,attr"`
	Title string `xml:"title,attr"`
	Text  string `xml:",chardata"`
}
