// Package pipeline wires the processing stages into one forward-only
// flow: raw image, preprocessed image, candidate zones, filtered zones,
// classified zones, ordered zones, engine results, consolidated
// document. Each stage produces new values; nothing mutates a
// predecessor's output.
package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/assemble"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/engine"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/preprocess"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/resolve"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// Document is one input page with its selected profile. Immutable once
// created.
type Document struct {
	ID     string
	Path   string
	Preset profile.Preset
}

// NewDocument assigns a fresh identity to an input file.
func NewDocument(path string, preset profile.Preset) Document {
	return Document{ID: uuid.NewString(), Path: path, Preset: preset}
}

// Pipeline runs documents through detection, recognition and assembly.
type Pipeline struct {
	registry     *engine.Registry
	resolver     *resolve.Resolver
	logger       *logger.Logger
	artifactsDir string
	prePass      bool
	overrides    string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipeline) { p.logger = log }
}

// WithArtifacts enables writing per-zone crops and the consolidated
// metadata JSON under dir.
func WithArtifacts(dir string) Option {
	return func(p *Pipeline) { p.artifactsDir = dir }
}

// WithSemanticPrePass runs the profile's preferred engine on each zone
// before classification so content cues participate in typing. Slower
// but markedly better on invoices and forms.
func WithSemanticPrePass(enabled bool) Option {
	return func(p *Pipeline) { p.prePass = enabled }
}

// WithProfileOverrides applies a YAML tuning file on top of the preset.
func WithProfileOverrides(path string) Option {
	return func(p *Pipeline) { p.overrides = path }
}

// WithResolver replaces the default resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

func New(registry *engine.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = resolve.New(registry, resolve.WithLogger(p.logger))
	}
	return p
}

// Process runs one document end to end.
func (p *Pipeline) Process(ctx context.Context, doc Document) (*assemble.Result, error) {
	log := p.logger.WithDocumentID(doc.ID)
	log.Infow("Processing document", "path", doc.Path, "preset", doc.Preset)

	prof := profile.ForPreset(doc.Preset)
	if p.overrides != "" {
		if err := profile.LoadOverrides(prof, p.overrides); err != nil {
			return nil, err
		}
	}
	// Engines that failed their health check never reach the resolver.
	for _, name := range []string{engine.NameTesseract, engine.NameEasyOCR, engine.NameDocTR} {
		if _, err := p.registry.Get(name); err != nil {
			prof.RemoveEngine(name)
		}
	}

	raw, err := preprocess.Load(doc.Path, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreprocessing, err)
	}
	page := preprocess.Normalize(raw, prof.Preprocess)
	log.WithStage("preprocess").Debugw("Page normalized",
		"width", page.Bounds().Dx(), "height", page.Bounds().Dy())

	zones := p.detect(ctx, page, prof, log)
	zone.AssignReadingOrder(zones)

	crops := make([]image.Image, len(zones))
	for i, z := range zones {
		crops[i] = cropZone(page, z.Bounds)
	}

	if err := p.resolver.Resolve(ctx, prof, zones, crops); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrPipelineAborted, err)
		}
		return nil, err
	}

	result, err := assemble.Build(doc.ID, doc.Preset, zones)
	if err != nil {
		return nil, err
	}
	log.Infow("Document processed",
		"zones", len(result.Zones),
		"low_confidence", result.LowConfidenceZones,
		"confidence", result.Confidence,
	)

	if p.artifactsDir != "" {
		if err := writeArtifacts(p.artifactsDir, doc.ID, page, result); err != nil {
			log.Warnw("Failed to write artifacts", "error", err)
		}
	}
	return result, nil
}

// detect produces classified zones for the page. When detection is
// disabled or finds nothing, it degrades to a single whole-page body
// zone routed through the identical downstream path.
func (p *Pipeline) detect(ctx context.Context, page *image.Gray, prof *profile.Profile, log *logger.Logger) []*zone.Zone {
	pageRect := geom.Rect{Width: page.Bounds().Dx(), Height: page.Bounds().Dy()}

	var candidates []zone.Candidate
	if !prof.Detect.Disabled {
		boxes := zone.Detect(page, prof.Detect)
		candidates = zone.Filter(page, boxes, prof.Filter)
		log.WithStage("detect").Debugw("Zone detection finished",
			"raw", len(boxes), "kept", len(candidates))
	}

	if len(candidates) == 0 {
		return []*zone.Zone{p.wholePageZone(pageRect)}
	}

	classifier := zone.NewClassifier(prof.Classify)
	zones := make([]*zone.Zone, 0, len(candidates))
	for i, c := range candidates {
		z := &zone.Zone{ID: i + 1, Bounds: c.Bounds}

		content := ""
		if p.prePass {
			content = p.peekContent(ctx, page, c.Bounds, prof)
		}
		z.Type, z.TypeConfidence = classifier.Classify(c, pageRect, content)
		// Transition cannot fail from the initial state.
		_ = z.Advance(zone.StateClassified)
		zones = append(zones, z)
	}
	return zones
}

// wholePageZone synthesizes the fallback zone covering the full page.
func (p *Pipeline) wholePageZone(pageRect geom.Rect) *zone.Zone {
	z := &zone.Zone{
		ID:             1,
		Bounds:         pageRect,
		Type:           zone.TypeBody,
		TypeConfidence: 1.0,
	}
	_ = z.Advance(zone.StateClassified)
	return z
}

// peekContent runs the profile's first available engine over a zone to
// obtain content cues for classification. Failures just mean geometry
// decides alone.
func (p *Pipeline) peekContent(ctx context.Context, page *image.Gray, r geom.Rect, prof *profile.Profile) string {
	engines := p.registry.Select(prof.Default.Engines)
	if len(engines) == 0 {
		return ""
	}
	res, err := engines[0].Recognize(ctx, cropZone(page, r))
	if err != nil {
		return ""
	}
	return res.Text
}

func cropZone(page *image.Gray, r geom.Rect) image.Image {
	bounds := image.Rect(r.X, r.Y, r.Right(), r.Bottom()).Intersect(page.Bounds())
	return page.SubImage(bounds)
}
