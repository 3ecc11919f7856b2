// Package resolve runs the engines selected by the document profile
// against each zone and arbitrates their results into one final text
// per zone.
package resolve

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/engine"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/quality"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// DefaultWorkers bounds concurrent engine invocations. Tesseract and
// the sidecar are CPU-bound; more parallelism than this just thrashes.
const DefaultWorkers = 4

// Resolver fans recognition out over (zone, engine) pairs and picks
// the best result per zone.
type Resolver struct {
	registry *engine.Registry
	workers  int
	logger   *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkers sets the concurrent invocation limit.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) {
		r.logger = log
	}
}

func New(registry *engine.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		workers:  DefaultWorkers,
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// candidate is one engine's scored reading of a zone.
type candidate struct {
	result engine.Result
	score  float64
	// priority is the engine's index in the profile's ordered list;
	// lower wins ties.
	priority int
	ok       bool
}

// Resolve advances each classified zone through recognition to its
// terminal state. crops[i] is the page crop for zones[i]. Individual
// engine failures degrade the zone, they never abort the run; only
// context cancellation does.
func (r *Resolver) Resolve(ctx context.Context, prof *profile.Profile, zones []*zone.Zone, crops []image.Image) error {
	type task struct {
		zoneIdx   int
		engineIdx int
		eng       engine.Engine
	}

	var tasks []task
	selections := make([]profile.EngineSelection, len(zones))
	candidates := make([][]candidate, len(zones))

	for i, z := range zones {
		if err := z.Advance(zone.StateOCRPending); err != nil {
			return err
		}

		sel := prof.SelectionFor(z.Type)
		selections[i] = sel
		engines := r.registry.Select(sel.Engines)
		candidates[i] = make([]candidate, len(engines))

		for j, eng := range engines {
			tasks = append(tasks, task{zoneIdx: i, engineIdx: j, eng: eng})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			z := zones[t.zoneIdx]
			res, err := t.eng.Recognize(gctx, crops[t.zoneIdx])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.WithEngine(t.eng.Name()).WithZone(z.ID).Warnw("Engine failed on zone", "error", err)
				return nil
			}

			// Each task owns exactly one slot; no locking needed.
			candidates[t.zoneIdx][t.engineIdx] = candidate{
				result:   res,
				score:    score(res, z.Type),
				priority: t.engineIdx,
				ok:       true,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, z := range zones {
		if err := r.finalize(z, selections[i], candidates[i]); err != nil {
			return err
		}
	}
	return nil
}

// score converts an engine result into the comparable arbitration
// value: the quality-adjusted confidence plus the zone-type bonus. The
// same formula applies to every candidate of a zone, so relative order
// is decided by text quality and engine confidence alone.
func score(res engine.Result, t zone.Type) float64 {
	s := quality.Adjust(res.Confidence, res.Text) + zone.TypeBonus(t)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// finalize picks the winning candidate and moves the zone to its
// terminal state. Zones with no usable candidate at all end
// low-confidence with empty text, never dropped.
func (r *Resolver) finalize(z *zone.Zone, sel profile.EngineSelection, cands []candidate) error {
	best := -1
	produced := 0
	for i, c := range cands {
		if !c.ok {
			continue
		}
		produced++
		if best < 0 {
			best = i
			continue
		}
		// Strictly higher score wins; equal scores keep the engine
		// the profile listed first.
		if c.score > cands[best].score ||
			(c.score == cands[best].score && c.priority < cands[best].priority) {
			best = i
		}
	}

	z.Candidates = produced

	if best < 0 {
		r.logger.WithZone(z.ID).Debug("No engine produced a result")
		return z.Advance(zone.StateLowConfidence)
	}

	winner := cands[best]
	z.Text = winner.result.Text
	z.Confidence = winner.score
	z.Engine = winner.result.Engine

	next := zone.StateLowConfidence
	if winner.score >= sel.Threshold {
		next = zone.StateResolved
	}
	if err := z.Advance(next); err != nil {
		return err
	}

	r.logger.WithZone(z.ID).Debugw("Zone resolved",
		"engine", z.Engine,
		"confidence", z.Confidence,
		"candidates", produced,
		"state", z.State.String(),
	)
	return nil
}
