// Package engine provides the OCR engine abstraction and the registry
// that tracks which engines are available on the current host.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/logger"
)

// ErrUnavailable is returned when an engine's backing runtime is not
// installed, not reachable, or failed its health check.
var ErrUnavailable = errors.New("engine unavailable")

// Result is a single engine's reading of one image.
type Result struct {
	// Text is the recognized text, possibly empty.
	Text string

	// Confidence is the engine's self-reported confidence in [0, 1],
	// before any quality adjustment.
	Confidence float64

	// Engine is the name of the engine that produced the result.
	Engine string
}

// Engine is a single OCR backend. Implementations must be safe for
// concurrent use; the resolver fans out recognition calls from multiple
// goroutines.
type Engine interface {
	// Name returns the engine identifier (e.g. "tesseract").
	Name() string

	// Recognize runs OCR on an image and returns the best reading.
	// A clean run over an image with no text returns an empty Result,
	// not an error.
	Recognize(ctx context.Context, img image.Image) (Result, error)

	// HealthCheck verifies the engine's runtime is usable.
	HealthCheck(ctx context.Context) error
}

// Registry holds the configured engines and their health state. An
// engine that fails its health check at Init stays registered but is
// excluded from Available until the process restarts.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
	healthy map[string]bool
	logger  *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Get()
	}
	return &Registry{
		engines: make(map[string]Engine),
		healthy: make(map[string]bool),
		logger:  log,
	}
}

// Register adds an engine. Registering twice under the same name
// replaces the previous instance and resets its health state.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
	delete(r.healthy, e.Name())
}

// Init health-checks every registered engine once. It fails only when
// no engine at all is usable; individual failures are logged and the
// engine is sidelined.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	usable := 0
	for name, e := range r.engines {
		if err := e.HealthCheck(ctx); err != nil {
			r.logger.WithEngine(name).Warnw("Engine failed health check, excluding from this run", "error", err)
			r.healthy[name] = false
			continue
		}
		r.healthy[name] = true
		usable++
		r.logger.WithEngine(name).Debug("Engine available")
	}

	if usable == 0 {
		return fmt.Errorf("no usable OCR engine: %w", ErrUnavailable)
	}
	return nil
}

// Get returns a healthy engine by name.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine %q not registered: %w", name, ErrUnavailable)
	}
	if !r.healthy[name] {
		return nil, fmt.Errorf("engine %q: %w", name, ErrUnavailable)
	}
	return e, nil
}

// Available returns the names of all healthy engines, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		if r.healthy[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Select filters a preference-ordered engine list down to the healthy
// ones, preserving order.
func (r *Registry) Select(preferred []string) []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Engine, 0, len(preferred))
	for _, name := range preferred {
		if e, ok := r.engines[name]; ok && r.healthy[name] {
			out = append(out, e)
		}
	}
	return out
}
