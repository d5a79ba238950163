// Package engine orchestrates the commit-reveal protocol: it gates
// every operation through the phase clock, delegates ballot handling
// to the template registry and persistence to the storage layer. The
// engine holds no mutable state between requests; all shared state
// lives in the store.
package engine

import (
	"time"

	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/types"
)

// Engine applies the commit-reveal protocol on top of a Storage and a
// template Registry.
type Engine struct {
	store     *storage.Storage
	templates *template.Registry
	now       func() time.Time

	minDuration time.Duration
	maxDuration time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeFunc replaces the wall-clock source. Used by tests to drive
// votes through their phases.
func WithTimeFunc(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDurationBounds overrides the allowed commitment/reveal phase
// duration range.
func WithDurationBounds(min, max time.Duration) Option {
	return func(e *Engine) {
		e.minDuration = min
		e.maxDuration = max
	}
}

// New creates an Engine over the given store and template registry.
func New(store *storage.Storage, templates *template.Registry, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		templates:   templates,
		now:         time.Now,
		minDuration: types.MinPhaseDuration,
		maxDuration: types.MaxPhaseDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Templates returns the engine's template registry.
func (e *Engine) Templates() *template.Registry {
	return e.templates
}

// Store returns the engine's storage layer.
func (e *Engine) Store() *storage.Storage {
	return e.store
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(types.TimePrecision)
}
