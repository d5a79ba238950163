// Package template defines the pluggable ballot type algebra. A
// template validates parameters and ballots, canonicalizes a ballot to
// the exact bytes that get committed, and aggregates revealed ballots
// into results. Canonicalization must be deterministic, injective over
// distinct ballots and total over validated ballots; the byte layouts
// of the built-in templates are frozen.
package template

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vocdoni/commit-reveal/types"
)

var (
	// ErrParams means the template parameters violate the template's
	// schema.
	ErrParams = errors.New("invalid template parameters")
	// ErrBallot means the ballot value is ill-formed for the template.
	ErrBallot = errors.New("invalid ballot")
	// ErrAggregate means aggregation failed internally.
	ErrAggregate = errors.New("aggregation failed")
)

// Template is a named ballot type capability set.
type Template interface {
	// ID returns the static template tag.
	ID() string
	// ValidateParams checks the template parameters.
	ValidateParams(params types.BallotValue) error
	// ValidateBallot checks a single ballot value against the params.
	ValidateBallot(value types.BallotValue, params types.BallotValue) error
	// Canonicalize encodes a validated ballot to its canonical bytes.
	Canonicalize(value types.BallotValue, params types.BallotValue) ([]byte, error)
	// Aggregate folds revealed ballots into the template's result
	// shape. The input order is the reveal order.
	Aggregate(values []types.BallotValue, params types.BallotValue) (any, error)
	// Schema returns a self-description of the template.
	Schema() *Schema
}

// Schema is a template self-description served over the API.
type Schema struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	ValueType   string            `json:"valueType"`
	Params      map[string]string `json:"params,omitempty"`
	Result      string            `json:"result"`
}

// Registry maps template IDs to templates. Registration happens at
// init time; lookups are concurrency-safe.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register adds a template. Registering a duplicate ID is an error.
func (r *Registry) Register(t Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ID()]; ok {
		return fmt.Errorf("template %q already registered", t.ID())
	}
	r.templates[t.ID()] = t
	return nil
}

// Get returns the template with the given ID.
func (r *Registry) Get(id string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns the registered template IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Schemas returns the schemas of all registered templates, ordered by
// template ID.
func (r *Registry) Schemas() []*Schema {
	schemas := make([]*Schema, 0)
	for _, id := range r.IDs() {
		t, _ := r.Get(id)
		schemas = append(schemas, t.Schema())
	}
	return schemas
}

// DefaultRegistry returns a registry with the built-in templates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Template{
		YesNo{},
		MultipleChoice{},
		NumericRange{},
		Ranking{},
	} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// requireEmptyParams rejects any params other than absent, null or {}.
func requireEmptyParams(params types.BallotValue) error {
	if !params.IsEmpty() {
		return fmt.Errorf("%w: template takes no parameters", ErrParams)
	}
	return nil
}
