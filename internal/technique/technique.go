package technique

import (
	"tracelink/internal/index"
	"tracelink/internal/strsim"
)

// Meta is the per-technique metadata the predictor and post-processors key
// off of. It is data, not behavior, per the tagged-variant shape the source
// inheritance tree was flattened into.
type Meta struct {
	// Binary techniques select candidates where the score equals 1;
	// thresholded techniques select candidates where the score meets
	// Threshold. Exactly one of Binary or UsesThreshold is true.
	Binary        bool
	UsesThreshold bool
	Threshold     float64

	// Discount and Normalize gate the two post-processors of §4.4.
	Discount  bool
	Normalize bool
}

// Technique computes one ScoreSurface over a shared, read-only Indexes.
// Implementations must not mutate idx or memo state beyond memo's own
// caching, and must be safe to run concurrently with other techniques
// over the same Indexes.
type Technique interface {
	Name() string
	Meta() Meta
	Run(idx *index.Indexes, memo *strsim.Memo) *ScoreSurface
}

// Registry holds every known technique keyed by its CLI arg name. All nine
// built-ins are registered by All(); the orchestrator selects a subset by
// name for a given run.
type Registry struct {
	byName map[string]Technique
	order  []string
}

// NewRegistry builds a registry from the given techniques, preserving the
// order they're passed in for deterministic output when "all" is selected.
func NewRegistry(techniques ...Technique) *Registry {
	r := &Registry{byName: make(map[string]Technique, len(techniques))}
	for _, t := range techniques {
		r.byName[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r
}

// All returns the nine built-in techniques, in the canonical order used
// when a caller requests every technique.
func All() *Registry {
	return NewRegistry(
		nc{}, ncc{}, lcsb{}, lcsu{}, leven{}, lcba{}, tarantula{}, tfidf{}, tfidfMultiset{},
	)
}

// Names returns the registered technique names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the technique registered under name, or (nil, false).
func (r *Registry) Lookup(name string) (Technique, bool) {
	t, ok := r.byName[name]
	return t, ok
}
