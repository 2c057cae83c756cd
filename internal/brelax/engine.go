package brelax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
)

// ErrUnknownAggregate is returned when the source is not part of the hypergraph.
var ErrUnknownAggregate = errors.New("unknown aggregate")

// Expander resolves an aggregate into the nodes connected at round 0.
type Expander interface {
	Expansion(id string) []string
}

// Recorder observes relaxations. Implementations must be safe for concurrent use.
type Recorder interface {
	CacheHit()
	CacheMiss()
	Relaxed(rounds, reached int, elapsed time.Duration)
}

// ProgressFunc is called after every computed (not cached) relaxation with
// the number of relaxations computed so far.
type ProgressFunc func(computed int)

// Engine computes B-relaxation distance labelings and memoizes them per
// aggregate for the lifetime of the engine.
type Engine struct {
	index    *hypergraph.BVisitIndex
	expander Expander
	cache    *Cache
	recorder Recorder
	progress ProgressFunc
}

// Option customises an Engine.
type Option func(*Engine)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithProgress attaches a progress hook.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// NewEngine returns an engine over the given index. The index and expander
// must describe the same hypergraph.
func NewEngine(index *hypergraph.BVisitIndex, expander Expander, opts ...Option) *Engine {
	e := &Engine{
		index:    index,
		expander: expander,
		cache:    NewCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache exposes the engine's memo table.
func (e *Engine) Cache() *Cache { return e.cache }

// Relax returns the distance labeling of source, computing it at most once.
func (e *Engine) Relax(ctx context.Context, source AggregateID) (*Labeling, error) {
	l, computed, err := e.cache.GetOrCompute(source, func() (*Labeling, error) {
		return e.relax(ctx, source)
	})
	if err != nil {
		return nil, err
	}
	if e.recorder != nil {
		if computed {
			e.recorder.CacheMiss()
		} else {
			e.recorder.CacheHit()
		}
	}
	if computed && e.progress != nil {
		e.progress(e.cache.Len())
	}
	return l, nil
}

// relax runs the round-based relaxation. Round 0 connects the expansion of
// source; a hyperedge fires in round k once the last of its tail nodes was
// connected in round k-1, connecting its unconnected heads at distance k.
func (e *Engine) relax(ctx context.Context, source AggregateID) (*Labeling, error) {
	start := time.Now()
	if _, ok := e.index.Ref(string(source)); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAggregate, source)
	}

	dist := make(map[hypergraph.Ref]int)
	var frontier []hypergraph.Ref
	for _, id := range e.expander.Expansion(string(source)) {
		r, ok := e.index.Ref(id)
		if !ok {
			continue
		}
		if _, seen := dist[r]; !seen {
			dist[r] = 0
			frontier = append(frontier, r)
		}
	}

	pending := e.index.PendingTails()
	rounds := 0
	for k := 1; len(frontier) > 0; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next []hypergraph.Ref
		for _, r := range frontier {
			for _, edge := range e.index.TailOf(r) {
				pending[edge]--
				if pending[edge] != 0 {
					continue
				}
				for _, h := range e.index.Head(edge) {
					if _, seen := dist[h]; !seen {
						dist[h] = k
						next = append(next, h)
					}
				}
			}
		}
		if len(next) > 0 {
			rounds = k
		}
		frontier = next
	}

	if e.recorder != nil {
		e.recorder.Relaxed(rounds, len(dist), time.Since(start))
	}
	return &Labeling{
		index:  e.index,
		dist:   dist,
		rounds: rounds,
	}, nil
}
