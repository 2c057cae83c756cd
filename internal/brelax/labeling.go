package brelax

import (
	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
)

// AggregateID identifies the source of a relaxation: a complex, an entity
// set, or a primitive node standing for itself.
type AggregateID string

// Labeling is the distance labeling produced by relaxing one aggregate. Only
// reached nodes are stored; everything else is unreachable. A Labeling is
// immutable and safe for concurrent reads.
type Labeling struct {
	index  *hypergraph.BVisitIndex
	dist   map[hypergraph.Ref]int
	rounds int
}

// Distance returns the relaxation distance of id.
func (l *Labeling) Distance(id string) domain.Distance {
	r, ok := l.index.Ref(id)
	if !ok {
		return domain.Unreachable
	}
	d, ok := l.dist[r]
	if !ok {
		return domain.Unreachable
	}
	return domain.Finite(d)
}

// Nearest returns the smallest distance among ids.
func (l *Labeling) Nearest(ids []string) domain.Distance {
	best := domain.Unreachable
	for _, id := range ids {
		best = domain.MinDistance(best, l.Distance(id))
	}
	return best
}

// Reached returns how many nodes have a finite distance.
func (l *Labeling) Reached() int { return len(l.dist) }

// Rounds returns the number of rounds that connected at least one node.
func (l *Labeling) Rounds() int { return l.rounds }

// Each calls fn for every reached node.
func (l *Labeling) Each(fn func(id string, d domain.Distance)) {
	for r, d := range l.dist {
		fn(l.index.ID(r), domain.Finite(d))
	}
}
