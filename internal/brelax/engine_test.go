package brelax

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
)

type edge struct {
	tail, head []string
}

func buildEngine(t *testing.T, setup func(h *hypergraph.Hypergraph), edges []edge, opts ...Option) *Engine {
	t.Helper()
	h := hypergraph.New()
	if setup != nil {
		setup(h)
	}
	for _, e := range edges {
		_, err := h.AddHyperedge(e.tail, e.head)
		require.NoError(t, err)
	}
	return NewEngine(hypergraph.BuildBVisitIndex(h), hypergraph.ExpandMembership(h), opts...)
}

func rounds(t *testing.T, d domain.Distance) int {
	t.Helper()
	r, ok := d.Rounds()
	require.True(t, ok, "expected finite distance")
	return r
}

func TestRelax_Chain(t *testing.T) {
	eng := buildEngine(t, func(h *hypergraph.Hypergraph) {
		require.NoError(t, h.AddNode("D", hypergraph.Primitive))
	}, []edge{
		{tail: []string{"A"}, head: []string{"B"}},
		{tail: []string{"B"}, head: []string{"C"}},
	})

	l, err := eng.Relax(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, 0, rounds(t, l.Distance("A")))
	assert.Equal(t, 1, rounds(t, l.Distance("B")))
	assert.Equal(t, 2, rounds(t, l.Distance("C")))
	assert.False(t, l.Distance("D").Reachable())
	assert.False(t, l.Distance("missing").Reachable())
	assert.Equal(t, 3, l.Reached())
	assert.Equal(t, 2, l.Rounds())
}

func TestRelax_SinkReactionsChangeNothing(t *testing.T) {
	eng := buildEngine(t, nil, []edge{
		{tail: []string{"A"}, head: []string{"B"}},
		{tail: []string{"B"}, head: nil},
		{tail: []string{"B"}, head: []string{"C"}},
	})

	l, err := eng.Relax(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 2, rounds(t, l.Distance("C")))
	assert.Equal(t, 3, l.Reached())
}

func TestRelax_HyperedgeNeedsWholeTail(t *testing.T) {
	edges := []edge{
		{tail: []string{"A"}, head: []string{"B"}},
		{tail: []string{"A"}, head: []string{"X"}},
		{tail: []string{"X"}, head: []string{"Y"}},
		{tail: []string{"B", "Y"}, head: []string{"C"}},
		{tail: []string{"B", "Z"}, head: []string{"W"}},
	}
	eng := buildEngine(t, nil, edges)

	l, err := eng.Relax(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, 2, rounds(t, l.Distance("Y")))
	// C waits for Y, the later of its two tail nodes.
	assert.Equal(t, 3, rounds(t, l.Distance("C")))
	assert.False(t, l.Distance("W").Reachable(), "Z is never connected")
	assert.False(t, l.Distance("Z").Reachable())
}

func TestRelax_AggregateExpansionIsRoundZero(t *testing.T) {
	eng := buildEngine(t, func(h *hypergraph.Hypergraph) {
		require.NoError(t, h.AddNode("CPX", hypergraph.Hypernode, "P1", "P2"))
	}, []edge{
		{tail: []string{"P1", "P2"}, head: []string{"Q"}},
		{tail: []string{"Q"}, head: []string{"P1"}},
	})

	l, err := eng.Relax(context.Background(), "CPX")
	require.NoError(t, err)

	zero := map[string]bool{}
	l.Each(func(id string, d domain.Distance) {
		if r, _ := d.Rounds(); r == 0 {
			zero[id] = true
		}
	})
	assert.Equal(t, map[string]bool{"CPX": true, "P1": true, "P2": true}, zero)
	assert.Equal(t, 1, rounds(t, l.Distance("Q")))
}

func TestRelax_MonotoneRounds(t *testing.T) {
	edges := []edge{
		{tail: []string{"S"}, head: []string{"A", "B"}},
		{tail: []string{"A"}, head: []string{"C"}},
		{tail: []string{"C", "B"}, head: []string{"D"}},
		{tail: []string{"S", "D"}, head: []string{"E", "A"}},
	}
	eng := buildEngine(t, nil, edges)
	l, err := eng.Relax(context.Background(), "S")
	require.NoError(t, err)

	for _, e := range edges {
		worst := 0
		ready := true
		for _, tail := range e.tail {
			r, ok := l.Distance(tail).Rounds()
			if !ok {
				ready = false
				break
			}
			worst = max(worst, r)
		}
		if !ready {
			continue
		}
		for _, head := range e.head {
			assert.LessOrEqual(t, rounds(t, l.Distance(head)), worst+1, "head %s", head)
		}
	}
}

func TestRelax_Deterministic(t *testing.T) {
	edges := []edge{
		{tail: []string{"A"}, head: []string{"B", "C"}},
		{tail: []string{"B", "C"}, head: []string{"D"}},
	}
	first := buildEngine(t, nil, edges)
	second := buildEngine(t, nil, edges)

	l1, err := first.Relax(context.Background(), "A")
	require.NoError(t, err)
	l2, err := second.Relax(context.Background(), "A")
	require.NoError(t, err)

	collect := func(l *Labeling) map[string]domain.Distance {
		out := map[string]domain.Distance{}
		l.Each(func(id string, d domain.Distance) { out[id] = d })
		return out
	}
	assert.Equal(t, collect(l1), collect(l2))
}

func TestRelax_UnknownAggregate(t *testing.T) {
	eng := buildEngine(t, nil, []edge{{tail: []string{"A"}, head: []string{"B"}}})
	_, err := eng.Relax(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownAggregate)
	assert.Equal(t, 0, eng.Cache().Len(), "errors are not cached")
}

func TestRelax_ContextCancelled(t *testing.T) {
	eng := buildEngine(t, nil, []edge{{tail: []string{"A"}, head: []string{"B"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Relax(ctx, "A")
	assert.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	hits, misses, relaxed atomic.Int64
}

func (c *countingRecorder) CacheHit()                         { c.hits.Add(1) }
func (c *countingRecorder) CacheMiss()                        { c.misses.Add(1) }
func (c *countingRecorder) Relaxed(_, _ int, _ time.Duration) { c.relaxed.Add(1) }

func TestRelax_MemoizedPerAggregate(t *testing.T) {
	rec := &countingRecorder{}
	var progress []int
	eng := buildEngine(t, nil, []edge{{tail: []string{"A"}, head: []string{"B"}}},
		WithRecorder(rec),
		WithProgress(func(n int) { progress = append(progress, n) }),
	)

	l1, err := eng.Relax(context.Background(), "A")
	require.NoError(t, err)
	l2, err := eng.Relax(context.Background(), "A")
	require.NoError(t, err)
	_, err = eng.Relax(context.Background(), "B")
	require.NoError(t, err)

	assert.Same(t, l1, l2)
	assert.Equal(t, int64(1), rec.hits.Load())
	assert.Equal(t, int64(2), rec.misses.Load())
	assert.Equal(t, int64(2), rec.relaxed.Load())
	assert.Equal(t, []int{1, 2}, progress)
}

func TestCache_SingleComputationUnderConcurrency(t *testing.T) {
	c := NewCache()
	var calls atomic.Int64
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]*Labeling, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, _, err := c.GetOrCompute("CPX", func() (*Labeling, error) {
				calls.Add(1)
				<-release
				return &Labeling{rounds: 1}, nil
			})
			assert.NoError(t, err)
			results[i] = l
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, l := range results {
		assert.Same(t, results[0], l)
	}
	assert.Equal(t, 1, c.Len())
}
