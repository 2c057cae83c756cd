package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/brelax"
	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/pathway"
)

type fixture struct {
	graph      *hypergraph.Hypergraph
	membership *hypergraph.Membership
	engine     *brelax.Engine
	pathways   *pathway.Set
}

// newFixture builds the chain A -> B -> C, a complex CPX{A, X} feeding Y, and
// an isolated node D.
func newFixture(t *testing.T, raw map[string][]string) fixture {
	t.Helper()
	h := hypergraph.New()
	require.NoError(t, h.AddNode("D", hypergraph.Primitive))
	require.NoError(t, h.AddNode("CPX", hypergraph.Hypernode, "A", "X"))
	for _, e := range [][2][]string{
		{{"A"}, {"B"}},
		{{"B"}, {"C"}},
		{{"CPX"}, {"Y"}},
	} {
		_, err := h.AddHyperedge(e[0], e[1])
		require.NoError(t, err)
	}
	m := hypergraph.ExpandMembership(h)
	if raw == nil {
		raw = map[string][]string{"P1": {"A", "B", "C", "D", "X", "Y"}}
	}
	return fixture{
		graph:      h,
		membership: m,
		engine:     brelax.NewEngine(hypergraph.BuildBVisitIndex(h), m),
		pathways:   pathway.NewFilter(pathway.ModeAll, pathway.Catalog{}, m, nil).Apply(raw),
	}
}

func (f fixture) scorer(admission Admission, workers int) *PairScorer {
	return NewPairScorer(f.pathways, f.membership, f.engine, admission, workers)
}

func TestPairScorer_ChainExample(t *testing.T) {
	f := newFixture(t, nil)
	rows, summary, err := f.scorer(AdmitAnyPathway, 1).Score(context.Background(), []domain.Interaction{
		{Node1: "A", Node2: "C", Weight: 5},
		{Node1: "A", Node2: "D", Weight: 1},
		{Node1: "C", Node2: "A", Weight: 2},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.Interaction{Node1: "A", Node2: "C", Weight: 5}, rows[0].Interaction)
	assert.True(t, rows[0].AnyPathway)
	assert.True(t, rows[0].SamePathway)
	assert.True(t, rows[0].Bipartite)
	assert.Equal(t, domain.Finite(2), rows[0].Distance)

	assert.True(t, rows[1].AnyPathway)
	assert.False(t, rows[1].Bipartite)
	assert.Equal(t, domain.Unreachable, rows[1].Distance)

	// Relaxation runs forward from Node1 only.
	assert.False(t, rows[2].Bipartite)

	assert.Equal(t, 3, summary.Admitted)
	assert.Equal(t, 1, summary.Bipartite)
	assert.Equal(t, 2.0, summary.MeanDistance)
}

func TestPairScorer_OwningAggregatesAreSources(t *testing.T) {
	f := newFixture(t, nil)
	rows, summary, err := f.scorer(AdmitAnyPathway, 1).Score(context.Background(), []domain.Interaction{
		{Node1: "A", Node2: "Y", Weight: 1},
		{Node1: "A", Node2: "X", Weight: 1},
	})
	require.NoError(t, err)

	// Y is reached through CPX, which owns A.
	assert.Equal(t, domain.Finite(1), rows[0].Distance)
	// X shares the complex with A.
	assert.Equal(t, domain.Finite(0), rows[1].Distance)
	assert.True(t, rows[1].BConnected())
	assert.Equal(t, 1, summary.BConnected)
	assert.Equal(t, 2, summary.Sources, "A and CPX")
}

func TestPairScorer_Admission(t *testing.T) {
	f := newFixture(t, map[string][]string{
		"P1": {"A", "B"},
		"P2": {"C"},
	})
	in := []domain.Interaction{
		{Node1: "A", Node2: "C", Weight: 1},
		{Node1: "A", Node2: "B", Weight: 1},
		{Node1: "A", Node2: "D", Weight: 1},
	}

	rows, _, err := f.scorer(AdmitAnyPathway, 1).Score(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, rows[0].AnyPathway)
	assert.False(t, rows[0].SamePathway)
	assert.Equal(t, domain.Finite(2), rows[0].Distance)
	assert.False(t, rows[2].AnyPathway)
	assert.False(t, rows[2].Bipartite, "pairs outside pathways are never relaxed")

	rows, summary, err := f.scorer(AdmitSamePathway, 1).Score(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, rows[0].Bipartite, "different pathways are not admitted")
	assert.Equal(t, domain.Finite(1), rows[1].Distance)
	assert.Equal(t, 1, summary.Admitted)
}

func TestPairScorer_Invariants(t *testing.T) {
	f := newFixture(t, map[string][]string{"P1": {"A", "B", "C"}, "P2": {"CPX", "Y", "D"}})
	var in []domain.Interaction
	ids := []string{"A", "B", "C", "D", "X", "Y", "CPX"}
	for _, a := range ids {
		for _, b := range ids {
			in = append(in, domain.Interaction{Node1: a, Node2: b})
		}
	}

	for _, workers := range []int{1, 4} {
		rows, _, err := f.scorer(AdmitAnyPathway, workers).Score(context.Background(), in)
		require.NoError(t, err)
		for i, r := range rows {
			assert.Equal(t, in[i], r.Interaction, "input order is preserved")
			if r.SamePathway {
				assert.True(t, r.AnyPathway)
			}
			assert.Equal(t, r.Bipartite, r.Distance.Reachable())
		}
	}
}

type failingRelaxer struct{}

func (failingRelaxer) Relax(context.Context, brelax.AggregateID) (*brelax.Labeling, error) {
	return nil, errors.New("boom")
}

func TestPairScorer_RelaxError(t *testing.T) {
	f := newFixture(t, nil)
	s := NewPairScorer(f.pathways, f.membership, failingRelaxer{}, AdmitAnyPathway, 2)
	_, _, err := s.Score(context.Background(), []domain.Interaction{{Node1: "A", Node2: "B"}})
	require.Error(t, err)
	var taskErr *TaskError
	assert.ErrorAs(t, err, &taskErr)
}

func TestParseAdmission(t *testing.T) {
	a, err := ParseAdmission("SAME")
	require.NoError(t, err)
	assert.Equal(t, AdmitSamePathway, a)
	assert.Equal(t, "same", a.String())

	a, err = ParseAdmission("")
	require.NoError(t, err)
	assert.Equal(t, AdmitAnyPathway, a)

	_, err = ParseAdmission("some")
	assert.Error(t, err)
}
