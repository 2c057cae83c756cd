package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anu-bioinfo/pathway-connectivity/internal/brelax"
	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

// Admission selects which interactions are scored by relaxation. Relaxing
// every interaction is intractable, so pathway co-membership gates it.
type Admission int

const (
	// AdmitAnyPathway relaxes pairs whose endpoints are both in some pathway.
	AdmitAnyPathway Admission = iota
	// AdmitSamePathway relaxes only pairs sharing a pathway.
	AdmitSamePathway
)

func (a Admission) String() string {
	if a == AdmitSamePathway {
		return "same"
	}
	return "any"
}

// ParseAdmission accepts "any" or "same".
func ParseAdmission(s string) (Admission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return AdmitAnyPathway, nil
	case "same":
		return AdmitSamePathway, nil
	default:
		return 0, fmt.Errorf("unknown admission %q", s)
	}
}

// PathwayIndex answers pathway membership questions.
type PathwayIndex interface {
	InAny(id string) bool
	Shared(a, b string) (string, bool)
}

// MembershipIndex returns the aggregates owning a node, the node included.
type MembershipIndex interface {
	Of(id string) []string
}

// PairScorer classifies interactions by pathway support and B-relaxation
// distance.
type PairScorer struct {
	pathways   PathwayIndex
	membership MembershipIndex
	pool       *RelaxPool
	admission  Admission
}

// NewPairScorer wires a scorer. workers bounds concurrent relaxations.
func NewPairScorer(pathways PathwayIndex, membership MembershipIndex, relaxer Relaxer, admission Admission, workers int) *PairScorer {
	return &PairScorer{
		pathways:   pathways,
		membership: membership,
		pool:       NewRelaxPool(relaxer, workers),
		admission:  admission,
	}
}

// Score returns one row per interaction, in input order. Relaxation runs
// forward from Node1 only: every aggregate owning Node1 is a source, and the
// distance is the shortest over those sources to any aggregate owning Node2.
func (s *PairScorer) Score(ctx context.Context, in []domain.Interaction) ([]domain.ScoredInteraction, Summary, error) {
	rows := make([]domain.ScoredInteraction, len(in))
	var admitted []int
	var sources []brelax.AggregateID
	seen := make(map[brelax.AggregateID]int)

	for i, it := range in {
		row := domain.ScoredInteraction{Interaction: it, Distance: domain.Unreachable}
		row.AnyPathway = s.pathways.InAny(it.Node1) && s.pathways.InAny(it.Node2)
		if row.AnyPathway {
			_, row.SamePathway = s.pathways.Shared(it.Node1, it.Node2)
		}
		rows[i] = row

		if !s.admit(row) {
			continue
		}
		admitted = append(admitted, i)
		for _, owner := range s.membership.Of(it.Node1) {
			id := brelax.AggregateID(owner)
			if _, ok := seen[id]; !ok {
				seen[id] = len(sources)
				sources = append(sources, id)
			}
		}
	}

	labelings, err := s.pool.RelaxAll(ctx, sources)
	if err != nil {
		return nil, Summary{}, err
	}

	for _, i := range admitted {
		row := &rows[i]
		targets := s.membership.Of(row.Node2)
		for _, owner := range s.membership.Of(row.Node1) {
			l := labelings[seen[brelax.AggregateID(owner)]]
			row.Distance = domain.MinDistance(row.Distance, l.Nearest(targets))
		}
		row.Bipartite = row.Distance.Reachable()
	}

	return rows, summarize(rows, len(admitted), len(sources)), nil
}

func (s *PairScorer) admit(row domain.ScoredInteraction) bool {
	if s.admission == AdmitSamePathway {
		return row.SamePathway
	}
	return row.AnyPathway
}
