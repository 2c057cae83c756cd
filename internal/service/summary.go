package service

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

// Summary aggregates the scoring of one input.
type Summary struct {
	Total       int
	AnyPathway  int
	SamePathway int
	Admitted    int
	Bipartite   int
	BConnected  int
	Sources     int

	MeanDistance   float64
	MedianDistance float64
	MaxDistance    int
}

func summarize(rows []domain.ScoredInteraction, admitted, sources int) Summary {
	s := Summary{Total: len(rows), Admitted: admitted, Sources: sources}
	var dists []float64
	for _, r := range rows {
		if r.AnyPathway {
			s.AnyPathway++
		}
		if r.SamePathway {
			s.SamePathway++
		}
		if r.Bipartite {
			s.Bipartite++
		}
		if r.BConnected() {
			s.BConnected++
		}
		if d, ok := r.Distance.Rounds(); ok {
			dists = append(dists, float64(d))
			s.MaxDistance = max(s.MaxDistance, d)
		}
	}
	if len(dists) > 0 {
		sort.Float64s(dists)
		s.MeanDistance = stat.Mean(dists, nil)
		s.MedianDistance = stat.Quantile(0.5, stat.Empirical, dists, nil)
	}
	return s
}

// LogValue groups the summary for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("interactions", s.Total),
		slog.Int("any_pathway", s.AnyPathway),
		slog.Int("same_pathway", s.SamePathway),
		slog.Int("admitted", s.Admitted),
		slog.Int("bipartite", s.Bipartite),
		slog.Int("b_connected", s.BConnected),
		slog.Int("sources", s.Sources),
		slog.Float64("mean_distance", s.MeanDistance),
		slog.Float64("median_distance", s.MedianDistance),
		slog.Int("max_distance", s.MaxDistance),
	)
}
