package domain

// Interaction is a weighted pair of molecules as listed in a channel file.
// Node1 and Node2 keep the order of the input row.
type Interaction struct {
	Node1  string
	Node2  string
	Weight int
}

// ScoredInteraction carries the pathway and hypergraph support of an interaction.
type ScoredInteraction struct {
	Interaction
	AnyPathway  bool
	SamePathway bool
	Bipartite   bool
	Distance    Distance
}

// BConnected reports whether Node2 is connected without firing any hyperedge,
// i.e. both endpoints share a source expansion.
func (s ScoredInteraction) BConnected() bool {
	rounds, ok := s.Distance.Rounds()
	return ok && rounds == 0
}
