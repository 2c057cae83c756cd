package generator

// Config drives the synthetic data generator.
type Config struct {
	NumProteins     int
	NumComplexes    int
	NumEntitySets   int
	NumHyperedges   int
	NumPathways     int
	NumInteractions int // per channel
	Channels        []string

	MaxMembers int // per complex or entity set
	MaxTail    int
	MaxHead    int

	// NestedComplexChance is the probability that a complex member is an
	// earlier complex rather than a protein.
	NestedComplexChance float64
	// EmptyTailChance is the probability of a hyperedge without tail.
	EmptyTailChance float64
	// UnmappedChance is the probability that a protein has no external id.
	UnmappedChance float64
	// StrayChance is the probability that an interaction endpoint is an
	// external id outside the hypergraph.
	StrayChance float64

	Seed int64
}

// DefaultConfig returns a small dataset that exercises every report column.
func DefaultConfig() Config {
	return Config{
		NumProteins:         2000,
		NumComplexes:        400,
		NumEntitySets:       150,
		NumHyperedges:       3000,
		NumPathways:         40,
		NumInteractions:     5000,
		Channels:            []string{"coexpression", "database", "experiments", "textmining"},
		MaxMembers:          5,
		MaxTail:             3,
		MaxHead:             2,
		NestedComplexChance: 0.15,
		EmptyTailChance:     0.02,
		UnmappedChance:      0.05,
		StrayChance:         0.05,
		Seed:                42,
	}
}
