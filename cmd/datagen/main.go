package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anu-bioinfo/pathway-connectivity/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		proteins     = flag.Int("proteins", cfg.NumProteins, "number of primitive nodes to generate")
		complexes    = flag.Int("complexes", cfg.NumComplexes, "number of complexes (hypernodes)")
		entitySets   = flag.Int("entity-sets", cfg.NumEntitySets, "number of entity sets")
		hyperedges   = flag.Int("hyperedges", cfg.NumHyperedges, "number of hyperedges")
		pathways     = flag.Int("pathways", cfg.NumPathways, "number of pathway files")
		interactions = flag.Int("interactions", cfg.NumInteractions, "interactions per channel")
		channels     = flag.String("channels", strings.Join(cfg.Channels, ","), "comma separated channel names")
		nestedChance = flag.Float64("nested-chance", cfg.NestedComplexChance, "probability of a complex member being a complex")
		emptyTail    = flag.Float64("empty-tail-chance", cfg.EmptyTailChance, "probability of a hyperedge without tail")
		unmapped     = flag.Float64("unmapped-chance", cfg.UnmappedChance, "probability of a protein without external id")
		stray        = flag.Float64("stray-chance", cfg.StrayChance, "probability of an interaction endpoint outside the identifier map")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir    = flag.String("output-dir", "data", "directory to write the dataset to")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumProteins:         *proteins,
		NumComplexes:        *complexes,
		NumEntitySets:       *entitySets,
		NumHyperedges:       *hyperedges,
		NumPathways:         *pathways,
		NumInteractions:     *interactions,
		Channels:            splitList(*channels),
		MaxMembers:          cfg.MaxMembers,
		MaxTail:             cfg.MaxTail,
		MaxHead:             cfg.MaxHead,
		NestedComplexChance: clampProbability(*nestedChance),
		EmptyTailChance:     clampProbability(*emptyTail),
		UnmappedChance:      clampProbability(*unmapped),
		StrayChance:         clampProbability(*stray),
		Seed:                *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	layout, err := generator.WriteDataset(dataset, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes, %d hyperedges, %d pathways and %d channels into %s\n",
		len(dataset.Proteins)+len(dataset.Complexes)+len(dataset.EntitySets),
		len(dataset.Hyperedges), len(dataset.Pathways), len(dataset.Channels), *outputDir)
	fmt.Fprintf(os.Stdout, "HYPERGRAPH_PREFIX=%s PATHWAY_DIR=%s IDMAP_PATH=%s PATHWAY_MODE=all\n",
		layout.HypergraphPrefix, layout.PathwayDir, layout.IdentifierMap)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
