package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/idmap"
	"github.com/anu-bioinfo/pathway-connectivity/internal/interaction"
	"github.com/anu-bioinfo/pathway-connectivity/internal/pathway"
)

func smallConfig() Config {
	return Config{
		NumProteins:     50,
		NumComplexes:    10,
		NumEntitySets:   5,
		NumHyperedges:   40,
		NumPathways:     6,
		NumInteractions: 30,
		Channels:        []string{"fusion", "neighborhood"},
		EmptyTailChance: 0.1,
		StrayChance:     0.1,
		Seed:            7,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Proteins, 50)
	assert.Len(t, first.Complexes, 10)
	assert.Len(t, first.Hyperedges, 40)
	assert.Len(t, first.Pathways, 6)
	require.Len(t, first.Channels, 2)
	assert.Len(t, first.Channels[0].Interactions, 30)
}

func TestGenerate_NestedComplexesReferenceEarlierOnes(t *testing.T) {
	cfg := smallConfig()
	cfg.NestedComplexChance = 0.5
	ds, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range ds.Complexes {
		for _, m := range c.Members {
			if len(m) > 3 && m[:3] == "CPX" {
				assert.True(t, seen[m], "%s references %s before it is defined", c.ID, m)
			}
		}
		seen[c.ID] = true
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteDataset_RoundTripsThroughLoaders(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	layout, err := WriteDataset(ds, t.TempDir())
	require.NoError(t, err)

	h, err := hypergraph.Load(layout.HypergraphPrefix)
	require.NoError(t, err)
	assert.Equal(t, len(ds.Proteins)+len(ds.Complexes)+len(ds.EntitySets), h.NumNodes())
	assert.Equal(t, len(ds.Hyperedges), h.NumHyperedges())
	complexes, sets := h.Counts()
	assert.Equal(t, len(ds.Complexes), complexes)
	assert.Equal(t, len(ds.EntitySets), sets)

	raw, err := pathway.ReadDir(layout.PathwayDir)
	require.NoError(t, err)
	assert.Len(t, raw, len(ds.Pathways))
	assert.Contains(t, raw, pathway.DefaultCatalog().TopLevel[0])
	assert.Contains(t, raw, pathway.DefaultCatalog().Curated[0])
	for name, ids := range raw {
		assert.NotContains(t, ids, hypergraph.EmptySet, name)
	}

	mapper, err := idmap.Load(layout.IdentifierMap)
	require.NoError(t, err)
	assert.Equal(t, len(ds.Mappings), mapper.Len())

	require.Len(t, layout.Interactions, 2)
	rows, err := interaction.ReadFile(layout.Interactions[0], interaction.DefaultColumns)
	require.NoError(t, err)
	assert.Equal(t, ds.Channels[0].Interactions, rows)
}
