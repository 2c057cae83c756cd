package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/pathway"
)

// Aggregate is a complex or entity set with its direct members.
type Aggregate struct {
	ID      string
	Members []string
}

// Hyperedge is a reaction from its tail set to its head set.
type Hyperedge struct {
	Tail []string
	Head []string
}

// Pathway lists the nodes of one pathway.
type Pathway struct {
	Name  string
	Nodes []Aggregate
}

// Mapping pairs a hypergraph identifier with an external identifier.
type Mapping struct {
	Primary  string
	External string
}

// Channel holds the interactions of one evidence channel, keyed by external ids.
type Channel struct {
	Name         string
	Interactions []domain.Interaction
}

// Dataset contains every input of a scoring run.
type Dataset struct {
	Proteins   []string
	Complexes  []Aggregate
	EntitySets []Aggregate
	Hyperedges []Hyperedge
	Pathways   []Pathway
	Mappings   []Mapping
	Channels   []Channel
}

// Generator produces synthetic hypergraphs and interaction channels.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumProteins <= 1 {
		cfg.NumProteins = def.NumProteins
	}
	if cfg.NumComplexes <= 0 {
		cfg.NumComplexes = def.NumComplexes
	}
	if cfg.NumEntitySets <= 0 {
		cfg.NumEntitySets = def.NumEntitySets
	}
	if cfg.NumHyperedges <= 0 {
		cfg.NumHyperedges = def.NumHyperedges
	}
	if cfg.NumPathways <= 0 {
		cfg.NumPathways = def.NumPathways
	}
	if cfg.NumInteractions <= 0 {
		cfg.NumInteractions = def.NumInteractions
	}
	if len(cfg.Channels) == 0 {
		cfg.Channels = def.Channels
	}
	if cfg.MaxMembers <= 1 {
		cfg.MaxMembers = def.MaxMembers
	}
	if cfg.MaxTail <= 0 {
		cfg.MaxTail = def.MaxTail
	}
	if cfg.MaxHead <= 0 {
		cfg.MaxHead = def.MaxHead
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises a dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset

	ds.Proteins = make([]string, g.cfg.NumProteins)
	for i := range ds.Proteins {
		ds.Proteins[i] = fmt.Sprintf("P%05d", i+1)
	}

	ds.Complexes = make([]Aggregate, g.cfg.NumComplexes)
	for i := range ds.Complexes {
		members := make([]string, 2+g.rand.Intn(g.cfg.MaxMembers-1))
		for j := range members {
			if i > 0 && g.rand.Float64() < g.cfg.NestedComplexChance {
				members[j] = ds.Complexes[g.rand.Intn(i)].ID
				continue
			}
			members[j] = g.protein(ds.Proteins)
		}
		ds.Complexes[i] = Aggregate{ID: fmt.Sprintf("CPX%05d", i+1), Members: dedupe(members)}
	}

	ds.EntitySets = make([]Aggregate, g.cfg.NumEntitySets)
	for i := range ds.EntitySets {
		members := make([]string, 2+g.rand.Intn(g.cfg.MaxMembers-1))
		for j := range members {
			members[j] = g.protein(ds.Proteins)
		}
		ds.EntitySets[i] = Aggregate{ID: fmt.Sprintf("SET%05d", i+1), Members: dedupe(members)}
	}

	nodes := make([]string, 0, len(ds.Proteins)+len(ds.Complexes)+len(ds.EntitySets))
	nodes = append(nodes, ds.Proteins...)
	for _, c := range ds.Complexes {
		nodes = append(nodes, c.ID)
	}
	for _, s := range ds.EntitySets {
		nodes = append(nodes, s.ID)
	}

	ds.Hyperedges = make([]Hyperedge, g.cfg.NumHyperedges)
	for i := range ds.Hyperedges {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		var edge Hyperedge
		if g.rand.Float64() >= g.cfg.EmptyTailChance {
			edge.Tail = g.pick(nodes, 1+g.rand.Intn(g.cfg.MaxTail))
		}
		edge.Head = g.pick(nodes, 1+g.rand.Intn(g.cfg.MaxHead))
		ds.Hyperedges[i] = edge
	}

	ds.Pathways = g.pathways(ds)

	for _, p := range ds.Proteins {
		if g.rand.Float64() < g.cfg.UnmappedChance {
			continue
		}
		ds.Mappings = append(ds.Mappings, Mapping{Primary: p, External: "U" + p[1:]})
	}
	// Mapped identifiers the hypergraph does not know.
	for i := range max(1, g.cfg.NumProteins/100) {
		ds.Mappings = append(ds.Mappings, Mapping{Primary: fmt.Sprintf("X%05d", i+1), External: fmt.Sprintf("V%05d", i+1)})
	}

	externals := make([]string, len(ds.Mappings))
	for i, m := range ds.Mappings {
		externals[i] = m.External
	}

	ds.Channels = make([]Channel, len(g.cfg.Channels))
	for i, name := range g.cfg.Channels {
		rows := make([]domain.Interaction, g.cfg.NumInteractions)
		for j := range rows {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
			rows[j] = domain.Interaction{
				Node1:  g.endpoint(externals),
				Node2:  g.endpoint(externals),
				Weight: 150 + g.rand.Intn(850),
			}
		}
		ds.Channels[i] = Channel{Name: name, Interactions: rows}
	}

	return ds, nil
}

// pathways names the first pathways after the curated catalog so that both
// filter modes keep some of them, and adds one top-level category.
func (g *Generator) pathways(ds Dataset) []Pathway {
	names := make([]string, 0, g.cfg.NumPathways)
	catalog := pathway.DefaultCatalog()
	for i := 0; i < g.cfg.NumPathways; i++ {
		switch {
		case i == 0 && len(catalog.TopLevel) > 0:
			names = append(names, catalog.TopLevel[0])
		case i <= len(catalog.Curated) && i%2 == 1:
			names = append(names, catalog.Curated[i-1])
		default:
			names = append(names, fmt.Sprintf("Synthetic-pathway-%03d", i+1))
		}
	}

	out := make([]Pathway, len(names))
	for i, name := range names {
		size := 3 + g.rand.Intn(20)
		nodes := make([]Aggregate, 0, size)
		for range size {
			if len(ds.Complexes) > 0 && g.rand.Intn(3) == 0 {
				nodes = append(nodes, ds.Complexes[g.rand.Intn(len(ds.Complexes))])
				continue
			}
			nodes = append(nodes, Aggregate{ID: g.protein(ds.Proteins)})
		}
		out[i] = Pathway{Name: name, Nodes: nodes}
	}
	return out
}

func (g *Generator) protein(proteins []string) string {
	return proteins[g.rand.Intn(len(proteins))]
}

func (g *Generator) pick(from []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = from[g.rand.Intn(len(from))]
	}
	return dedupe(out)
}

func (g *Generator) endpoint(externals []string) string {
	if len(externals) == 0 || g.rand.Float64() < g.cfg.StrayChance {
		return fmt.Sprintf("Q%05d", g.rand.Intn(100000))
	}
	return externals[g.rand.Intn(len(externals))]
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
