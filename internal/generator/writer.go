package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/pathway"
	"github.com/anu-bioinfo/pathway-connectivity/internal/report"
)

// HypergraphName is the prefix base name of the generated hypergraph files.
const HypergraphName = "synthetic"

// Layout locates the files of a written dataset.
type Layout struct {
	HypergraphPrefix string
	PathwayDir       string
	IdentifierMap    string
	Interactions     []string
}

// NewLayout returns the layout of a dataset written under dir.
func NewLayout(dir string, channels []Channel) Layout {
	l := Layout{
		HypergraphPrefix: filepath.Join(dir, "hypergraph", HypergraphName),
		PathwayDir:       filepath.Join(dir, "pathways"),
		IdentifierMap:    filepath.Join(dir, "idmap.txt"),
	}
	for _, c := range channels {
		l.Interactions = append(l.Interactions, filepath.Join(dir, "interactions", c.Name+".txt"))
	}
	return l
}

// WriteDataset serializes the dataset in the loader formats under dir.
func WriteDataset(dataset Dataset, dir string) (Layout, error) {
	layout := NewLayout(dir, dataset.Channels)
	for _, sub := range []string{filepath.Dir(layout.HypergraphPrefix), layout.PathwayDir, filepath.Join(dir, "interactions")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return Layout{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	files := []datasetFile{
		{layout.HypergraphPrefix + hypergraph.NodeSuffix, func(w io.Writer) error {
			return writeLines(w, "#Node", dataset.Proteins)
		}},
		{layout.HypergraphPrefix + hypergraph.HypernodeSuffix, func(w io.Writer) error {
			return writeAggregates(w, "#Hypernode\tNodes", dataset.Complexes)
		}},
		{layout.HypergraphPrefix + hypergraph.EntitySetSuffix, func(w io.Writer) error {
			return writeAggregates(w, "#EntitySet\tNodes", dataset.EntitySets)
		}},
		{layout.HypergraphPrefix + hypergraph.HyperedgeSuffix, func(w io.Writer) error {
			return writeHyperedges(w, dataset.Hyperedges)
		}},
		{layout.IdentifierMap, func(w io.Writer) error {
			return writeMappings(w, dataset.Mappings)
		}},
	}
	for _, p := range dataset.Pathways {
		files = append(files, datasetFile{filepath.Join(layout.PathwayDir, p.Name+pathway.FileSuffix), func(w io.Writer) error {
			return writePathway(w, p.Nodes)
		}})
	}
	for i, c := range dataset.Channels {
		files = append(files, datasetFile{layout.Interactions[i], func(w io.Writer) error {
			return writeChannel(w, c.Interactions)
		}})
	}

	for _, f := range files {
		if err := report.WriteFile(f.path, f.write); err != nil {
			return Layout{}, err
		}
	}
	return layout, nil
}

type datasetFile struct {
	path  string
	write func(io.Writer) error
}

func writeLines(w io.Writer, header string, lines []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	for _, line := range lines {
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}

func writeAggregates(w io.Writer, header string, aggs []Aggregate) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	for _, a := range aggs {
		fmt.Fprintf(bw, "%s\t%s\n", a.ID, joinSet(a.Members))
	}
	return bw.Flush()
}

// writePathway lists a node per line, followed by its members if it has any.
func writePathway(w io.Writer, nodes []Aggregate) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#Node\tMembers")
	for _, n := range nodes {
		if len(n.Members) == 0 {
			fmt.Fprintln(bw, n.ID)
			continue
		}
		fmt.Fprintf(bw, "%s\t%s\n", n.ID, strings.Join(n.Members, ";"))
	}
	return bw.Flush()
}

func writeHyperedges(w io.Writer, edges []Hyperedge) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#Tail\tHead")
	for _, e := range edges {
		fmt.Fprintf(bw, "%s\t%s\n", joinSet(e.Tail), joinSet(e.Head))
	}
	return bw.Flush()
}

func writeMappings(w io.Writer, mappings []Mapping) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#Primary\tExternal")
	for _, m := range mappings {
		fmt.Fprintf(bw, "%s\t%s\n", m.Primary, m.External)
	}
	return bw.Flush()
}

// writeChannel mirrors the processed STRING layout: two taxon-prefixed
// identifiers, the two external ids and the combined score.
func writeChannel(w io.Writer, rows []domain.Interaction) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#protein1\tprotein2\tnode1\tnode2\tscore")
	for _, r := range rows {
		fmt.Fprintf(bw, "9606.%s\t9606.%s\t%s\t%s\t%d\n", r.Node1, r.Node2, r.Node1, r.Node2, r.Weight)
	}
	return bw.Flush()
}

func joinSet(ids []string) string {
	if len(ids) == 0 {
		return hypergraph.EmptySet
	}
	return strings.Join(ids, ";")
}
