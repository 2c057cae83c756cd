package hypergraph

import (
	"errors"
	"fmt"
	"slices"
)

// NodeKind distinguishes primitive molecules from aggregate nodes.
type NodeKind int

const (
	Primitive NodeKind = iota
	Hypernode
	EntitySet
)

func (k NodeKind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Hypernode:
		return "hypernode"
	case EntitySet:
		return "entityset"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// ErrConflictingKind is returned when a node is declared both a hypernode
// (complex) and an entity set.
var ErrConflictingKind = errors.New("node declared with conflicting kinds")

// Node is a hypergraph vertex. Members is only set for aggregates.
type Node struct {
	ID      string
	Kind    NodeKind
	Members []string
}

// IsAggregate reports whether the node is a complex or an entity set.
func (n Node) IsAggregate() bool {
	return n.Kind == Hypernode || n.Kind == EntitySet
}

// Hyperedge is a directed relation from every tail node to every head node.
type Hyperedge struct {
	ID   string
	Tail []string
	Head []string
}

// Hypergraph holds the node set and the directed hyperedges between them.
// Member references always resolve to nodes: unknown members are added as
// primitive nodes.
type Hypergraph struct {
	nodes map[string]*Node
	order []string
	edges []Hyperedge
}

// New returns an empty hypergraph.
func New() *Hypergraph {
	return &Hypergraph{nodes: make(map[string]*Node)}
}

// AddNode declares a node. A primitive declaration of an existing node is a
// no-op; an aggregate declaration upgrades a primitive placeholder and merges
// members into an existing aggregate of the same kind.
func (h *Hypergraph) AddNode(id string, kind NodeKind, members ...string) error {
	if id == "" {
		return errors.New("node id is required")
	}
	n := h.ensure(id)
	if kind != Primitive {
		switch n.Kind {
		case Primitive:
			n.Kind = kind
		case kind:
		default:
			return fmt.Errorf("%w: %s is %s, redeclared as %s", ErrConflictingKind, id, n.Kind, kind)
		}
		n.Members = mergeSorted(n.Members, members)
		for _, m := range members {
			if m != "" {
				h.ensure(m)
			}
		}
	}
	return nil
}

// AddHyperedge appends a hyperedge; tail and head nodes are created as
// primitive nodes when unknown. Either side may be empty (source and sink
// reactions), but not both.
func (h *Hypergraph) AddHyperedge(tail, head []string) (Hyperedge, error) {
	e := Hyperedge{
		ID:   fmt.Sprintf("e%d", len(h.edges)+1),
		Tail: mergeSorted(nil, tail),
		Head: mergeSorted(nil, head),
	}
	if len(e.Tail) == 0 && len(e.Head) == 0 {
		return Hyperedge{}, errors.New("hyperedge tail and head are both empty")
	}
	for _, id := range e.Tail {
		h.ensure(id)
	}
	for _, id := range e.Head {
		h.ensure(id)
	}
	h.edges = append(h.edges, e)
	return e, nil
}

// Node looks up a node by identifier.
func (h *Hypergraph) Node(id string) (Node, bool) {
	n, ok := h.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Contains reports whether id is a node of the hypergraph.
func (h *Hypergraph) Contains(id string) bool {
	_, ok := h.nodes[id]
	return ok
}

// Nodes returns every node in insertion order.
func (h *Hypergraph) Nodes() []Node {
	out := make([]Node, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, *h.nodes[id])
	}
	return out
}

// Hyperedges returns the hyperedges in insertion order.
func (h *Hypergraph) Hyperedges() []Hyperedge {
	return h.edges
}

// NumNodes returns the size of the node set.
func (h *Hypergraph) NumNodes() int { return len(h.order) }

// NumHyperedges returns the number of hyperedges.
func (h *Hypergraph) NumHyperedges() int { return len(h.edges) }

// Counts returns the number of complexes and entity sets.
func (h *Hypergraph) Counts() (complexes, entitySets int) {
	for _, n := range h.nodes {
		switch n.Kind {
		case Hypernode:
			complexes++
		case EntitySet:
			entitySets++
		}
	}
	return complexes, entitySets
}

func (h *Hypergraph) ensure(id string) *Node {
	if n, ok := h.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Kind: Primitive}
	h.nodes[id] = n
	h.order = append(h.order, id)
	return n
}

// mergeSorted returns the sorted, deduplicated union of dst and src without
// empty identifiers.
func mergeSorted(dst, src []string) []string {
	out := make([]string, 0, len(dst)+len(src))
	out = append(out, dst...)
	for _, s := range src {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
