package hypergraph

// Ref is a dense node handle inside a BVisitIndex.
type Ref int32

// BVisitIndex is the precomputed hyperedge readiness structure used by
// B-relaxation: per hyperedge the number of distinct tail nodes, per node the
// hyperedges it is a tail of, and per hyperedge its head nodes. It is built
// once per hypergraph and never mutated.
type BVisitIndex struct {
	refs      map[string]Ref
	ids       []string
	tailCount []int32
	tailOf    [][]int32
	heads     [][]Ref
	emptyTail int
	emptyHead int
}

// BuildBVisitIndex interns the nodes of h and indexes its hyperedges.
// Hyperedges with an empty tail are left out: they cannot be triggered from
// a source set. Hyperedges with an empty head connect nothing and are left
// out as well.
func BuildBVisitIndex(h *Hypergraph) *BVisitIndex {
	idx := &BVisitIndex{
		refs: make(map[string]Ref, h.NumNodes()),
		ids:  make([]string, 0, h.NumNodes()),
	}
	for _, n := range h.Nodes() {
		idx.intern(n.ID)
	}
	idx.tailOf = make([][]int32, len(idx.ids))

	for _, e := range h.Hyperedges() {
		if len(e.Tail) == 0 {
			idx.emptyTail++
			continue
		}
		if len(e.Head) == 0 {
			idx.emptyHead++
			continue
		}
		edge := int32(len(idx.tailCount))
		idx.tailCount = append(idx.tailCount, int32(len(e.Tail)))
		for _, t := range e.Tail {
			r := idx.refs[t]
			idx.tailOf[r] = append(idx.tailOf[r], edge)
		}
		head := make([]Ref, 0, len(e.Head))
		for _, id := range e.Head {
			head = append(head, idx.refs[id])
		}
		idx.heads = append(idx.heads, head)
	}
	return idx
}

func (idx *BVisitIndex) intern(id string) Ref {
	if r, ok := idx.refs[id]; ok {
		return r
	}
	r := Ref(len(idx.ids))
	idx.refs[id] = r
	idx.ids = append(idx.ids, id)
	return r
}

// Ref resolves a node identifier.
func (idx *BVisitIndex) Ref(id string) (Ref, bool) {
	r, ok := idx.refs[id]
	return r, ok
}

// ID returns the identifier behind r.
func (idx *BVisitIndex) ID(r Ref) string {
	return idx.ids[r]
}

// NumNodes returns the number of interned nodes.
func (idx *BVisitIndex) NumNodes() int { return len(idx.ids) }

// NumHyperedges returns the number of indexed hyperedges.
func (idx *BVisitIndex) NumHyperedges() int { return len(idx.tailCount) }

// EmptyTail returns how many hyperedges were skipped for having no tail.
func (idx *BVisitIndex) EmptyTail() int { return idx.emptyTail }

// EmptyHead returns the number of skipped hyperedges without head (sinks).
func (idx *BVisitIndex) EmptyHead() int { return idx.emptyHead }

// PendingTails returns a fresh copy of the per-hyperedge tail counters, to be
// decremented by a single relaxation.
func (idx *BVisitIndex) PendingTails() []int32 {
	out := make([]int32, len(idx.tailCount))
	copy(out, idx.tailCount)
	return out
}

// TailOf returns the hyperedges whose tail contains r.
func (idx *BVisitIndex) TailOf(r Ref) []int32 {
	return idx.tailOf[r]
}

// Head returns the head nodes of hyperedge e.
func (idx *BVisitIndex) Head(e int32) []Ref {
	return idx.heads[e]
}
