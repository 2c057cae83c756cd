package hypergraph

import "slices"

// Membership maps every node to the aggregates that contain it. Each node is
// a member of itself, aggregates included.
type Membership struct {
	owners    map[string][]string
	expansion map[string][]string
}

// ExpandMembership builds the membership map for h. It is computed once per
// hypergraph and is read-only afterwards.
func ExpandMembership(h *Hypergraph) *Membership {
	m := &Membership{
		owners:    make(map[string][]string, h.NumNodes()),
		expansion: make(map[string][]string),
	}
	for _, n := range h.Nodes() {
		m.add(n.ID, n.ID)
		if !n.IsAggregate() {
			continue
		}
		for _, member := range n.Members {
			m.add(member, n.ID)
		}
		m.expansion[n.ID] = mergeSorted([]string{n.ID}, n.Members)
	}
	for id, owners := range m.owners {
		slices.Sort(owners)
		m.owners[id] = slices.Compact(owners)
	}
	return m
}

// add tolerates members that were never declared as nodes by creating the
// entry on first use.
func (m *Membership) add(member, owner string) {
	m.owners[member] = append(m.owners[member], owner)
}

// Of returns the sorted owners of id, itself included. Unknown identifiers
// own only themselves.
func (m *Membership) Of(id string) []string {
	if owners, ok := m.owners[id]; ok {
		return owners
	}
	return []string{id}
}

// Contains reports whether id appears in the hypergraph, as a node or as a
// member of an aggregate.
func (m *Membership) Contains(id string) bool {
	_, ok := m.owners[id]
	return ok
}

// Expansion returns the primitive expansion of id: the node itself plus, for
// aggregates, all of its members.
func (m *Membership) Expansion(id string) []string {
	if exp, ok := m.expansion[id]; ok {
		return exp
	}
	return []string{id}
}

// Len returns the number of identifiers in the membership map.
func (m *Membership) Len() int {
	return len(m.owners)
}
