package service

import (
	"github.com/tidwall/btree"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

// IdentifierMapper translates external identifiers into the hypergraph namespace.
type IdentifierMapper interface {
	ToPrimary(external string) (string, bool)
}

// NodeUniverse answers whether an identifier exists in the hypergraph.
type NodeUniverse interface {
	Contains(id string) bool
}

// Resolution is the outcome of mapping raw interactions into the hypergraph.
type Resolution struct {
	// Interactions are the mapped interactions whose endpoints are both in
	// the hypergraph, in input order.
	Interactions []domain.Interaction
	// Mismapped lists excluded endpoints ordered by external identifier.
	Mismapped []domain.Mismapping
	// Unmapped and NotInHypergraph count dropped interactions.
	Unmapped        int
	NotInHypergraph int
}

// Resolve maps both endpoints of every interaction. An interaction with an
// unmapped endpoint is dropped and its unmapped endpoints are recorded as
// NotInIdentifierMap; otherwise an interaction with an endpoint outside the
// hypergraph is dropped and those endpoints are recorded as NotInHypergraph.
// A later record for the same external identifier replaces the earlier one.
func Resolve(in []domain.Interaction, mapper IdentifierMapper, nodes NodeUniverse) Resolution {
	var res Resolution
	var missing btree.Map[string, domain.Mismapping]

	record := func(external, primary string, reason domain.MismapReason) {
		missing.Set(external, domain.Mismapping{ExternalID: external, PrimaryID: primary, Reason: reason})
	}

	for _, it := range in {
		p1, ok1 := mapper.ToPrimary(it.Node1)
		p2, ok2 := mapper.ToPrimary(it.Node2)
		if !ok1 || !ok2 {
			if !ok1 {
				record(it.Node1, domain.UnmappedPrimaryID, domain.ReasonNotInIdentifierMap)
			}
			if !ok2 {
				record(it.Node2, domain.UnmappedPrimaryID, domain.ReasonNotInIdentifierMap)
			}
			res.Unmapped++
			continue
		}

		in1, in2 := nodes.Contains(p1), nodes.Contains(p2)
		if !in1 || !in2 {
			if !in1 {
				record(it.Node1, p1, domain.ReasonNotInHypergraph)
			}
			if !in2 {
				record(it.Node2, p2, domain.ReasonNotInHypergraph)
			}
			res.NotInHypergraph++
			continue
		}

		res.Interactions = append(res.Interactions, domain.Interaction{Node1: p1, Node2: p2, Weight: it.Weight})
	}

	res.Mismapped = make([]domain.Mismapping, 0, missing.Len())
	missing.Scan(func(_ string, m domain.Mismapping) bool {
		res.Mismapped = append(res.Mismapped, m)
		return true
	})
	return res
}
