package pathway

import "sort"

type members map[string]struct{}

func (m members) has(id string) bool {
	_, ok := m[id]
	return ok
}

// subsetOf reports whether every element of m is in other.
func (m members) subsetOf(other members) bool {
	if len(m) > len(other) {
		return false
	}
	for id := range m {
		if !other.has(id) {
			return false
		}
	}
	return true
}

// Set is the collection of retained pathways and the union of their members.
type Set struct {
	pathways map[string]members
	names    []string
	all      members
}

func newSet(pathways map[string]members) *Set {
	s := &Set{
		pathways: pathways,
		names:    make([]string, 0, len(pathways)),
		all:      make(members),
	}
	for name, m := range pathways {
		s.names = append(s.names, name)
		for id := range m {
			s.all[id] = struct{}{}
		}
	}
	sort.Strings(s.names)
	return s
}

// Names returns the sorted names of the retained pathways.
func (s *Set) Names() []string { return s.names }

// Len returns the number of retained pathways.
func (s *Set) Len() int { return len(s.names) }

// Size returns the number of members of the named pathway.
func (s *Set) Size(name string) int { return len(s.pathways[name]) }

// NumNodes returns the size of the member union.
func (s *Set) NumNodes() int { return len(s.all) }

// Has reports whether the named pathway contains id.
func (s *Set) Has(name, id string) bool {
	return s.pathways[name].has(id)
}

// InAny reports whether id belongs to at least one pathway.
func (s *Set) InAny(id string) bool {
	return s.all.has(id)
}

// Shared returns the first pathway, in name order, containing both a and b.
func (s *Set) Shared(a, b string) (string, bool) {
	for _, name := range s.names {
		if s.Has(name, a) && s.Has(name, b) {
			return name, true
		}
	}
	return "", false
}
