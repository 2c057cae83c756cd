package domain

import "strconv"

// Distance is a B-relaxation distance: either a finite number of rounds or
// unreachable. The zero value is Unreachable.
type Distance struct {
	rounds int
	ok     bool
}

// Unreachable marks a node that no relaxation round connects.
var Unreachable = Distance{}

// Finite returns the distance reached after the given number of rounds.
func Finite(rounds int) Distance {
	if rounds < 0 {
		return Unreachable
	}
	return Distance{rounds: rounds, ok: true}
}

// Rounds reports the finite distance and whether the node was reached at all.
func (d Distance) Rounds() (int, bool) {
	return d.rounds, d.ok
}

// Reachable reports whether the distance is finite.
func (d Distance) Reachable() bool {
	return d.ok
}

// Less orders finite distances before unreachable ones.
func (d Distance) Less(other Distance) bool {
	switch {
	case !d.ok:
		return false
	case !other.ok:
		return true
	default:
		return d.rounds < other.rounds
	}
}

// MinDistance returns the shorter of the two distances.
func MinDistance(a, b Distance) Distance {
	if b.Less(a) {
		return b
	}
	return a
}

func (d Distance) String() string {
	if !d.ok {
		return "unreachable"
	}
	return strconv.Itoa(d.rounds)
}
