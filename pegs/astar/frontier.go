package astar

import "github.com/mvilches/ludoteca/pegs"

// A node is one frontier entry. canonical keys the best-cost map; state is
// the concrete board the entry was generated from.
type node struct {
	f         int
	tie       int
	g         int
	canonical pegs.State
	state     pegs.State
}

// frontier is a min-heap ordered lexicographically over all node fields,
// so pop order is fully deterministic. Superseded entries are not removed
// in place; the solver discards them at pop time against the best-cost
// map.
type frontier []node

func (fr frontier) Len() int { return len(fr) }

func (fr frontier) Less(i, j int) bool {
	a, b := fr[i], fr[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.tie != b.tie {
		return a.tie < b.tie
	}
	if a.g != b.g {
		return a.g < b.g
	}
	if a.canonical != b.canonical {
		return a.canonical < b.canonical
	}
	return a.state < b.state
}

func (fr frontier) Swap(i, j int) {
	fr[i], fr[j] = fr[j], fr[i]
}

func (fr *frontier) Push(x any) {
	*fr = append(*fr, x.(node))
}

func (fr *frontier) Pop() any {
	old := *fr
	n := len(old)
	it := old[n-1]
	*fr = old[:n-1]
	return it
}
