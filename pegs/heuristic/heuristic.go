// Package heuristic scores peg solitaire states for best-first search.
package heuristic

import (
	"math/bits"

	"github.com/mvilches/ludoteca/pegs"
)

// Unreachable marks states that cannot reach the goal, such as a lone peg
// stranded off center. It is far above any real move count but small
// enough that g+h arithmetic never overflows.
const Unreachable = 1 << 30

// Estimate scores a state for best-first ordering. It takes the maximum of
// four measures: pegs beyond one, half the closest peg's center distance,
// connected groups beyond one, and a third of the loosely connected pegs.
// The last two can overestimate, so paths found under this estimate are
// not guaranteed shortest.
func Estimate(s pegs.State) int {
	n := s.PegCount()
	if n <= 1 {
		if s.IsGoal() {
			return 0
		}
		return Unreachable
	}
	h := n - 1
	if h2 := (closestCenterDistance(s) + 1) / 2; h2 > h {
		h = h2
	}
	if h3 := components(s) - 1; h3 > h {
		h = h3
	}
	if h4 := looseCount(s) / 3; h4 > h {
		h = h4
	}
	return h
}

func closestCenterDistance(s pegs.State) int {
	best := 2 * pegs.Dim
	for b := uint64(s); b != 0; b &= b - 1 {
		if d := pegs.CenterDistance(bits.TrailingZeros64(b)); d < best {
			best = d
		}
	}
	return best
}

// components counts connected groups of pegs under orthogonal adjacency.
func components(s pegs.State) int {
	remaining := uint64(s)
	count := 0
	var stack [pegs.NumCells]int
	for remaining != 0 {
		count++
		start := bits.TrailingZeros64(remaining)
		remaining &^= 1 << uint(start)
		stack[0] = start
		top := 1
		for top > 0 {
			top--
			cell := stack[top]
			for _, nb := range pegs.Neighbors(cell) {
				if remaining&(1<<nb) != 0 {
					remaining &^= 1 << nb
					stack[top] = int(nb)
					top++
				}
			}
		}
	}
	return count
}

// looseCount counts pegs with at most one occupied neighbor.
func looseCount(s pegs.State) int {
	n := 0
	for b := uint64(s); b != 0; b &= b - 1 {
		occ := 0
		for _, nb := range pegs.Neighbors(bits.TrailingZeros64(b)) {
			if s&(1<<nb) != 0 {
				occ++
			}
		}
		if occ <= 1 {
			n++
		}
	}
	return n
}
