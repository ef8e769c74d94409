// Package symmetry canonicalizes board states under the dihedral group of
// the square. The cross region is closed under all eight transforms, so a
// state and its images always have the same peg count.
package symmetry

import (
	"math/bits"

	"github.com/mvilches/ludoteca/pegs"
)

// NumTransforms is the order of the dihedral group D4.
const NumTransforms = 8

// remap[k][i] is the destination index of cell i under transform k.
var remap [NumTransforms][pegs.NumCells]uint8

func init() {
	for k := 0; k < NumTransforms; k++ {
		for i := 0; i < pegs.NumCells; i++ {
			r, c := pegs.CellCoord(i)
			nr, nc := transform(r, c, k)
			idx, ok := pegs.CellIndex(nr, nc)
			if !ok {
				panic("symmetry: cross region is not closed under D4")
			}
			remap[k][i] = uint8(idx)
		}
	}
}

// transform applies the k-th element of D4 to a coordinate. Transforms
// 0 through 3 are counterclockwise rotations, 4 through 7 the reflections.
func transform(r, c, k int) (int, int) {
	n := pegs.Dim - 1
	switch k {
	case 0:
		return r, c
	case 1:
		return c, n - r
	case 2:
		return n - r, n - c
	case 3:
		return n - c, r
	case 4:
		return r, n - c
	case 5:
		return n - r, c
	case 6:
		return c, r
	default:
		return n - c, n - r
	}
}

// Apply maps every peg of s through transform k. k must be in [0, NumTransforms).
func Apply(s pegs.State, k int) pegs.State {
	var out pegs.State
	for b := uint64(s); b != 0; b &= b - 1 {
		out |= 1 << remap[k][bits.TrailingZeros64(b)]
	}
	return out
}

// Canonical returns the numerically smallest of the eight images of s.
// Two states share a canonical form exactly when one is a rotation or
// reflection of the other.
func Canonical(s pegs.State) pegs.State {
	best := s
	for k := 1; k < NumTransforms; k++ {
		if img := Apply(s, k); img < best {
			best = img
		}
	}
	return best
}
