// Package pegs models the standard 33-hole cross peg solitaire board as a
// 33-bit occupancy mask with a precomputed jump catalog.
package pegs

import "fmt"

const (
	// Dim is the side of the bounding grid.
	Dim = 7
	// NumCells is the number of playable cells on the cross.
	NumCells = 33
	// CenterRow and CenterCol locate the central hole.
	CenterRow = 3
	CenterCol = 3
	// CenterIndex is the dense index of (CenterRow, CenterCol). Verified
	// against the enumeration in init.
	CenterIndex = 16
)

// A Move jumps the peg at Src over the peg at Over into the empty Dst.
// All three are dense cell indices.
type Move struct {
	Src  uint8 `json:"src" yaml:"src"`
	Over uint8 `json:"over" yaml:"over"`
	Dst  uint8 `json:"dst" yaml:"dst"`
}

// directions in catalog order: up, down, left, right. This order fixes the
// successor ordering everywhere, so searches are reproducible.
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

var (
	cellIndex  [Dim][Dim]int8
	cellCoords [NumCells][2]int8
	catalog    []Move
	neighbors  [NumCells][]uint8
	centerDist [NumCells]int8
)

// Valid reports whether (r, c) is a playable cell: inside the grid and
// outside the four 2x2 corner blocks.
func Valid(r, c int) bool {
	if r < 0 || r >= Dim || c < 0 || c >= Dim {
		return false
	}
	if (r < 2 || r > 4) && (c < 2 || c > 4) {
		return false
	}
	return true
}

func init() {
	idx := int8(0)
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if !Valid(r, c) {
				cellIndex[r][c] = -1
				continue
			}
			cellIndex[r][c] = idx
			cellCoords[idx] = [2]int8{int8(r), int8(c)}
			idx++
		}
	}
	if idx != NumCells {
		panic("pegs: cell enumeration does not cover the cross")
	}
	if cellIndex[CenterRow][CenterCol] != CenterIndex {
		panic("pegs: center index drifted")
	}
	for i := 0; i < NumCells; i++ {
		r, c := int(cellCoords[i][0]), int(cellCoords[i][1])
		centerDist[i] = int8(abs(r-CenterRow) + abs(c-CenterCol))
		for _, d := range directions {
			jr, jc := r+d[0], c+d[1]
			lr, lc := r+2*d[0], c+2*d[1]
			if Valid(jr, jc) {
				neighbors[i] = append(neighbors[i], uint8(cellIndex[jr][jc]))
			}
			if Valid(jr, jc) && Valid(lr, lc) {
				catalog = append(catalog, Move{
					Src:  uint8(i),
					Over: uint8(cellIndex[jr][jc]),
					Dst:  uint8(cellIndex[lr][lc]),
				})
			}
		}
	}
}

// CellIndex maps a coordinate to its dense index.
func CellIndex(r, c int) (int, bool) {
	if !Valid(r, c) {
		return 0, false
	}
	return int(cellIndex[r][c]), true
}

// CellCoord maps a dense index back to its coordinate.
func CellCoord(idx int) (r, c int) {
	return int(cellCoords[idx][0]), int(cellCoords[idx][1])
}

// AllMoves returns the full jump catalog in source-then-direction order.
// Callers must not modify the returned slice.
func AllMoves() []Move {
	return catalog
}

// Neighbors returns the orthogonally adjacent cells of idx. Callers must
// not modify the returned slice.
func Neighbors(idx int) []uint8 {
	return neighbors[idx]
}

// CenterDistance returns the Manhattan distance from idx to the center.
func CenterDistance(idx int) int {
	return int(centerDist[idx])
}

func (m Move) String() string {
	sr, sc := CellCoord(int(m.Src))
	jr, jc := CellCoord(int(m.Over))
	lr, lc := CellCoord(int(m.Dst))
	return fmt.Sprintf("(%d,%d) -> (%d,%d) over (%d,%d)", sr, sc, lr, lc, jr, jc)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
