package pegs

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestCellEnumeration(t *testing.T) {
	is := is.New(t)
	n := 0
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if Valid(r, c) {
				idx, ok := CellIndex(r, c)
				is.True(ok)
				rr, cc := CellCoord(idx)
				is.Equal(rr, r)
				is.Equal(cc, c)
				n++
			}
		}
	}
	is.Equal(n, NumCells)
	idx, ok := CellIndex(CenterRow, CenterCol)
	is.True(ok)
	is.Equal(idx, CenterIndex)
}

func TestValidRejectsCorners(t *testing.T) {
	is := is.New(t)
	for _, rc := range [][2]int{{0, 0}, {0, 6}, {6, 0}, {6, 6}, {1, 1}, {1, 5}, {5, 1}, {5, 5}, {-1, 3}, {3, 7}} {
		is.True(!Valid(rc[0], rc[1]))
	}
	for _, rc := range [][2]int{{0, 2}, {2, 0}, {3, 3}, {6, 4}, {4, 6}} {
		is.True(Valid(rc[0], rc[1]))
	}
}

func TestCatalogSize(t *testing.T) {
	is := is.New(t)
	// 19 possible jumps per direction on the cross board.
	is.Equal(len(AllMoves()), 76)
	for _, m := range AllMoves() {
		sr, sc := CellCoord(int(m.Src))
		jr, jc := CellCoord(int(m.Over))
		lr, lc := CellCoord(int(m.Dst))
		is.Equal(abs(sr-lr)+abs(sc-lc), 2)
		is.Equal(sr+lr, 2*jr)
		is.Equal(sc+lc, 2*jc)
	}
}

func TestInitialState(t *testing.T) {
	is := is.New(t)
	s := InitialState()
	is.Equal(s.PegCount(), 32)
	is.True(!s.Occupied(CenterIndex))
	is.True(!s.IsGoal())
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	s := InitialState()
	moves := s.LegalMoves()
	// Only the four jumps into the center hole are playable.
	is.Equal(len(moves), 4)
	for _, m := range moves {
		is.Equal(int(m.Dst), CenterIndex)
		is.True(s.Allows(m))
	}
	// Catalog order puts the jump from (1,3) first.
	sr, sc := CellCoord(int(moves[0].Src))
	is.Equal(sr, 1)
	is.Equal(sc, 3)
}

func TestApply(t *testing.T) {
	is := is.New(t)
	s := InitialState()
	m := s.LegalMoves()[0]
	next := s.Apply(m)
	is.Equal(next.PegCount(), 31)
	is.True(next.Occupied(int(m.Dst)))
	is.True(!next.Occupied(int(m.Src)))
	is.True(!next.Occupied(int(m.Over)))
	// the original state is untouched
	is.Equal(s.PegCount(), 32)
}

func TestIsGoal(t *testing.T) {
	is := is.New(t)
	goal := State(1) << CenterIndex
	is.True(goal.IsGoal())
	is.Equal(goal.PegCount(), 1)
	offCenter := State(1) << 0
	is.True(!offCenter.IsGoal())
}

func TestMoveString(t *testing.T) {
	is := is.New(t)
	m := InitialState().LegalMoves()[0]
	is.Equal(m.String(), "(1,3) -> (3,3) over (2,3)")
}

func TestRender(t *testing.T) {
	is := is.New(t)
	lines := strings.Split(InitialState().Render(), "\n")
	is.Equal(len(lines), Dim)
	is.Equal(lines[0], "    ● ● ●")
	is.Equal(lines[3], "● ● ● · ● ● ●")
	is.Equal(lines[6], "    ● ● ●")

	goalLines := strings.Split((State(1) << CenterIndex).Render(), "\n")
	is.Equal(goalLines[3], "· · · ● · · ·")
}

func TestCenterDistance(t *testing.T) {
	is := is.New(t)
	is.Equal(CenterDistance(CenterIndex), 0)
	idx, _ := CellIndex(0, 2)
	is.Equal(CenterDistance(idx), 4)
	idx, _ = CellIndex(3, 0)
	is.Equal(CenterDistance(idx), 3)
}

func TestNeighbors(t *testing.T) {
	is := is.New(t)
	// center has four neighbors, a corner of the cross has two
	is.Equal(len(Neighbors(CenterIndex)), 4)
	idx, _ := CellIndex(0, 2)
	is.Equal(len(Neighbors(idx)), 2)
}
