package pegs

import "math/bits"

// State is the board occupancy, one bit per cell in dense index order.
type State uint64

const fullBoard State = 1<<NumCells - 1

// InitialState is the classic opening position: every cell occupied
// except the center.
func InitialState() State {
	return fullBoard &^ (1 << CenterIndex)
}

func (s State) Occupied(idx int) bool {
	return s&(1<<uint(idx)) != 0
}

func (s State) PegCount() int {
	return bits.OnesCount64(uint64(s))
}

// IsGoal reports whether exactly one peg remains, on the center cell.
func (s State) IsGoal() bool {
	return s == 1<<CenterIndex
}

// Allows reports whether m is playable: source and jumped cells occupied,
// landing cell empty.
func (s State) Allows(m Move) bool {
	return s&(1<<m.Src) != 0 && s&(1<<m.Over) != 0 && s&(1<<m.Dst) == 0
}

// Apply plays m without legality checks.
func (s State) Apply(m Move) State {
	s &^= 1 << m.Src
	s &^= 1 << m.Over
	s |= 1 << m.Dst
	return s
}

// LegalMoves returns the playable jumps in catalog order.
func (s State) LegalMoves() []Move {
	return s.AppendLegalMoves(nil)
}

// AppendLegalMoves appends the playable jumps to buf in catalog order,
// for callers that recycle the slice across expansions.
func (s State) AppendLegalMoves(buf []Move) []Move {
	for _, m := range catalog {
		if s.Allows(m) {
			buf = append(buf, m)
		}
	}
	return buf
}
