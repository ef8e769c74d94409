// Package dotsboxes implements the dots-and-boxes game: players claim
// undrawn edges of a grid of boxes, completing the fourth edge of a box
// scores a point and grants another turn. It ships a depth-limited
// alpha-beta searcher with a transposition table plus greedy and random
// baselines for head-to-head matches.
package dotsboxes

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxSide is the largest box-grid side that keeps each edge family inside
// one 64-bit mask.
const MaxSide = 7

var ErrBadBoard = errors.New("board sides must be between 1 and 7 boxes")

type EdgeKind uint8

const (
	Horizontal EdgeKind = iota
	Vertical
)

// An Edge addresses one drawable segment. Horizontal edges sit above row
// Row of boxes (rows 0..R inclusive); vertical edges sit left of column
// Col (cols 0..C inclusive).
type Edge struct {
	Kind EdgeKind
	Row  uint8
	Col  uint8
}

func (e Edge) String() string {
	k := "H"
	if e.Kind == Vertical {
		k = "V"
	}
	return fmt.Sprintf("%s %d %d", k, e.Row, e.Col)
}

// ParseEdge reads the "H r c" / "V r c" move notation.
func ParseEdge(s string) (Edge, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 {
		return Edge{}, fmt.Errorf("malformed move %q: want e.g. \"H 2 1\"", s)
	}
	var kind EdgeKind
	switch strings.ToUpper(fields[0]) {
	case "H":
		kind = Horizontal
	case "V":
		kind = Vertical
	default:
		return Edge{}, fmt.Errorf("malformed move %q: kind must be H or V", s)
	}
	r, err := strconv.Atoi(fields[1])
	if err != nil {
		return Edge{}, fmt.Errorf("malformed move %q: %w", s, err)
	}
	c, err := strconv.Atoi(fields[2])
	if err != nil {
		return Edge{}, fmt.Errorf("malformed move %q: %w", s, err)
	}
	if r < 0 || r > 255 || c < 0 || c > 255 {
		return Edge{}, fmt.Errorf("malformed move %q: coordinates out of range", s)
	}
	return Edge{Kind: kind, Row: uint8(r), Col: uint8(c)}, nil
}

// Position is one game state as a value: edge occupancy masks, the player
// to move, and the running box scores.
type Position struct {
	HMask  uint64
	VMask  uint64
	Turn   uint8
	Scores [2]uint8
}

type boxMasks struct {
	h uint64
	v uint64
}

// Board holds the grid geometry and the per-box edge masks, built once
// and shared read-only across positions and searches.
type Board struct {
	rows  int
	cols  int
	boxes []boxMasks
}

func NewBoard(rows, cols int) (*Board, error) {
	if rows < 1 || rows > MaxSide || cols < 1 || cols > MaxSide {
		return nil, ErrBadBoard
	}
	b := &Board{rows: rows, cols: cols}
	b.boxes = make([]boxMasks, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			b.boxes[i*cols+j] = boxMasks{
				h: b.hBit(i, j) | b.hBit(i+1, j),
				v: b.vBit(i, j) | b.vBit(i, j+1),
			}
		}
	}
	return b, nil
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) NumBoxes() int { return b.rows * b.cols }

// NumEdges is the total count of drawable edges.
func (b *Board) NumEdges() int {
	return (b.rows+1)*b.cols + b.rows*(b.cols+1)
}

func (b *Board) hBit(r, c int) uint64 {
	return 1 << uint(r*b.cols+c)
}

func (b *Board) vBit(r, c int) uint64 {
	return 1 << uint(r*(b.cols+1)+c)
}

// Start is the empty board with player 0 to move.
func (b *Board) Start() Position {
	return Position{}
}

func (b *Board) validEdge(e Edge) bool {
	if e.Kind == Horizontal {
		return int(e.Row) <= b.rows && int(e.Col) < b.cols
	}
	return int(e.Row) < b.rows && int(e.Col) <= b.cols
}

// Legal reports whether e is drawable: on the board and not yet taken.
func (b *Board) Legal(p Position, e Edge) bool {
	if !b.validEdge(e) {
		return false
	}
	if e.Kind == Horizontal {
		return p.HMask&b.hBit(int(e.Row), int(e.Col)) == 0
	}
	return p.VMask&b.vBit(int(e.Row), int(e.Col)) == 0
}

// LegalMoves lists undrawn edges: horizontal first in row-major order,
// then vertical. The order fixes search and tie-break determinism.
func (b *Board) LegalMoves(p Position) []Edge {
	return b.AppendLegalMoves(nil, p)
}

func (b *Board) AppendLegalMoves(buf []Edge, p Position) []Edge {
	for r := 0; r <= b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if p.HMask&b.hBit(r, c) == 0 {
				buf = append(buf, Edge{Kind: Horizontal, Row: uint8(r), Col: uint8(c)})
			}
		}
	}
	for r := 0; r < b.rows; r++ {
		for c := 0; c <= b.cols; c++ {
			if p.VMask&b.vBit(r, c) == 0 {
				buf = append(buf, Edge{Kind: Vertical, Row: uint8(r), Col: uint8(c)})
			}
		}
	}
	return buf
}

// ClosedBy counts the boxes that drawing e would complete.
func (b *Board) ClosedBy(p Position, e Edge) int {
	h, v := p.HMask, p.VMask
	r, c := int(e.Row), int(e.Col)
	closed := 0
	check := func(i, j int) {
		bm := b.boxes[i*b.cols+j]
		if h&bm.h == bm.h && v&bm.v == bm.v {
			closed++
		}
	}
	if e.Kind == Horizontal {
		h |= b.hBit(r, c)
		if r > 0 {
			check(r-1, c)
		}
		if r < b.rows {
			check(r, c)
		}
	} else {
		v |= b.vBit(r, c)
		if c > 0 {
			check(r, c-1)
		}
		if c < b.cols {
			check(r, c)
		}
	}
	return closed
}

// Apply draws e and returns the next position: a completing move scores
// for the mover and keeps the turn, otherwise the turn flips. Callers
// must only apply edges for which Legal is true.
func (b *Board) Apply(p Position, e Edge) Position {
	closed := b.ClosedBy(p, e)
	if e.Kind == Horizontal {
		p.HMask |= b.hBit(int(e.Row), int(e.Col))
	} else {
		p.VMask |= b.vBit(int(e.Row), int(e.Col))
	}
	if closed > 0 {
		p.Scores[p.Turn] += uint8(closed)
	} else {
		p.Turn = 1 - p.Turn
	}
	return p
}

// IsTerminal reports whether every edge is drawn.
func (b *Board) IsTerminal(p Position) bool {
	return bits.OnesCount64(p.HMask)+bits.OnesCount64(p.VMask) == b.NumEdges()
}

// Utility is the final score differential from player 0's point of view.
func (b *Board) Utility(p Position) int {
	return int(p.Scores[0]) - int(p.Scores[1])
}

// Evaluate scores a non-terminal position for player 0: the box
// differential plus the boxes the side to move could close immediately,
// credited to that side.
func (b *Board) Evaluate(p Position) int {
	base := b.Utility(p)
	near := 0
	for _, e := range b.LegalMoves(p) {
		near += b.ClosedBy(p, e)
	}
	if p.Turn == 1 {
		near = -near
	}
	return base + near
}

// ThreeEdgedBoxes counts boxes one edge away from completion, the boxes
// a careless move hands to the opponent.
func (b *Board) ThreeEdgedBoxes(p Position) int {
	n := 0
	for _, bm := range b.boxes {
		drawn := bits.OnesCount64(p.HMask&bm.h) + bits.OnesCount64(p.VMask&bm.v)
		if drawn == 3 {
			n++
		}
	}
	return n
}

// Render draws the board with dot, dash and pipe glyphs, completed boxes
// filled, followed by the turn and score line.
func (b *Board) Render(p Position) string {
	var lines []string
	for r := 0; r < b.rows; r++ {
		var top strings.Builder
		for c := 0; c < b.cols; c++ {
			top.WriteString("•")
			if p.HMask&b.hBit(r, c) != 0 {
				top.WriteString("──")
			} else {
				top.WriteString("  ")
			}
		}
		top.WriteString("•")
		lines = append(lines, top.String())

		var mid strings.Builder
		for c := 0; c < b.cols; c++ {
			if p.VMask&b.vBit(r, c) != 0 {
				mid.WriteString("|")
			} else {
				mid.WriteString(" ")
			}
			bm := b.boxes[r*b.cols+c]
			if p.HMask&bm.h == bm.h && p.VMask&bm.v == bm.v {
				mid.WriteString("[]")
			} else {
				mid.WriteString("  ")
			}
		}
		if p.VMask&b.vBit(r, b.cols) != 0 {
			mid.WriteString("|")
		} else {
			mid.WriteString(" ")
		}
		lines = append(lines, mid.String())
	}
	var bottom strings.Builder
	for c := 0; c < b.cols; c++ {
		bottom.WriteString("•")
		if p.HMask&b.hBit(b.rows, c) != 0 {
			bottom.WriteString("──")
		} else {
			bottom.WriteString("  ")
		}
	}
	bottom.WriteString("•")
	lines = append(lines, bottom.String())
	lines = append(lines, fmt.Sprintf("\nTurn: P%d | Score P0=%d P1=%d", p.Turn, p.Scores[0], p.Scores[1]))
	return strings.Join(lines, "\n")
}
