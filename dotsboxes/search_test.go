package dotsboxes

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// On a single box the fourth edge always goes to the second player: the
// first three draws flip the turn and the closing draw keeps it, so with
// enough depth the searcher proves a value of -1 from the start.
func TestBestMoveSingleBoxValue(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(1, 1)
	is.NoErr(err)

	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	_, v, err := s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	is.Equal(v, -1)

	is.NoErr(s.SetDepth(4))
	_, v, err = s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	is.Equal(v, -1)
}

// Depth 3 stops one ply short of the closing edge. Without the heuristic
// every leaf is worth zero; raising the depth back to 4 reaches the
// terminal again even though the closing ply spends no depth.
func TestSearchDepthAccounting(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(1, 1)
	is.NoErr(err)

	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	s.SetUseHeuristic(false)
	is.NoErr(s.SetDepth(3))
	e, v, err := s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	is.Equal(v, 0)
	is.Equal(e.String(), "H 0 0")

	is.NoErr(s.SetDepth(4))
	_, v, err = s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	is.Equal(v, -1)
}

func TestBestMoveTakesClosingEdge(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(1, 1)
	is.NoErr(err)
	p := Position{
		HMask: b.hBit(0, 0) | b.hBit(1, 0),
		VMask: b.vBit(0, 0),
	}

	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	e, v, err := s.BestMove(context.Background(), p)
	is.NoErr(err)
	is.Equal(e, Edge{Vertical, 0, 1})
	is.Equal(v, 1)

	// same edge from the minimizing side
	p.Turn = 1
	e, v, err = s.BestMove(context.Background(), p)
	is.NoErr(err)
	is.Equal(e, Edge{Vertical, 0, 1})
	is.Equal(v, -1)
}

func TestBestMoveDoubleBox(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 1)
	is.NoErr(err)
	p := Position{
		HMask: b.hBit(0, 0) | b.hBit(2, 0),
		VMask: b.vBit(0, 0) | b.vBit(0, 1) | b.vBit(1, 0) | b.vBit(1, 1),
	}

	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	is.NoErr(s.SetDepth(1))
	e, v, err := s.BestMove(context.Background(), p)
	is.NoErr(err)
	is.Equal(e, Edge{Horizontal, 1, 0})
	is.Equal(v, 2)
}

func TestSearchIsDeterministic(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 2)
	is.NoErr(err)

	var moves [2]Edge
	var values [2]int
	for i := range moves {
		s := &Searcher{}
		is.NoErr(s.Init(b, 0.01))
		is.NoErr(s.SetDepth(4))
		e, v, err := s.BestMove(context.Background(), b.Start())
		is.NoErr(err)
		moves[i], values[i] = e, v
	}
	is.Equal(moves[0], moves[1])
	is.Equal(values[0], values[1])
}

func TestTranspositionTableHits(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 2)
	is.NoErr(err)

	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	is.NoErr(s.SetDepth(4))
	_, v1, err := s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	_, v2, err := s.BestMove(context.Background(), b.Start())
	is.NoErr(err)
	is.Equal(v1, v2)
	is.True(s.tt.Hits() > 0)
	is.True(s.tt.Lookups() >= s.tt.Hits())
}

func TestSetDepthValidation(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 2)
	is.NoErr(err)
	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))

	is.True(s.SetDepth(0) != nil)
	is.True(s.SetDepth(64) != nil)
	is.NoErr(s.SetDepth(63))
}

func TestCancelledSearch(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(4, 4)
	is.NoErr(err)
	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	is.NoErr(s.SetDepth(9))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.BestMove(ctx, b.Start())
	is.True(errors.Is(err, context.Canceled))
	is.True(s.Nodes() > 0)
}

func TestBestMoveErrors(t *testing.T) {
	is := is.New(t)
	var s Searcher
	_, _, err := s.BestMove(context.Background(), Position{})
	is.True(errors.Is(err, ErrNotInitialized))

	b, err := NewBoard(1, 1)
	is.NoErr(err)
	is.NoErr(s.Init(b, 0.01))
	full := Position{
		HMask:  b.hBit(0, 0) | b.hBit(1, 0),
		VMask:  b.vBit(0, 0) | b.vBit(0, 1),
		Scores: [2]uint8{1, 0},
	}
	_, v, err := s.BestMove(context.Background(), full)
	is.True(errors.Is(err, ErrNoMoves))
	is.Equal(v, 1)
}

func TestGreedyTakesBox(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(1, 1)
	is.NoErr(err)
	p := Position{
		HMask: b.hBit(0, 0) | b.hBit(1, 0),
		VMask: b.vBit(0, 0),
	}
	for i := 0; i < 10; i++ {
		e, err := Greedy{}.ChooseMove(context.Background(), b, p)
		is.NoErr(err)
		is.Equal(e, Edge{Vertical, 0, 1})
	}
}

func TestGreedyAvoidsThirdEdge(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(1, 2)
	is.NoErr(err)
	// left box already has two edges; anything touching it hands over a box
	p := Position{
		HMask: b.hBit(0, 0),
		VMask: b.vBit(0, 0),
	}
	safe := map[string]bool{"H 0 1": true, "H 1 1": true, "V 0 2": true}
	for i := 0; i < 25; i++ {
		e, err := Greedy{}.ChooseMove(context.Background(), b, p)
		is.NoErr(err)
		is.True(safe[e.String()])
	}
}

func TestRandomPlaysLegalMoves(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 2)
	is.NoErr(err)
	p := b.Apply(b.Start(), Edge{Horizontal, 0, 0})
	for i := 0; i < 20; i++ {
		e, err := Random{}.ChooseMove(context.Background(), b, p)
		is.NoErr(err)
		is.True(b.Legal(p, e))
	}
}

func TestPlayMatch(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(2, 2)
	is.NoErr(err)
	s := &Searcher{}
	is.NoErr(s.Init(b, 0.01))
	is.NoErr(s.SetDepth(3))

	res, err := PlayMatch(context.Background(), b, &SearchStrategy{Searcher: s}, Random{}, 3)
	is.NoErr(err)
	is.Equal(res.Games, 3)
	is.Equal(res.Wins[0]+res.Wins[1]+res.Draws, 3)
	is.Equal(res.Boxes[0]+res.Boxes[1], 3*b.NumBoxes())
}

func TestSearchStrategyBoardGuard(t *testing.T) {
	is := is.New(t)
	a, err := NewBoard(2, 2)
	is.NoErr(err)
	other, err := NewBoard(3, 3)
	is.NoErr(err)
	s := &Searcher{}
	is.NoErr(s.Init(a, 0.01))

	strat := &SearchStrategy{Searcher: s}
	_, err = strat.ChooseMove(context.Background(), other, other.Start())
	is.True(errors.Is(err, ErrNotInitialized))
}
