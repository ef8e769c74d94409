package dotsboxes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// Strategy picks an edge for the side to move in p.
type Strategy interface {
	Name() string
	ChooseMove(ctx context.Context, b *Board, p Position) (Edge, error)
}

// Random draws uniformly from the legal moves.
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) ChooseMove(_ context.Context, b *Board, p Position) (Edge, error) {
	moves := b.LegalMoves(p)
	if len(moves) == 0 {
		return Edge{}, ErrNoMoves
	}
	return moves[frand.Intn(len(moves))], nil
}

// Greedy closes a box whenever it can, otherwise prefers edges that do
// not hand the opponent a three-edged box, otherwise plays at random.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) ChooseMove(_ context.Context, b *Board, p Position) (Edge, error) {
	moves := b.LegalMoves(p)
	if len(moves) == 0 {
		return Edge{}, ErrNoMoves
	}
	bestClosed := 0
	var closers []Edge
	for _, e := range moves {
		c := b.ClosedBy(p, e)
		if c == 0 {
			continue
		}
		if c > bestClosed {
			bestClosed = c
			closers = closers[:0]
		}
		if c == bestClosed {
			closers = append(closers, e)
		}
	}
	if len(closers) > 0 {
		return closers[frand.Intn(len(closers))], nil
	}
	var safe []Edge
	for _, e := range moves {
		if b.ThreeEdgedBoxes(b.Apply(p, e)) == 0 {
			safe = append(safe, e)
		}
	}
	if len(safe) > 0 {
		return safe[frand.Intn(len(safe))], nil
	}
	return moves[frand.Intn(len(moves))], nil
}

// SearchStrategy plays the alpha-beta searcher's choice.
type SearchStrategy struct {
	Searcher *Searcher
}

func (s *SearchStrategy) Name() string { return "alphabeta" }

func (s *SearchStrategy) ChooseMove(ctx context.Context, b *Board, p Position) (Edge, error) {
	if s.Searcher == nil || s.Searcher.board != b {
		return Edge{}, ErrNotInitialized
	}
	e, _, err := s.Searcher.BestMove(ctx, p)
	return e, err
}

// MatchResult tallies a head-to-head series.
type MatchResult struct {
	Games int    `json:"games" yaml:"games"`
	Wins  [2]int `json:"wins" yaml:"wins"`
	Draws int    `json:"draws" yaml:"draws"`
	Boxes [2]int `json:"boxes" yaml:"boxes"`
}

// PlayMatch pits p0 against p1 for the given number of games; p0 always
// opens. Cumulative boxes land in Boxes for margin reporting.
func PlayMatch(ctx context.Context, b *Board, p0, p1 Strategy, games int) (*MatchResult, error) {
	res := &MatchResult{Games: games}
	for g := 0; g < games; g++ {
		pos := b.Start()
		for !b.IsTerminal(pos) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			strat := p0
			if pos.Turn == 1 {
				strat = p1
			}
			e, err := strat.ChooseMove(ctx, b, pos)
			if err != nil {
				return nil, fmt.Errorf("game %d, %s to move: %w", g, strat.Name(), err)
			}
			if !b.Legal(pos, e) {
				return nil, fmt.Errorf("game %d: %s played illegal move %s", g, strat.Name(), e)
			}
			pos = b.Apply(pos, e)
		}
		res.Boxes[0] += int(pos.Scores[0])
		res.Boxes[1] += int(pos.Scores[1])
		switch {
		case pos.Scores[0] > pos.Scores[1]:
			res.Wins[0]++
		case pos.Scores[1] > pos.Scores[0]:
			res.Wins[1]++
		default:
			res.Draws++
		}
		log.Debug().
			Int("game", g).
			Str("p0", p0.Name()).
			Str("p1", p1.Name()).
			Uint8("score0", pos.Scores[0]).
			Uint8("score1", pos.Scores[1]).
			Msg("match-game-finished")
	}
	return res, nil
}
