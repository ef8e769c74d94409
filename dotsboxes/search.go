package dotsboxes

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const DefaultDepth = 5

const inf = 1 << 14

var (
	ErrNotInitialized = errors.New("searcher not initialized")
	ErrNoMoves        = errors.New("no legal moves")
)

// Searcher is a depth-limited minimax searcher with alpha-beta pruning.
// Player 0 maximizes the box differential, player 1 minimizes it. A move
// that closes a box keeps the turn and does not consume depth, so the
// depth bounds decision plies rather than edges drawn.
type Searcher struct {
	board        *Board
	zobrist      *Zobrist
	tt           *TranspositionTable
	ttFraction   float64
	depth        int
	useHeuristic bool
	nodes        uint64
	stopped      bool
	initialized  bool
}

// Init wires the searcher to a board and sizes its transposition table
// from the given fraction of system memory.
func (s *Searcher) Init(b *Board, ttFraction float64) error {
	s.board = b
	s.zobrist = &Zobrist{}
	s.zobrist.Initialize(b)
	s.tt = &TranspositionTable{}
	s.ttFraction = ttFraction
	s.tt.Reset(ttFraction)
	s.depth = DefaultDepth
	s.useHeuristic = true
	s.initialized = true
	return nil
}

func (s *Searcher) SetDepth(d int) error {
	if d < 1 || d > depthMask {
		return fmt.Errorf("depth must be between 1 and %d", depthMask)
	}
	s.depth = d
	return nil
}

// SetUseHeuristic toggles the leaf evaluation; with it off, non-terminal
// leaves score zero. Cached values depend on the toggle, so flipping it
// clears the table.
func (s *Searcher) SetUseHeuristic(b bool) {
	if b != s.useHeuristic && s.initialized {
		s.tt.Reset(s.ttFraction)
	}
	s.useHeuristic = b
}

func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func packEdge(e Edge) uint8 {
	k := uint8(0)
	if e.Kind == Vertical {
		k = 1
	}
	return k<<6 | e.Row<<3 | e.Col
}

func unpackEdge(b uint8) Edge {
	kind := Horizontal
	if b>>6&1 == 1 {
		kind = Vertical
	}
	return Edge{Kind: kind, Row: b >> 3 & 7, Col: b & 7}
}

// BestMove searches from p and returns the chosen edge with its minimax
// value. Cancelling ctx aborts the search; the partial best is returned
// alongside ctx's error.
func (s *Searcher) BestMove(ctx context.Context, p Position) (Edge, int, error) {
	if !s.initialized {
		return Edge{}, 0, ErrNotInitialized
	}
	moves := s.board.LegalMoves(p)
	if len(moves) == 0 {
		return Edge{}, s.board.Utility(p), ErrNoMoves
	}
	s.nodes = 0
	s.stopped = false

	player := p.Turn
	alpha, beta := -inf, inf
	var best Edge
	var bestVal int
	for i, e := range moves {
		p2 := s.board.Apply(p, e)
		nd := s.depth
		if p2.Turn != player {
			nd--
		}
		v := s.alphabeta(ctx, p2, nd, alpha, beta)
		if s.stopped {
			if i == 0 {
				best, bestVal = e, v
			}
			return best, bestVal, ctx.Err()
		}
		if player == 0 {
			if i == 0 || v > bestVal {
				bestVal, best = v, e
			}
			if bestVal > alpha {
				alpha = bestVal
			}
		} else {
			if i == 0 || v < bestVal {
				bestVal, best = v, e
			}
			if bestVal < beta {
				beta = bestVal
			}
		}
	}

	log.Debug().
		Uint64("nodes", s.nodes).
		Uint64("tt-lookups", s.tt.Lookups()).
		Uint64("tt-hits", s.tt.Hits()).
		Int("value", bestVal).
		Str("move", best.String()).
		Msg("search-done")
	return best, bestVal, nil
}

func (s *Searcher) alphabeta(ctx context.Context, p Position, depth, alpha, beta int) int {
	s.nodes++
	if s.nodes&1023 == 0 {
		select {
		case <-ctx.Done():
			s.stopped = true
		default:
		}
	}
	if s.stopped {
		return 0
	}
	if s.board.IsTerminal(p) {
		return s.board.Utility(p)
	}
	if depth == 0 {
		if s.useHeuristic {
			return s.board.Evaluate(p)
		}
		return 0
	}

	zval := s.zobrist.Hash(p)
	ttMove := uint8(noEdge)
	if entry := s.tt.lookup(zval); entry.valid() {
		ttMove = entry.play
		if entry.depth() >= depth {
			v := int(entry.score)
			switch entry.flag() {
			case ttExact:
				return v
			case ttLower:
				if v > alpha {
					alpha = v
				}
			case ttUpper:
				if v < beta {
					beta = v
				}
			}
			if alpha >= beta {
				return v
			}
		}
	}

	moves := s.board.LegalMoves(p)
	if ttMove != noEdge {
		want := unpackEdge(ttMove)
		for i, e := range moves {
			if e == want {
				moves[0], moves[i] = moves[i], moves[0]
				break
			}
		}
	}

	origAlpha, origBeta := alpha, beta
	player := p.Turn
	bestMove := uint8(noEdge)
	var best int
	if player == 0 {
		best = -inf
		for _, e := range moves {
			p2 := s.board.Apply(p, e)
			nd := depth
			if p2.Turn != player {
				nd = depth - 1
			}
			v := s.alphabeta(ctx, p2, nd, alpha, beta)
			if s.stopped {
				return 0
			}
			if v > best {
				best = v
				bestMove = packEdge(e)
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
	} else {
		best = inf
		for _, e := range moves {
			p2 := s.board.Apply(p, e)
			nd := depth
			if p2.Turn != player {
				nd = depth - 1
			}
			v := s.alphabeta(ctx, p2, nd, alpha, beta)
			if s.stopped {
				return 0
			}
			if v < best {
				best = v
				bestMove = packEdge(e)
			}
			if best < beta {
				beta = best
			}
			if alpha >= beta {
				break
			}
		}
	}

	flag := uint8(ttExact)
	if best <= origAlpha {
		flag = ttUpper
	} else if best >= origBeta {
		flag = ttLower
	}
	s.tt.store(zval, int16(best), flag, depth, bestMove)
	return best
}
