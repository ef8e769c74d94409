// Package astar runs resource-bounded best-first search over the peg
// solitaire move graph, folding symmetric states together so the frontier
// only carries one representative per symmetry class.
package astar

import (
	"container/heap"
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mvilches/ludoteca/pegs"
	"github.com/mvilches/ludoteca/pegs/heuristic"
	"github.com/mvilches/ludoteca/pegs/symmetry"
)

const (
	DefaultTimeLimit = 300 * time.Second
	DefaultMaxNodes  = 2_000_000
)

var ErrNotInitialized = errors.New("solver not initialized")

// Solver is a single-threaded bounded A* searcher. Init it once per root
// position; Solve may be called again after it returns but never
// concurrently on the same instance.
type Solver struct {
	root        pegs.State
	timeLimit   time.Duration
	maxNodes    uint64
	useSymmetry bool
	greedyBias  bool
	initialized bool

	// atomics so the progress logger can watch a running search
	expanded  atomic.Uint64
	generated atomic.Uint64
}

type parent struct {
	prev pegs.State
	mv   pegs.Move
}

// Init points the solver at a root position and resets all options to
// their defaults.
func (s *Solver) Init(root pegs.State) error {
	s.root = root
	s.timeLimit = DefaultTimeLimit
	s.maxNodes = DefaultMaxNodes
	s.useSymmetry = true
	s.greedyBias = true
	s.initialized = true
	return nil
}

// SetTimeLimit bounds the wall clock for one Solve call. A non-positive
// limit times out on the first poll.
func (s *Solver) SetTimeLimit(d time.Duration) {
	s.timeLimit = d
}

// SetMaxNodes bounds the number of expansions. The bound is strict: the
// search stops once the count exceeds n, so n=0 still expands the root.
func (s *Solver) SetMaxNodes(n uint64) {
	s.maxNodes = n
}

// SetUseSymmetry toggles canonical folding of the best-cost map. With it
// off every concrete state is its own class.
func (s *Solver) SetUseSymmetry(b bool) {
	s.useSymmetry = b
}

// SetGreedyBias toggles the peg-count-weighted tie-break. With it off,
// equal-f entries pop in insertion order.
func (s *Solver) SetGreedyBias(b bool) {
	s.greedyBias = b
}

// Solve runs the search to one of the four terminal statuses. Resource
// exhaustion is an ordinary outcome in the Result; the error return only
// reports misuse. Cancelling ctx stops the search at the next poll with
// StatusTimeout.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	s.expanded.Store(0)
	// the root itself counts as generated
	s.generated.Store(1)

	log.Debug().
		Dur("time-limit", s.timeLimit).
		Uint64("max-nodes", s.maxNodes).
		Bool("symmetry", s.useSymmetry).
		Bool("greedy-bias", s.greedyBias).
		Int("root-pegs", s.root.PegCount()).
		Msg("starting-solve")

	g := errgroup.Group{}
	done := make(chan bool)
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var last uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				e := s.expanded.Load()
				log.Debug().
					Uint64("nps", e-last).
					Uint64("expanded", e).
					Uint64("generated", s.generated.Load()).
					Msg("nodes-per-second")
				last = e
			}
		}
	})

	var res *Result
	g.Go(func() error {
		defer close(done)
		res = s.search(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("status", res.Status.String()).
		Int("path-len", len(res.Moves)).
		Uint64("expanded", res.Stats.Expanded).
		Uint64("generated", res.Stats.Generated).
		Int("best-pegs", res.Stats.BestPegs).
		Dur("elapsed", res.Stats.Elapsed).
		Msg("solve-returning")
	return res, nil
}

func (s *Solver) search(ctx context.Context) *Result {
	start := time.Now()

	canonOf := func(st pegs.State) pegs.State { return st }
	if s.useSymmetry {
		canonOf = symmetry.Canonical
	}

	rootCanon := canonOf(s.root)
	gScore := map[pegs.State]int{rootCanon: 0}
	cameFrom := map[pegs.State]parent{}

	fr := &frontier{{
		f:         heuristic.Estimate(s.root),
		canonical: rootCanon,
		state:     s.root,
	}}

	tieCounter := 0
	bestPegs := s.root.PegCount()
	status := StatusExhausted
	var path []pegs.Move
	var moveBuf []pegs.Move

	for fr.Len() > 0 {
		if time.Since(start) > s.timeLimit || ctx.Err() != nil {
			status = StatusTimeout
			break
		}
		if s.expanded.Load() > s.maxNodes {
			status = StatusNodeLimit
			break
		}
		n := heap.Pop(fr).(node)
		if best, ok := gScore[n.canonical]; ok && n.g > best {
			// superseded by a cheaper route; not counted
			continue
		}
		s.expanded.Add(1)
		if n.state.IsGoal() {
			status = StatusSuccess
			path = rebuild(cameFrom, n.state)
			bestPegs = 1
			break
		}
		if pc := n.state.PegCount(); pc < bestPegs {
			bestPegs = pc
		}
		moveBuf = n.state.AppendLegalMoves(moveBuf[:0])
		for _, mv := range moveBuf {
			succ := n.state.Apply(mv)
			succCanon := canonOf(succ)
			tentative := n.g + 1
			if best, ok := gScore[succCanon]; ok && tentative >= best {
				continue
			}
			gScore[succCanon] = tentative
			cameFrom[succ] = parent{prev: n.state, mv: mv}
			h := heuristic.Estimate(succ)
			tieCounter++
			tie := tieCounter
			if s.greedyBias {
				tie = (succ.PegCount() << 16) + h + (tieCounter & 0xffff)
			}
			heap.Push(fr, node{
				f:         tentative + h,
				tie:       tie,
				g:         tentative,
				canonical: succCanon,
				state:     succ,
			})
			s.generated.Add(1)
		}
	}

	return &Result{
		Status: status,
		Moves:  path,
		Stats: Stats{
			Expanded:  s.expanded.Load(),
			Generated: s.generated.Load(),
			Elapsed:   time.Since(start),
			BestPegs:  bestPegs,
		},
	}
}

// rebuild walks provenance from the goal back to the root, then reverses
// into playing order. Provenance is keyed by concrete states, so the path
// replays move-for-move even when the best-cost map folded symmetric
// duplicates.
func rebuild(cameFrom map[pegs.State]parent, goal pegs.State) []pegs.Move {
	var rev []pegs.Move
	for st := goal; ; {
		p, ok := cameFrom[st]
		if !ok {
			break
		}
		rev = append(rev, p.mv)
		st = p.prev
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
