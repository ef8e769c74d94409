package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mvilches/ludoteca/dotsboxes"
)

func main() {
	rows := flag.Int("rows", 3, "board rows, in boxes")
	cols := flag.Int("cols", 3, "board columns, in boxes")
	depth := flag.Int("depth", dotsboxes.DefaultDepth, "alpha-beta search depth")
	games := flag.Int("games", 10, "games per match")
	p0 := flag.String("p0", "alphabeta", "player 0 strategy: alphabeta, greedy or random")
	p1 := flag.String("p1", "greedy", "player 1 strategy: alphabeta, greedy or random")
	noHeuristic := flag.Bool("no-heuristic", false, "score interior nodes by boxes only")
	ttFraction := flag.Float64("tt-fraction", 0.25, "fraction of system memory for the transposition table")
	play := flag.Bool("play", false, "play against the engine instead of running a match")
	seat := flag.Int("seat", 0, "your seat in -play mode, 0 or 1")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	b, err := dotsboxes.NewBoard(*rows, *cols)
	if err != nil {
		panic(err)
	}

	if *play {
		if *seat != 0 && *seat != 1 {
			panic("seat must be 0 or 1")
		}
		engine, err := newStrategy("alphabeta", b, *depth, *noHeuristic, *ttFraction)
		if err != nil {
			panic(err)
		}
		if err := playInteractive(b, engine, *seat); err != nil {
			panic(err)
		}
		return
	}

	s0, err := newStrategy(*p0, b, *depth, *noHeuristic, *ttFraction)
	if err != nil {
		panic(err)
	}
	s1, err := newStrategy(*p1, b, *depth, *noHeuristic, *ttFraction)
	if err != nil {
		panic(err)
	}
	res, err := dotsboxes.PlayMatch(context.Background(), b, s0, s1, *games)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%dx%d boxes, depth %d, %s (P0) vs %s (P1), %d games\n",
		*rows, *cols, *depth, s0.Name(), s1.Name(), res.Games)
	fmt.Printf("P0 wins %d, P1 wins %d, draws %d\n", res.Wins[0], res.Wins[1], res.Draws)
	fmt.Printf("boxes P0 %d, P1 %d\n", res.Boxes[0], res.Boxes[1])
}

// newStrategy builds each alpha-beta player its own searcher, so two
// such players never share a transposition table.
func newStrategy(name string, b *dotsboxes.Board, depth int, noHeuristic bool, ttFraction float64) (dotsboxes.Strategy, error) {
	switch name {
	case "greedy":
		return dotsboxes.Greedy{}, nil
	case "random":
		return dotsboxes.Random{}, nil
	case "alphabeta":
		s := new(dotsboxes.Searcher)
		if err := s.Init(b, ttFraction); err != nil {
			return nil, err
		}
		if err := s.SetDepth(depth); err != nil {
			return nil, err
		}
		s.SetUseHeuristic(!noHeuristic)
		return &dotsboxes.SearchStrategy{Searcher: s}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func playInteractive(b *dotsboxes.Board, engine dotsboxes.Strategy, seat int) error {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	p := b.Start()
	for !b.IsTerminal(p) {
		fmt.Println(b.Render(p))
		fmt.Println()
		if int(p.Turn) == seat {
			fmt.Print("your move (H r c / V r c, or quit): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				return nil
			}
			e, err := dotsboxes.ParseEdge(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if !b.Legal(p, e) {
				fmt.Println("illegal move:", e)
				continue
			}
			p = b.Apply(p, e)
		} else {
			e, err := engine.ChooseMove(ctx, b, p)
			if err != nil {
				return err
			}
			fmt.Printf("engine plays %s\n", e)
			p = b.Apply(p, e)
		}
	}
	fmt.Println(b.Render(p))
	switch u := b.Utility(p); {
	case u == 0:
		fmt.Println("draw")
	case (u > 0) == (seat == 0):
		fmt.Println("you win")
	default:
		fmt.Println("engine wins")
	}
	return nil
}
