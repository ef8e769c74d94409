package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mvilches/ludoteca/pegs"
	"github.com/mvilches/ludoteca/pegs/astar"
)

func main() {
	timeLimit := flag.Float64("time-limit", 300, "time limit in seconds")
	maxNodes := flag.Uint64("max-nodes", 2_000_000, "node expansion budget")
	noSymmetry := flag.Bool("no-symmetry", false, "turn off symmetry folding")
	noGreedy := flag.Bool("no-greedy", false, "turn off the greedy tie-break")
	quiet := flag.Bool("quiet", false, "print only the move list")
	debug := flag.Bool("debug", false, "debug logging")

	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	root := pegs.InitialState()

	s := &astar.Solver{}
	if err := s.Init(root); err != nil {
		panic(err)
	}
	s.SetTimeLimit(time.Duration(*timeLimit * float64(time.Second)))
	s.SetMaxNodes(*maxNodes)
	s.SetUseSymmetry(!*noSymmetry)
	s.SetGreedyBias(!*noGreedy)

	if !*quiet {
		fmt.Println(root.Render())
	}

	res, err := s.Solve(context.Background())
	if err != nil {
		panic(err)
	}

	p := message.NewPrinter(language.English)
	if !*quiet {
		p.Printf("%s in %.3fs, expanded %d, generated %d\n",
			res.Status, res.Stats.Elapsed.Seconds(), res.Stats.Expanded, res.Stats.Generated)
	}
	if res.Status != astar.StatusSuccess {
		if !*quiet {
			p.Printf("best line reached %d pegs\n", res.Stats.BestPegs)
		}
		os.Exit(1)
	}

	cur := root
	for i, mv := range res.Moves {
		fmt.Printf("%3d. %s\n", i+1, mv)
		cur = cur.Apply(mv)
	}
	if !*quiet {
		fmt.Println()
		fmt.Println(cur.Render())
	}
}
