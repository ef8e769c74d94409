package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mvilches/ludoteca/evolve"
)

func main() {
	pop := flag.Int("pop", evolve.DefaultPopSize, "population size")
	gens := flag.Int("gens", evolve.DefaultGenerations, "number of generations")
	rate := flag.Float64("rate", evolve.DefaultMutationRate, "mutation rate")
	episodes := flag.Int("episodes", evolve.DefaultEpisodes, "episodes per fitness evaluation")
	workers := flag.Int("workers", 0, "parallel evaluators, 0 for one per spare CPU")
	crossover := flag.String("crossover", "", "uniform, single_point or two_point")
	save := flag.String("save", "", "write the champion model to this file")
	load := flag.String("load", "", "replay a saved model instead of training")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if *load != "" {
		replay(*load, *episodes)
		return
	}

	t := new(evolve.Trainer)
	if err := t.Init(); err != nil {
		panic(err)
	}
	if err := t.SetPopSize(*pop); err != nil {
		panic(err)
	}
	if err := t.SetGenerations(*gens); err != nil {
		panic(err)
	}
	if err := t.SetMutationRate(*rate); err != nil {
		panic(err)
	}
	if err := t.SetEpisodes(*episodes); err != nil {
		panic(err)
	}
	if *workers > 0 {
		if err := t.SetWorkers(*workers); err != nil {
			panic(err)
		}
	}
	if *crossover != "" {
		method, err := evolve.ParseCrossover(*crossover)
		if err != nil {
			panic(err)
		}
		t.SetCrossover(method)
	}

	res, err := t.Run(context.Background())
	if err != nil {
		panic(err)
	}

	for _, g := range res.History {
		fmt.Printf("gen %3d: best %6.1f  mean %6.1f  stdev %6.1f\n",
			g.Generation, g.Best, g.Mean, g.Stdev)
	}
	fmt.Printf("champion fitness %.2f after %d generations (%s crossover, %.1fs)\n",
		res.BestFitness, len(res.History), res.Crossover, res.Elapsed.Seconds())
	fmt.Printf("weights [%.4f %.4f %.4f %.4f]\n",
		res.BestWeights[0], res.BestWeights[1], res.BestWeights[2], res.BestWeights[3])

	if *save != "" {
		if err := evolve.SaveModel(*save, t.Model(res)); err != nil {
			panic(err)
		}
		fmt.Printf("saved model to %s\n", *save)
	}
}

// replay re-scores a saved champion on fresh episodes. The training
// fitness came from the run that produced the model, so the two numbers
// agreeing is a sanity check, not a given.
func replay(path string, episodes int) {
	m, err := evolve.LoadModel(path)
	if err != nil {
		panic(err)
	}
	env := evolve.NewCartPole()
	avg := evolve.AverageReward(env, m.Weights, episodes)
	fmt.Printf("model %s (%s crossover, pop %d, %d generations)\n",
		path, m.Crossover, m.PopSize, m.Generations)
	fmt.Printf("training fitness %.2f, replay over %d episodes %.2f\n",
		m.Fitness, episodes, avg)
}
