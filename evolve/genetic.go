package evolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"github.com/mvilches/ludoteca/stats"
)

const (
	DefaultPopSize      = 10
	DefaultGenerations  = 30
	DefaultMutationRate = 0.1
	DefaultEpisodes     = 3
)

const (
	mutationSigma = 0.2
	weightBound   = 2.0
)

var ErrNotInitialized = errors.New("trainer not initialized")

// Crossover selects how two parent weight vectors combine into a child.
type Crossover int

const (
	CrossoverUniform Crossover = iota
	CrossoverSinglePoint
	CrossoverTwoPoint
)

func (c Crossover) String() string {
	switch c {
	case CrossoverUniform:
		return "uniform"
	case CrossoverSinglePoint:
		return "single_point"
	case CrossoverTwoPoint:
		return "two_point"
	}
	return "unknown"
}

func ParseCrossover(s string) (Crossover, error) {
	switch s {
	case "uniform":
		return CrossoverUniform, nil
	case "single_point":
		return CrossoverSinglePoint, nil
	case "two_point":
		return CrossoverTwoPoint, nil
	}
	return 0, fmt.Errorf("unknown crossover method %q", s)
}

// GenerationStats summarizes the fitness spread of one generation.
type GenerationStats struct {
	Generation int     `json:"generation" yaml:"generation"`
	Best       float64 `json:"best" yaml:"best"`
	Mean       float64 `json:"mean" yaml:"mean"`
	Min        float64 `json:"min" yaml:"min"`
	Stdev      float64 `json:"stdev" yaml:"stdev"`
}

// Result carries the champion and the per-generation history of a run.
type Result struct {
	Crossover   string            `json:"crossover_method" yaml:"crossover_method"`
	BestWeights Weights           `json:"weights" yaml:"weights"`
	BestFitness float64           `json:"best_fitness" yaml:"best_fitness"`
	History     []GenerationStats `json:"history" yaml:"history"`
	Elapsed     time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// Trainer runs the genetic algorithm. Offspring fully replace the
// population each generation; the best individual ever evaluated is
// tracked separately, so the champion can come from any generation.
type Trainer struct {
	popSize      int
	generations  int
	mutationRate float64
	episodes     int
	workers      int
	crossover    Crossover
	initialized  bool
}

// Init resets the trainer to default parameters.
func (t *Trainer) Init() error {
	t.popSize = DefaultPopSize
	t.generations = DefaultGenerations
	t.mutationRate = DefaultMutationRate
	t.episodes = DefaultEpisodes
	t.workers = runtime.NumCPU() - 1
	if t.workers < 1 {
		t.workers = 1
	}
	t.crossover = CrossoverUniform
	t.initialized = true
	return nil
}

func (t *Trainer) SetPopSize(n int) error {
	if n < 2 {
		return errors.New("population size must be at least 2")
	}
	t.popSize = n
	return nil
}

func (t *Trainer) SetGenerations(n int) error {
	if n < 1 {
		return errors.New("generations must be at least 1")
	}
	t.generations = n
	return nil
}

func (t *Trainer) SetMutationRate(r float64) error {
	if r < 0 || r > 1 {
		return errors.New("mutation rate must be in [0, 1]")
	}
	t.mutationRate = r
	return nil
}

func (t *Trainer) SetEpisodes(n int) error {
	if n < 1 {
		return errors.New("episodes must be at least 1")
	}
	t.episodes = n
	return nil
}

func (t *Trainer) SetWorkers(n int) error {
	if n < 1 {
		return errors.New("workers must be at least 1")
	}
	t.workers = n
	return nil
}

func (t *Trainer) SetCrossover(c Crossover) {
	t.crossover = c
}

// Run evolves a population from scratch. Cancelling ctx stops the run
// between generations; the partial result is returned with ctx's error.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	if !t.initialized {
		return nil, ErrNotInitialized
	}
	start := time.Now()
	population := make([]Weights, t.popSize)
	for i := range population {
		population[i] = randomWeights()
	}
	log.Info().
		Int("pop-size", t.popSize).
		Int("generations", t.generations).
		Float64("mutation-rate", t.mutationRate).
		Int("episodes", t.episodes).
		Int("workers", t.workers).
		Str("crossover", t.crossover.String()).
		Msg("starting-evolution")

	res := &Result{Crossover: t.crossover.String(), BestFitness: -1}
	fitness := make([]float64, t.popSize)
	for gen := 0; gen < t.generations; gen++ {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}
		if err := t.evaluate(ctx, population, fitness); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		var st stats.Statistic
		bestIdx := 0
		for i, f := range fitness {
			st.Push(f)
			if f > fitness[bestIdx] {
				bestIdx = i
			}
		}
		gs := GenerationStats{
			Generation: gen + 1,
			Best:       st.Max(),
			Mean:       st.Mean(),
			Min:        st.Min(),
			Stdev:      st.Stdev(),
		}
		res.History = append(res.History, gs)
		if fitness[bestIdx] > res.BestFitness {
			res.BestFitness = fitness[bestIdx]
			res.BestWeights = population[bestIdx]
			log.Info().
				Float64("fitness", res.BestFitness).
				Floats64("weights", res.BestWeights[:]).
				Msg("new-champion")
		}
		log.Info().
			Int("gen", gen+1).
			Float64("max", gs.Best).
			Float64("avg", gs.Mean).
			Float64("min", gs.Min).
			Float64("stdev", gs.Stdev).
			Msg("generation-done")

		population = t.breed(population, fitness)
	}
	res.Elapsed = time.Since(start)
	log.Info().
		Float64("best-fitness", res.BestFitness).
		Dur("elapsed", res.Elapsed).
		Msg("evolution-done")
	return res, nil
}

// evaluate fills fitness[i] for every individual, spreading the work
// over t.workers goroutines pulling indices from a shared counter.
func (t *Trainer) evaluate(ctx context.Context, population []Weights, fitness []float64) error {
	var next atomic.Int64
	g := errgroup.Group{}
	for w := 0; w < t.workers; w++ {
		g.Go(func() error {
			env := NewCartPole()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(population) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				fitness[i] = AverageReward(env, population[i], t.episodes)
			}
		})
	}
	return g.Wait()
}

func (t *Trainer) breed(population []Weights, fitness []float64) []Weights {
	survivors := selectSurvivors(population, fitness)
	next := make([]Weights, len(population))
	for i := range next {
		a, b := pickPair(len(survivors))
		child := crossoverWeights(t.crossover, survivors[a], survivors[b])
		t.mutate(&child)
		next[i] = child
	}
	return next
}

// selectSurvivors keeps the top fifth of the population by fitness,
// never fewer than two so a parent pair always exists.
func selectSurvivors(population []Weights, fitness []float64) []Weights {
	k := len(population) / 5
	if k < 2 {
		k = 2
	}
	idx := make([]int, len(population))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return fitness[idx[a]] > fitness[idx[b]] })
	out := make([]Weights, k)
	for i := range out {
		out[i] = population[idx[i]]
	}
	return out
}

// pickPair draws two distinct indices in [0, n).
func pickPair(n int) (int, int) {
	a := frand.Intn(n)
	b := frand.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

func crossoverWeights(method Crossover, a, b Weights) Weights {
	switch method {
	case CrossoverSinglePoint:
		return singlePointCross(a, b)
	case CrossoverTwoPoint:
		return twoPointCross(a, b)
	default:
		return uniformCross(a, b)
	}
}

func singlePointCross(a, b Weights) Weights {
	point := 1 + frand.Intn(len(a)-1)
	child := a
	copy(child[point:], b[point:])
	return child
}

func twoPointCross(a, b Weights) Weights {
	p1 := 1 + frand.Intn(len(a)-2)
	p2 := p1 + 1 + frand.Intn(len(a)-p1-1)
	child := a
	copy(child[p1:p2], b[p1:p2])
	return child
}

func uniformCross(a, b Weights) Weights {
	var child Weights
	for i := range child {
		if frand.Intn(2) == 1 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}

// mutate adds gaussian noise to the whole vector with probability
// t.mutationRate, clipping each weight to the allowed range.
func (t *Trainer) mutate(w *Weights) {
	if frand.Float64() >= t.mutationRate {
		return
	}
	noise := distuv.Normal{Mu: 0, Sigma: mutationSigma}
	for i := range w {
		v := w[i] + noise.Rand()
		if v > weightBound {
			v = weightBound
		}
		if v < -weightBound {
			v = -weightBound
		}
		w[i] = v
	}
}

func randomWeights() Weights {
	var w Weights
	for i := range w {
		w[i] = frand.Float64()*2 - 1
	}
	return w
}

// Model is the saved champion format: the weight vector plus the run
// parameters that produced it.
type Model struct {
	Weights      Weights   `json:"weights" yaml:"weights"`
	Fitness      float64   `json:"fitness" yaml:"fitness"`
	Crossover    string    `json:"crossover_method" yaml:"crossover_method"`
	PopSize      int       `json:"pop_size" yaml:"pop_size"`
	Generations  int       `json:"generations" yaml:"generations"`
	MutationRate float64   `json:"mutation_rate" yaml:"mutation_rate"`
	SavedAt      time.Time `json:"saved_at" yaml:"saved_at"`
}

// Model packages a finished run for saving.
func (t *Trainer) Model(res *Result) *Model {
	return &Model{
		Weights:      res.BestWeights,
		Fitness:      res.BestFitness,
		Crossover:    res.Crossover,
		PopSize:      t.popSize,
		Generations:  t.generations,
		MutationRate: t.mutationRate,
		SavedAt:      time.Now(),
	}
}

func SaveModel(path string, m *Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Model{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
