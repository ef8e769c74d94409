package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mvilches/ludoteca/pegs"
	"github.com/mvilches/ludoteca/pegs/astar"
	"github.com/mvilches/ludoteca/stats"
)

// Row is one benchmark run.
type Row struct {
	Config      string        `json:"config" yaml:"config"`
	Run         int           `json:"run" yaml:"run"`
	Status      string        `json:"status" yaml:"status"`
	Moves       int           `json:"moves" yaml:"moves"`
	BestPegs    int           `json:"best_pegs" yaml:"best_pegs"`
	Expanded    uint64        `json:"expanded" yaml:"expanded"`
	Generated   uint64        `json:"generated" yaml:"generated"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
	Fingerprint uint64        `json:"fingerprint" yaml:"fingerprint"`
}

// Summary aggregates all runs of one configuration.
type Summary struct {
	Config        string  `json:"config" yaml:"config"`
	Runs          int     `json:"runs" yaml:"runs"`
	SuccessRate   float64 `json:"success_rate" yaml:"success_rate"`
	OptimalRate   float64 `json:"optimal_rate" yaml:"optimal_rate"`
	MeanElapsed   float64 `json:"mean_elapsed_sec" yaml:"mean_elapsed_sec"`
	StdevElapsed  float64 `json:"stdev_elapsed_sec" yaml:"stdev_elapsed_sec"`
	MeanExpanded  float64 `json:"mean_expanded" yaml:"mean_expanded"`
	StdevExpanded float64 `json:"stdev_expanded" yaml:"stdev_expanded"`
	ZElapsed      float64 `json:"z_elapsed" yaml:"z_elapsed"`
}

// Report is the outcome of running a suite.
type Report struct {
	Suite     string    `json:"suite" yaml:"suite"`
	Rows      []Row     `json:"rows" yaml:"rows"`
	Summaries []Summary `json:"summaries" yaml:"summaries"`
}

// Runner executes a suite in-process, one solve at a time so timings do
// not contend with each other.
type Runner struct {
	suite *Suite
	root  pegs.State
}

func NewRunner(suite *Suite) (*Runner, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &Runner{suite: suite, root: pegs.InitialState()}, nil
}

// SetRoot benchmarks a non-classic starting position.
func (r *Runner) SetRoot(root pegs.State) {
	r.root = root
}

// Run executes every configuration Repetitions times. Cancelling ctx
// stops the suite; the rows recorded so far are summarized and returned
// with ctx's error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Suite: r.suite.Name}
	log.Info().
		Str("suite", r.suite.Name).
		Int("configs", len(r.suite.Configs)).
		Int("repetitions", r.suite.Repetitions).
		Msg("starting-bench")
	for _, cs := range r.suite.Configs {
		fp := cs.Fingerprint()
		for i := 0; i < r.suite.Repetitions; i++ {
			if err := ctx.Err(); err != nil {
				rep.Summaries = Summarize(rep.Rows, r.suite.Baseline)
				return rep, err
			}
			row, err := r.runOnce(ctx, cs, i, fp)
			if err != nil {
				return rep, err
			}
			rep.Rows = append(rep.Rows, row)
			log.Info().
				Str("config", cs.Name).
				Int("run", i+1).
				Int("of", r.suite.Repetitions).
				Str("status", row.Status).
				Int("moves", row.Moves).
				Float64("elapsed-sec", row.Elapsed.Seconds()).
				Msg("bench-run")
		}
	}
	rep.Summaries = Summarize(rep.Rows, r.suite.Baseline)
	return rep, nil
}

func (r *Runner) runOnce(ctx context.Context, cs ConfigSpec, run int, fp uint64) (Row, error) {
	s := &astar.Solver{}
	if err := s.Init(r.root); err != nil {
		return Row{}, err
	}
	if cs.TimeLimit > 0 {
		s.SetTimeLimit(time.Duration(cs.TimeLimit * float64(time.Second)))
	}
	if cs.MaxNodes > 0 {
		s.SetMaxNodes(cs.MaxNodes)
	}
	s.SetUseSymmetry(!cs.NoSymmetry)
	s.SetGreedyBias(!cs.NoGreedy)
	res, err := s.Solve(ctx)
	if err != nil {
		return Row{}, err
	}
	return Row{
		Config:      cs.Name,
		Run:         run,
		Status:      res.Status.String(),
		Moves:       len(res.Moves),
		BestPegs:    res.Stats.BestPegs,
		Expanded:    res.Stats.Expanded,
		Generated:   res.Stats.Generated,
		Elapsed:     res.Stats.Elapsed,
		Fingerprint: fp,
	}, nil
}

// Summarize groups rows by configuration, preserving first-appearance
// order, and scores each group's elapsed times against the baseline
// group with a two-sample z-test.
func Summarize(rows []Row, baseline string) []Summary {
	if len(rows) == 0 {
		return nil
	}
	groups := lo.GroupBy(rows, func(r Row) string { return r.Config })
	order := lo.Uniq(lo.Map(rows, func(r Row, _ int) string { return r.Config }))

	elapsed := map[string]*stats.Statistic{}
	summaries := make([]Summary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		el := &stats.Statistic{}
		ex := &stats.Statistic{}
		success := 0
		optimal := 0
		for _, row := range g {
			el.Push(row.Elapsed.Seconds())
			ex.Push(float64(row.Expanded))
			if row.Status == astar.StatusSuccess.String() {
				success++
			}
			if row.Moves == OptimalMoves {
				optimal++
			}
		}
		elapsed[name] = el
		summaries = append(summaries, Summary{
			Config:        name,
			Runs:          len(g),
			SuccessRate:   float64(success) / float64(len(g)),
			OptimalRate:   float64(optimal) / float64(len(g)),
			MeanElapsed:   el.Mean(),
			StdevElapsed:  el.Stdev(),
			MeanExpanded:  ex.Mean(),
			StdevExpanded: ex.Stdev(),
		})
	}
	base, ok := elapsed[baseline]
	if !ok {
		base = elapsed[order[0]]
	}
	for i := range summaries {
		summaries[i].ZElapsed = stats.ZScore(elapsed[summaries[i].Config], base)
	}
	return summaries
}
