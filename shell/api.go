package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mvilches/ludoteca/bench"
	"github.com/mvilches/ludoteca/dotsboxes"
	"github.com/mvilches/ludoteca/evolve"
	"github.com/mvilches/ludoteca/pegs"
	"github.com/mvilches/ludoteca/pegs/astar"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) FloatDefault(key string, defaultF float64) (float64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultF, nil
	}
	return strconv.ParseFloat(v[0], 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		found, val := sc.options.Show(opt)
		if !found {
			return nil, errors.New(val)
		}
		return msg(val), nil
	}
	values := cmd.args[1:]
	ret, err := sc.Set(opt, values)
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) unset(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: unset <option>")
	}
	opt := cmd.args[0]
	ret, err := sc.Unset(opt)
	if err != nil {
		return nil, err
	}
	return msg("unset " + opt + " back to " + ret), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(fmt.Sprintf("%s\n%d pegs", sc.curState.Render(), sc.curState.PegCount())), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	sc.curState = pegs.InitialState()
	return msg(sc.curState.Render()), nil
}

// solve runs the solver on the current position using the session
// options, with any -option overrides applying to this run only.
func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	secs, err := cmd.options.FloatDefault("time-limit", sc.options.TimeLimit.Seconds())
	if err != nil {
		return nil, err
	}
	timeLimit := time.Duration(secs * float64(time.Second))
	maxNodes, err := cmd.options.IntDefault("max-nodes", int(sc.options.MaxNodes))
	if err != nil {
		return nil, err
	}
	symmetry := sc.options.Symmetry && !cmd.options.Bool("no-symmetry")
	greedy := sc.options.GreedyBias && !cmd.options.Bool("no-greedy")

	s := new(astar.Solver)
	if err := s.Init(sc.curState); err != nil {
		return nil, err
	}
	s.SetTimeLimit(timeLimit)
	s.SetMaxNodes(uint64(maxNodes))
	s.SetUseSymmetry(symmetry)
	s.SetGreedyBias(greedy)

	res, err := s.Solve(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(formatSolveReport(sc.curState, res)), nil
}

func formatSolveReport(root pegs.State, res *astar.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s in %.3fs\n", res.Status, res.Stats.Elapsed.Seconds())
	fmt.Fprintf(&sb, "expanded %d, generated %d, best %d pegs\n",
		res.Stats.Expanded, res.Stats.Generated, res.Stats.BestPegs)
	if res.Status != astar.StatusSuccess {
		return strings.TrimRight(sb.String(), "\n")
	}
	st := root
	for i, m := range res.Moves {
		fmt.Fprintf(&sb, "%3d. %s\n", i+1, m)
		st = st.Apply(m)
	}
	sb.WriteString(st.Render())
	return sb.String()
}

// bench runs a yaml suite from the current position. Summaries always
// come back as text; -csv, -hist and -latex add the other outputs, and
// every run lands in the history database unless -db none.
func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need a suite file for bench")
	}
	suitePath := sc.resolveDataFile(cmd.args[0])
	suite, err := bench.LoadSuite(suitePath)
	if err != nil {
		return nil, err
	}
	runner, err := bench.NewRunner(suite)
	if err != nil {
		return nil, err
	}
	runner.SetRoot(sc.curState)
	report, err := runner.Run(context.Background())
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	bench.WriteSummaryText(&sb, report.Summaries)

	if csvPath := cmd.options.String("csv"); csvPath != "" {
		if err := writeCSVFile(csvPath, report.Rows); err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "\nwrote %s", csvPath)
	}
	if cmd.options.Bool("hist") {
		sb.WriteString("\n")
		if err := bench.WriteHistogram(&sb, report.Rows, 10); err != nil {
			return nil, err
		}
	}
	if cmd.options.Bool("latex") {
		sb.WriteString("\n")
		sb.WriteString(bench.LatexTable(report.Summaries, "Solver configurations on "+suite.Name))
	}

	dbPath := cmd.options.String("db")
	if dbPath == "" {
		dbPath = sc.config.BenchHistoryPath()
	}
	if dbPath != "none" {
		h, err := sc.openHistory(dbPath)
		if err != nil {
			return nil, err
		}
		if err := h.Insert(context.Background(), suite.Name, report.Rows); err != nil {
			return nil, err
		}
		log.Debug().Str("db", dbPath).Int("rows", len(report.Rows)).Msg("bench-history-recorded")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// benchHistory lists the most recent recorded runs for a suite config.
func (sc *ShellController) benchHistory(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: history <suite> <config> [-limit n] [-db path]")
	}
	limit, err := cmd.options.IntDefault("limit", 10)
	if err != nil {
		return nil, err
	}
	dbPath := cmd.options.String("db")
	if dbPath == "" {
		dbPath = sc.config.BenchHistoryPath()
	}
	h, err := sc.openHistory(dbPath)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	total, err := h.CountRuns(ctx, cmd.args[0])
	if err != nil {
		return nil, err
	}
	rows, err := h.Runs(ctx, cmd.args[0], cmd.args[1], limit)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "suite %s holds %d recorded runs\n", cmd.args[0], total)
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-12s run %2d  %-19s moves %2d  best %2d  expanded %8d  %8.3fs\n",
			r.Config, r.Run, r.Status, r.Moves, r.BestPegs, r.Expanded, r.Elapsed.Seconds())
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func writeCSVFile(path string, rows []bench.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bench.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (sc *ShellController) openHistory(path string) (*bench.History, error) {
	if sc.history != nil && sc.histPath == path {
		return sc.history, nil
	}
	if sc.history != nil {
		sc.history.Close()
		sc.history = nil
	}
	h, err := bench.OpenHistory(path)
	if err != nil {
		return nil, err
	}
	sc.history = h
	sc.histPath = path
	return h, nil
}

// resolveDataFile tries the path as given, then relative to the data
// directory.
func (sc *ShellController) resolveDataFile(path string) string {
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sc.config.GetString("data-path"), path)
}

// dotsboxes pits the alpha-beta searcher against an opponent strategy
// for a series of games and reports the tally.
func (sc *ShellController) dotsboxes(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: dotsboxes <rows> <cols> [depth]")
	}
	rows, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	cols, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	depth := sc.options.Depth
	if len(cmd.args) > 2 {
		depth, err = strconv.Atoi(cmd.args[2])
		if err != nil {
			return nil, err
		}
	}
	games, err := cmd.options.IntDefault("games", 10)
	if err != nil {
		return nil, err
	}
	if games < 1 {
		return nil, errors.New("need at least one game")
	}

	b, err := dotsboxes.NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	searcher := new(dotsboxes.Searcher)
	if err := searcher.Init(b, sc.options.TTFraction); err != nil {
		return nil, err
	}
	if err := searcher.SetDepth(depth); err != nil {
		return nil, err
	}
	if cmd.options.Bool("no-heuristic") {
		searcher.SetUseHeuristic(false)
	}
	p0 := &dotsboxes.SearchStrategy{Searcher: searcher}

	var p1 dotsboxes.Strategy
	switch opp := cmd.options.String("opponent"); opp {
	case "", "greedy":
		p1 = dotsboxes.Greedy{}
	case "random":
		p1 = dotsboxes.Random{}
	case "alphabeta":
		s2 := new(dotsboxes.Searcher)
		if err := s2.Init(b, sc.options.TTFraction); err != nil {
			return nil, err
		}
		if err := s2.SetDepth(depth); err != nil {
			return nil, err
		}
		p1 = &dotsboxes.SearchStrategy{Searcher: s2}
	default:
		return nil, errors.New("unknown opponent: " + opp)
	}

	res, err := dotsboxes.PlayMatch(context.Background(), b, p0, p1, games)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d boxes, depth %d, %s (P0) vs %s (P1), %d games\n",
		rows, cols, depth, p0.Name(), p1.Name(), games)
	fmt.Fprintf(&sb, "P0 wins %d, P1 wins %d, draws %d\n", res.Wins[0], res.Wins[1], res.Draws)
	fmt.Fprintf(&sb, "boxes P0 %d, P1 %d", res.Boxes[0], res.Boxes[1])
	return msg(sb.String()), nil
}

// evolve trains cart-pole weights with the genetic algorithm.
func (sc *ShellController) evolve(cmd *shellcmd) (*Response, error) {
	t := new(evolve.Trainer)
	if err := t.Init(); err != nil {
		return nil, err
	}
	pop, err := cmd.options.IntDefault("pop", evolve.DefaultPopSize)
	if err != nil {
		return nil, err
	}
	if err := t.SetPopSize(pop); err != nil {
		return nil, err
	}
	gens, err := cmd.options.IntDefault("gens", evolve.DefaultGenerations)
	if err != nil {
		return nil, err
	}
	if err := t.SetGenerations(gens); err != nil {
		return nil, err
	}
	rate, err := cmd.options.FloatDefault("rate", evolve.DefaultMutationRate)
	if err != nil {
		return nil, err
	}
	if err := t.SetMutationRate(rate); err != nil {
		return nil, err
	}
	episodes, err := cmd.options.IntDefault("episodes", evolve.DefaultEpisodes)
	if err != nil {
		return nil, err
	}
	if err := t.SetEpisodes(episodes); err != nil {
		return nil, err
	}
	if workers, err := cmd.options.IntDefault("workers", 0); err != nil {
		return nil, err
	} else if workers > 0 {
		if err := t.SetWorkers(workers); err != nil {
			return nil, err
		}
	}
	if cx := cmd.options.String("crossover"); cx != "" {
		method, err := evolve.ParseCrossover(cx)
		if err != nil {
			return nil, err
		}
		t.SetCrossover(method)
	}

	res, err := t.Run(context.Background())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "champion fitness %.2f after %d generations (%s crossover, %.1fs)\n",
		res.BestFitness, len(res.History), res.Crossover, res.Elapsed.Seconds())
	fmt.Fprintf(&sb, "weights [%.4f %.4f %.4f %.4f]",
		res.BestWeights[0], res.BestWeights[1], res.BestWeights[2], res.BestWeights[3])
	if savePath := cmd.options.String("save"); savePath != "" {
		if err := evolve.SaveModel(savePath, t.Model(res)); err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "\nsaved model to %s", savePath)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var buf bytes.Buffer
	if cmd.args == nil {
		usage(&buf, "standard")
	} else {
		usageTopic(&buf, cmd.args[0])
	}
	return msg(strings.TrimRight(buf.String(), "\n")), nil
}
