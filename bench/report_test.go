package bench

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestWriteCSV(t *testing.T) {
	is := is.New(t)
	rows := []Row{
		{Config: "full", Run: 0, Status: "SUCCESS", Moves: 31, BestPegs: 1,
			Expanded: 120, Generated: 340, Elapsed: 1500 * time.Millisecond},
		{Config: "capped", Run: 1, Status: "NODE_LIMIT_EXCEEDED", Moves: 0, BestPegs: 4,
			Expanded: 51, Generated: 200, Elapsed: 20 * time.Millisecond},
	}
	var b strings.Builder
	is.NoErr(WriteCSV(&b, rows))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	is.Equal(len(lines), 3)
	is.Equal(lines[0], "config,run,status,solved,moves,best_pegs,expanded,generated,elapsed_sec")
	is.Equal(lines[1], "full,0,SUCCESS,1,31,1,120,340,1.500000")
	is.Equal(lines[2], "capped,1,NODE_LIMIT_EXCEEDED,0,0,4,51,200,0.020000")
}

func TestWriteHistogram(t *testing.T) {
	is := is.New(t)
	rows := []Row{
		{Status: "SUCCESS", Elapsed: 100 * time.Millisecond},
		{Status: "SUCCESS", Elapsed: 200 * time.Millisecond},
		{Status: "SUCCESS", Elapsed: 300 * time.Millisecond},
		{Status: "TIMEOUT", Elapsed: 5 * time.Second},
	}
	var b strings.Builder
	is.NoErr(WriteHistogram(&b, rows, 2))
	is.True(strings.Contains(b.String(), "%"))

	b.Reset()
	is.NoErr(WriteHistogram(&b, []Row{{Status: "TIMEOUT"}}, 2))
	is.True(strings.Contains(b.String(), "no successful runs"))
}

func TestWriteSummaryText(t *testing.T) {
	is := is.New(t)
	sums := []Summary{
		{Config: "full", Runs: 10, SuccessRate: 1, OptimalRate: 1,
			MeanElapsed: 0.512, StdevElapsed: 0.03, MeanExpanded: 15000, ZElapsed: -1.2},
	}
	var b strings.Builder
	WriteSummaryText(&b, sums)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	is.Equal(len(lines), 2)
	is.True(strings.HasPrefix(lines[0], "config"))
	is.True(strings.Contains(lines[1], "full"))
	is.True(strings.Contains(lines[1], "0.512"))
	is.True(strings.Contains(lines[1], "15000.0"))
}

func TestLatexTable(t *testing.T) {
	is := is.New(t)
	sums := []Summary{
		{Config: "fast", SuccessRate: 1, OptimalRate: 1, MeanElapsed: 0.5, MeanExpanded: 100},
		{Config: "slow", SuccessRate: 0.5, OptimalRate: 0, MeanElapsed: 2, MeanExpanded: 400},
	}
	got := LatexTable(sums, "Solver comparison.")
	want := strings.Join([]string{
		`\begin{table}[H]`,
		`\centering`,
		`\begin{tabular}{lcccc}`,
		`\hline`,
		`\textbf{Config} & \textbf{Success Rate} & \textbf{Optimal Rate} & \textbf{Mean Elapsed} & \textbf{Mean Expanded} \\`,
		`\hline`,
		`fast & \textbf{1.000000} & \textbf{1.000000} & 0.500000 & 100.000000 \\`,
		`slow & 0.500000 & 0.000000 & \textbf{2.000000} & \textbf{400.000000} \\`,
		`\hline`,
		`\end{tabular}`,
		`\caption{Solver comparison.}`,
		`\end{table}`,
	}, "\n") + "\n"
	is.Equal(got, want)

	is.Equal(LatexTable(nil, "x"), "")
}
