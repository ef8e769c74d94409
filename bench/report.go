package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/mvilches/ludoteca/pegs/astar"
)

// WriteCSV writes one record per run in the layout the original eval
// script produced, with a 0/1 solved column alongside the status.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := []string{"config", "run", "status", "solved", "moves", "best_pegs",
		"expanded", "generated", "elapsed_sec"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		solved := "0"
		if r.Status == astar.StatusSuccess.String() {
			solved = "1"
		}
		rec := []string{
			r.Config,
			strconv.Itoa(r.Run),
			r.Status,
			solved,
			strconv.Itoa(r.Moves),
			strconv.Itoa(r.BestPegs),
			strconv.FormatUint(r.Expanded, 10),
			strconv.FormatUint(r.Generated, 10),
			strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistogram prints a terminal histogram of elapsed times over the
// successful runs.
func WriteHistogram(w io.Writer, rows []Row, bins int) error {
	times := lo.FilterMap(rows, func(r Row, _ int) (float64, bool) {
		return r.Elapsed.Seconds(), r.Status == astar.StatusSuccess.String()
	})
	if len(times) == 0 {
		_, err := fmt.Fprintln(w, "no successful runs to plot")
		return err
	}
	h := histogram.Hist(bins, times)
	return histogram.Fprintf(w, h, histogram.Linear(40), func(v float64) string {
		return fmt.Sprintf("%.3fs", v)
	})
}

// WriteSummaryText prints an aligned per-config summary table.
func WriteSummaryText(w io.Writer, summaries []Summary) {
	fmt.Fprintf(w, "%-12s %5s %8s %8s %10s %10s %12s %8s\n",
		"config", "runs", "success", "optimal", "mean s", "stdev s", "mean exp", "z")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-12s %5d %8.2f %8.2f %10.3f %10.3f %12.1f %8.3f\n",
			s.Config, s.Runs, s.SuccessRate, s.OptimalRate,
			s.MeanElapsed, s.StdevElapsed, s.MeanExpanded, s.ZElapsed)
	}
}

// LatexTable renders the summary table with each numeric column's
// maximum in bold.
func LatexTable(summaries []Summary, caption string) string {
	if len(summaries) == 0 {
		return ""
	}
	headers := []string{"Config", "Success Rate", "Optimal Rate", "Mean Elapsed", "Mean Expanded"}
	rows := make([][]float64, len(summaries))
	for i, s := range summaries {
		rows[i] = []float64{s.SuccessRate, s.OptimalRate, s.MeanElapsed, s.MeanExpanded}
	}
	numCols := len(headers) - 1
	maxes := make([]float64, numCols)
	for c := 0; c < numCols; c++ {
		maxes[c] = rows[0][c]
		for _, r := range rows {
			if r[c] > maxes[c] {
				maxes[c] = r[c]
			}
		}
	}

	var b strings.Builder
	b.WriteString("\\begin{table}[H]\n")
	b.WriteString("\\centering\n")
	b.WriteString("\\begin{tabular}{l" + strings.Repeat("c", numCols) + "}\n")
	b.WriteString("\\hline\n")
	cells := make([]string, 0, len(headers))
	for _, h := range headers {
		cells = append(cells, fmt.Sprintf("\\textbf{%s}", h))
	}
	b.WriteString(strings.Join(cells, " & ") + " \\\\\n")
	b.WriteString("\\hline\n")
	for i, s := range summaries {
		cells = cells[:0]
		cells = append(cells, s.Config)
		for c, v := range rows[i] {
			if v == maxes[c] {
				cells = append(cells, fmt.Sprintf("\\textbf{%.6f}", v))
			} else {
				cells = append(cells, fmt.Sprintf("%.6f", v))
			}
		}
		b.WriteString(strings.Join(cells, " & ") + " \\\\\n")
	}
	b.WriteString("\\hline\n")
	b.WriteString("\\end{tabular}\n")
	b.WriteString(fmt.Sprintf("\\caption{%s}\n", caption))
	b.WriteString("\\end{table}\n")
	return b.String()
}
