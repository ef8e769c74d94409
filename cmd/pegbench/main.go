package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvilches/ludoteca/bench"
	"github.com/mvilches/ludoteca/pegs"
)

func main() {
	csvPath := flag.String("csv", "", "write per-run rows to this CSV file")
	hist := flag.Bool("hist", false, "print a histogram of successful solve times")
	latex := flag.Bool("latex", false, "print the summary as a LaTeX table")
	dbPath := flag.String("db", "", "record runs into this history database")
	debug := flag.Bool("debug", false, "debug logging")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pegbench [flags] suite.yaml")
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	suite, err := bench.LoadSuite(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("loading-suite")
	}
	runner, err := bench.NewRunner(suite)
	if err != nil {
		log.Fatal().Err(err).Msg("creating-runner")
	}
	runner.SetRoot(pegs.InitialState())

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal, stopping after the current run...")
		cancel()
	}()

	report, err := runner.Run(ctx)
	if err != nil {
		// a cancelled suite still carries the rows finished so far
		log.Warn().Err(err).Int("rows", len(report.Rows)).Msg("suite-interrupted")
	}
	bench.WriteSummaryText(os.Stdout, report.Summaries)

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("creating-csv")
		}
		if err := bench.WriteCSV(f, report.Rows); err != nil {
			f.Close()
			log.Fatal().Err(err).Msg("writing-csv")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("closing-csv")
		}
		log.Info().Str("file", *csvPath).Int("rows", len(report.Rows)).Msg("wrote-csv")
	}
	if *hist {
		fmt.Println()
		if err := bench.WriteHistogram(os.Stdout, report.Rows, 10); err != nil {
			log.Err(err).Msg("writing-histogram")
		}
	}
	if *latex {
		fmt.Println()
		fmt.Print(bench.LatexTable(report.Summaries, "Solver configurations on "+suite.Name))
	}
	if *dbPath != "" {
		h, err := bench.OpenHistory(*dbPath)
		if err != nil {
			log.Fatal().Err(err).Msg("opening-history")
		}
		if err := h.Insert(context.Background(), suite.Name, report.Rows); err != nil {
			log.Err(err).Msg("recording-history")
		}
		if err := h.Close(); err != nil {
			log.Err(err).Msg("closing-history")
		}
	}
}
