package bench

import (
	"context"
	"database/sql"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS bench_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	suite TEXT NOT NULL,
	config TEXT NOT NULL,
	fingerprint INTEGER NOT NULL,
	run INTEGER NOT NULL,
	status TEXT NOT NULL,
	moves INTEGER NOT NULL,
	best_pegs INTEGER NOT NULL,
	expanded INTEGER NOT NULL,
	generated INTEGER NOT NULL,
	elapsed_ns INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS bench_runs_suite_config ON bench_runs (suite, config);
`

// History is the on-disk record of past benchmark runs.
type History struct {
	db *sql.DB
}

func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Insert appends the rows of one suite run, retrying with backoff when
// another process holds the database lock.
func (h *History) Insert(ctx context.Context, suite string, rows []Row) error {
	return retry.Do(
		func() error {
			return h.insertTx(ctx, suite, rows)
		},
		retry.Attempts(4),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Msg("bench-history-locked-retrying")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (h *History) insertTx(ctx context.Context, suite string, rows []Row) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bench_runs
		(suite, config, fingerprint, run, status, moves, best_pegs, expanded, generated, elapsed_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			suite, r.Config, int64(r.Fingerprint), r.Run, r.Status, r.Moves, r.BestPegs,
			int64(r.Expanded), int64(r.Generated), r.Elapsed.Nanoseconds(), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Runs returns the most recently recorded rows for a configuration,
// newest first.
func (h *History) Runs(ctx context.Context, suite, config string, limit int) ([]Row, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT config, run, status, moves, best_pegs,
		expanded, generated, elapsed_ns, fingerprint FROM bench_runs
		WHERE suite = ? AND config = ? ORDER BY id DESC LIMIT ?`, suite, config, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		var expanded, generated, elapsedNS, fp int64
		if err := rows.Scan(&r.Config, &r.Run, &r.Status, &r.Moves, &r.BestPegs,
			&expanded, &generated, &elapsedNS, &fp); err != nil {
			return nil, err
		}
		r.Expanded = uint64(expanded)
		r.Generated = uint64(generated)
		r.Elapsed = time.Duration(elapsedNS)
		r.Fingerprint = uint64(fp)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRuns reports how many rows the history holds for a suite.
func (h *History) CountRuns(ctx context.Context, suite string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bench_runs WHERE suite = ?`, suite).Scan(&n)
	return n, err
}
