package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Ledger is a sqlite index of finished runs. It is used from one goroutine.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens (creating if needed) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty ledger path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initLedger(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func initLedger(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			level INTEGER NOT NULL,
			seasons_survived INTEGER NOT NULL,
			nuts_eaten INTEGER NOT NULL,
			nuts_buried INTEGER NOT NULL,
			sim_time_sec REAL NOT NULL,
			final_energy INTEGER NOT NULL,
			cause TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("initializing ledger: %w", err)
		}
	}
	return nil
}

// Record appends a run summary.
func (l *Ledger) Record(ctx context.Context, r RunSummary) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (run, seed, level, seasons_survived, nuts_eaten, nuts_buried, sim_time_sec, final_energy, cause, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Run, r.Seed, r.Level, r.SeasonsSurvived, r.NutsEaten, r.NutsBuried,
		r.SimTimeSec, r.Energy, r.Cause, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording run %d: %w", r.Run, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run, seed, level, seasons_survived, nuts_eaten, nuts_buried, sim_time_sec, final_energy, cause
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.Run, &r.Seed, &r.Level, &r.SeasonsSurvived, &r.NutsEaten,
			&r.NutsBuried, &r.SimTimeSec, &r.Energy, &r.Cause); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l == nil {
		return nil
	}
	return l.db.Close()
}
