// Package store handles SQLite persistence of audit run history.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/seedaudit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			command TEXT NOT NULL,
			runs_requested INTEGER NOT NULL,
			runs_collected INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			duplicate_rate REAL NOT NULL,
			entropy_bits REAL NOT NULL,
			ideal_entropy_bits REAL NOT NULL,
			output_path TEXT NOT NULL,
			aborted INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_positions (
			run_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			entropy_bits REAL NOT NULL,
			chi2_approx REAL NOT NULL,
			distinct_words INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its per-position statistics.
func (s *Store) InsertRun(ctx context.Context, rec model.RunRecord, positions []model.PositionStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, command, runs_requested, runs_collected, duplicates, duplicate_rate, entropy_bits, ideal_entropy_bits, output_path, aborted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.Command,
		rec.RunsRequested,
		rec.RunsCollected,
		rec.Duplicates,
		rec.DuplicateRate,
		rec.EstimatedEntropyBits,
		rec.IdealEntropyBits,
		rec.OutputPath,
		rec.Aborted,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(positions) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_positions (run_id, position, entropy_bits, chi2_approx, distinct_words)
			 VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ps := range positions {
			if _, err = stmt.ExecContext(ctx, id, ps.Position, ps.EntropyBits, ps.Chi2Approx, ps.DistinctWords); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns the most recent runs, oldest first. last <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.RunRecord, error) {
	limit := last
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, command, runs_requested, runs_collected, duplicates, duplicate_rate, entropy_bits, ideal_entropy_bits, output_path, aborted
		FROM (SELECT * FROM runs ORDER BY started_at DESC, id DESC LIMIT ?)
		ORDER BY started_at ASC, id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var startedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Command, &rec.RunsRequested, &rec.RunsCollected,
			&rec.Duplicates, &rec.DuplicateRate, &rec.EstimatedEntropyBits, &rec.IdealEntropyBits,
			&rec.OutputPath, &rec.Aborted); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		rec.StartedAt = parsed
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListPositions returns the stored per-position statistics of one run.
func (s *Store) ListPositions(ctx context.Context, runID int64) ([]model.PositionStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, entropy_bits, chi2_approx, distinct_words
		FROM run_positions WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.PositionStats
	for rows.Next() {
		var ps model.PositionStats
		if err := rows.Scan(&ps.Position, &ps.EntropyBits, &ps.Chi2Approx, &ps.DistinctWords); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
