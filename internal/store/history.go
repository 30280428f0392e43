// Package store persists run history in a local SQLite database, so past
// generation batches can be inspected without re-reading manifests.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"coverbot/internal/logging"
	"coverbot/internal/pipeline"
)

// Run is one recorded generation batch.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Model          string
	Framework      string
	FilesProcessed int
	TestsGenerated int
}

// RunFile is one generated test within a run.
type RunFile struct {
	RunID      string
	SourceFile string
	TestFile   string
	Coverage   float64
}

// History is the run-history store backed by a single SQLite file.
type History struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	model TEXT NOT NULL,
	framework TEXT NOT NULL,
	files_processed INTEGER NOT NULL,
	tests_generated INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_files (
	run_id TEXT NOT NULL REFERENCES runs(id),
	source_file TEXT NOT NULL,
	test_file TEXT NOT NULL,
	coverage REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
`

// Open creates or opens the history database at path, applying pragmas and
// the schema.
func Open(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	return &History{db: db}, nil
}

// RecordRun stores a batch summary and its generated files, returning the
// new run's id.
func (h *History) RecordRun(ctx context.Context, summary *pipeline.Summary) (string, error) {
	id := uuid.NewString()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, model, framework, files_processed, tests_generated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), summary.Model, summary.Framework,
		summary.FilesProcessed, summary.TestsGenerated)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, f := range summary.GeneratedFiles {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, source_file, test_file, coverage)
			 VALUES (?, ?, ?, ?)`,
			id, f.SourceFile, f.TestFile, f.Coverage)
		if err != nil {
			return "", fmt.Errorf("failed to insert run file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	logging.Store("recorded run %s (%d files)", id, summary.FilesProcessed)
	return id, nil
}

// Runs returns recorded runs, most recent first, capped at limit. Zero limit
// means all runs.
func (h *History) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, model, framework, files_processed, tests_generated
		FROM runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Model, &r.Framework,
			&r.FilesProcessed, &r.TestsGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles returns the generated files recorded for one run.
func (h *History) RunFiles(ctx context.Context, runID string) ([]RunFile, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, source_file, test_file, coverage FROM run_files WHERE run_id = ?`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.RunID, &f.SourceFile, &f.TestFile, &f.Coverage); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	return h.db.Close()
}
