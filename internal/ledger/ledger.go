package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	input_file   TEXT NOT NULL,
	output_file  TEXT NOT NULL,
	provider     TEXT NOT NULL,
	model        TEXT NOT NULL,
	source_items INTEGER NOT NULL,
	batches      INTEGER NOT NULL,
	translated   INTEGER NOT NULL,
	errors       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS batches (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	batch_index INTEGER NOT NULL,
	entries     INTEGER NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, batch_index)
);`

// Run is one recorded translation run
type Run struct {
	ID          string
	StartedAt   time.Time
	InputFile   string
	OutputFile  string
	Provider    string
	Model       string
	SourceItems int
	Batches     int
	Translated  int
	Errors      int
}

// BatchRecord is the outcome of one batch of a run
type BatchRecord struct {
	Index   int
	Entries int
	Status  string
	Error   string
}

// Ledger stores run history in a SQLite database
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the database at path
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores a run and its batches in one transaction. An empty run ID
// is replaced by a new UUID, which is returned.
func (l *Ledger) Record(run Run, batches []BatchRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := l.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, started_at, input_file, output_file, provider, model, source_items, batches, translated, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.InputFile, run.OutputFile,
		run.Provider, run.Model, run.SourceItems, run.Batches, run.Translated, run.Errors)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO batches (run_id, batch_index, entries, status, error) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range batches {
		if _, err := stmt.Exec(run.ID, b.Index, b.Entries, b.Status, b.Error); err != nil {
			return "", fmt.Errorf("failed to record batch %d: %w", b.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first
func (l *Ledger) RecentRuns(limit int) ([]Run, error) {
	rows, err := l.db.Query(`SELECT id, started_at, input_file, output_file, provider, model,
		source_items, batches, translated, errors
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.InputFile, &r.OutputFile, &r.Provider, &r.Model,
			&r.SourceItems, &r.Batches, &r.Translated, &r.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("failed to parse start time of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Batches returns the batch records of a run in batch order
func (l *Ledger) Batches(runID string) ([]BatchRecord, error) {
	rows, err := l.db.Query(`SELECT batch_index, entries, status, error
		FROM batches WHERE run_id = ? ORDER BY batch_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var b BatchRecord
		if err := rows.Scan(&b.Index, &b.Entries, &b.Status, &b.Error); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		records = append(records, b)
	}
	return records, rows.Err()
}
