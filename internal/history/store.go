package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Move is one applied file operation: what moved where, under which category,
// and the model's stated reason.
type Move struct {
	ID        int64
	RunID     uuid.UUID
	Source    string
	Target    string
	Category  string
	Reason    string
	AppliedAt time.Time
}

// Store records applied moves in a local SQLite database so a run can be
// audited (and, by hand, undone) later.
type Store struct {
	db    *sql.DB
	runID uuid.UUID
}

const schema = `
CREATE TABLE IF NOT EXISTS moves (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	source     TEXT NOT NULL,
	target     TEXT NOT NULL,
	category   TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_moves_run_id ON moves(run_id);
`

// Open creates or opens the history database at path, creating parent
// directories as needed. Each Open starts a new run.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db, runID: uuid.New()}, nil
}

// RunID identifies the current run; every move recorded through this store
// carries it.
func (s *Store) RunID() uuid.UUID { return s.runID }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one applied move.
func (s *Store) Record(ctx context.Context, source, target, category, reason string) error {
	query := `INSERT INTO moves (run_id, source, target, category, reason, applied_at)
	          VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, s.runID.String(), source, target, category, reason, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record move %s: %w", source, err)
	}
	return nil
}

// List returns the most recent moves, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]Move, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, run_id, source, target, category, reason, applied_at
	          FROM moves ORDER BY applied_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		var runID string
		if err := rows.Scan(&m.ID, &runID, &m.Source, &m.Target, &m.Category, &m.Reason, &m.AppliedAt); err != nil {
			return moves, fmt.Errorf("failed to scan move row: %w", err)
		}
		if parsed, err := uuid.Parse(runID); err == nil {
			m.RunID = parsed
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return moves, fmt.Errorf("error iterating move rows: %w", err)
	}
	return moves, nil
}

// ListRun returns every move recorded under one run, oldest first.
func (s *Store) ListRun(ctx context.Context, runID uuid.UUID) ([]Move, error) {
	query := `SELECT id, run_id, source, target, category, reason, applied_at
	          FROM moves WHERE run_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query moves for run %s: %w", runID, err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		var id string
		if err := rows.Scan(&m.ID, &id, &m.Source, &m.Target, &m.Category, &m.Reason, &m.AppliedAt); err != nil {
			return moves, fmt.Errorf("failed to scan move row: %w", err)
		}
		if parsed, err := uuid.Parse(id); err == nil {
			m.RunID = parsed
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return moves, fmt.Errorf("error iterating move rows: %w", err)
	}
	return moves, nil
}
