package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// timestampLayout keeps stored timestamps fixed-width so they sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded conversion.
type Run struct {
	ID         int64      `json:"id"`
	RunID      string     `json:"run_id"`
	Command    string     `json:"command"`
	LayoutPath string     `json:"layout_path"`
	SourcePath string     `json:"source_path,omitempty"`
	TargetPath string     `json:"target_path,omitempty"`
	Status     Status     `json:"status"`
	Lines      int        `json:"lines"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin records a run in the running state and returns its row id.
func (s *Store) Begin(ctx context.Context, run Run) (int64, error) {
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, command, layout_path, source_path, target_path, status, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Command,
		run.LayoutPath,
		nullableString(run.SourcePath),
		nullableString(run.TargetPath),
		StatusRunning,
		started.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Finish stores the outcome of a run. A nil runErr marks it succeeded.
func (s *Store) Finish(ctx context.Context, id int64, lines int, runErr error) error {
	status := StatusSucceeded
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, lines = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		status,
		lines,
		message,
		time.Now().UTC().Format(timestampLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("update run %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, command, layout_path, source_path, target_path,
            status, lines, error_message, started_at, finished_at
        FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                 Run
		source, target, msg sql.NullString
		startedAt           string
		finishedAt          sql.NullString
		status              string
	)
	if err := rows.Scan(
		&run.ID, &run.RunID, &run.Command, &run.LayoutPath, &source, &target,
		&status, &run.Lines, &msg, &startedAt, &finishedAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.SourcePath = source.String
	run.TargetPath = target.String
	run.Error = msg.String
	run.Status = Status(status)

	started, err := time.Parse(timestampLayout, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = started
	if finishedAt.Valid {
		finished, err := time.Parse(timestampLayout, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &finished
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
