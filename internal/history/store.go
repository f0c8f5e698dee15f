// Package history records completed hemtt runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded hemtt invocation.
type Run struct {
	ID          int64
	RunID       string
	Command     string // executable that was invoked
	Args        []string
	ProjectDir  string
	ExitCode    int
	Cancelled   bool
	LaunchError string // empty unless the process failed to start
	StartedAt   time.Time
	Duration    time.Duration
}

// Store wraps a SQLite database holding the run history.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at the given path with WAL
// mode. Use ":memory:" for in-memory databases in tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating history dir for %s: %w", dbPath, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records a completed run.
func (s *Store) Append(ctx context.Context, r *Run) error {
	args, err := marshalArgs(r.Args)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, command, args, project_dir, exit_code, cancelled, launch_error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Command, args, r.ProjectDir,
		r.ExitCode, boolToInt(r.Cancelled), nullString(r.LaunchError),
		r.StartedAt.Unix(), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("appending run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, command, args, project_dir, exit_code, cancelled, launch_error, started_at, duration_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes all but the newest keep runs.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var r Run
	var args sql.NullString
	var launchError sql.NullString
	var cancelled int
	var startedAt, durationMS int64

	err := rows.Scan(
		&r.ID, &r.RunID, &r.Command, &args, &r.ProjectDir,
		&r.ExitCode, &cancelled, &launchError, &startedAt, &durationMS,
	)
	if err != nil {
		return nil, err
	}

	r.Cancelled = cancelled != 0
	r.LaunchError = launchError.String
	r.StartedAt = time.Unix(startedAt, 0)
	r.Duration = time.Duration(durationMS) * time.Millisecond

	if args.Valid && args.String != "" {
		if err := json.Unmarshal([]byte(args.String), &r.Args); err != nil {
			return nil, fmt.Errorf("unmarshaling run args: %w", err)
		}
	}

	return &r, nil
}

func marshalArgs(args []string) (sql.NullString, error) {
	if len(args) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshaling run args: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
