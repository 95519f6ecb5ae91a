package delivery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const counterSchema = `CREATE TABLE IF NOT EXISTS delivery_counters (
	name  TEXT PRIMARY KEY,
	count INTEGER NOT NULL
)`

// SQLiteStore keeps named counters in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

var _ CounterStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and binds the
// store to the counter called name.
func OpenSQLite(path, name string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("delivery: sqlite path is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("delivery: counter name is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("delivery: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("delivery: ping sqlite: %w", err)
	}
	if _, err := db.Exec(counterSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("delivery: migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, name: name}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read implements CounterStore. A counter that was never written reads as 0.
func (s *SQLiteStore) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count FROM delivery_counters WHERE name = ?`, s.name).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("delivery: read sqlite counter: %w", err)
	}
	return count, nil
}

// Write implements CounterStore.
func (s *SQLiteStore) Write(ctx context.Context, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO delivery_counters (name, count) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET count = excluded.count`,
		s.name, count)
	if err != nil {
		return fmt.Errorf("delivery: write sqlite counter: %w", err)
	}
	return nil
}
