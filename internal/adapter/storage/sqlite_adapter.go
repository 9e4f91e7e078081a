package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteAdapter is the default durable store: a local single-file database,
// the process-level stand-in for the reference tracker's browser storage.
type SQLiteAdapter struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the state table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite handles are not safe for concurrent writers.
	db.SetMaxOpenConns(1)

	a := &SQLiteAdapter{db: db}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS event_state (
			k TEXT PRIMARY KEY,
			v BLOB NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create event_state: %w", err)
	}
	return a, nil
}

func (s *SQLiteAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT v FROM event_state WHERE k = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}
	return value, nil
}

func (s *SQLiteAdapter) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_state (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM event_state WHERE k = ?`, key)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
