package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store provides access to the movie catalog.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new catalog store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// withTx runs fn inside a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// nextStamp returns an updated_at value strictly newer than every stored one,
// so any mutation changes the data version even on a coarse clock.
func nextStamp(ctx context.Context, q querier, now time.Time) (time.Time, error) {
	var latest sql.NullString
	if err := q.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM movies").Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("read latest stamp: %w", err)
	}
	now = now.UTC()
	if !latest.Valid || latest.String == "" {
		return now, nil
	}
	prev, err := parseStamp(latest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stamp %q: %w", latest.String, err)
	}
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now, nil
}
