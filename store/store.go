// Package store persists killfeed events and API keys in Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// Store wraps a pooled Postgres connection.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database described by dsn and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database (%w)", err)
	}

	return &Store{db: db}, nil
}

// OpenWithRetry retries Open until the database accepts connections, for use at
// service startup when the database may still be coming up.
func OpenWithRetry(ctx context.Context, dsn string, attempts int, delay time.Duration) (*Store, error) {
	var err error

	for i := 0; i < attempts; i++ {
		var s *Store
		if s, err = Open(dsn); err == nil {
			return s, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("database not ready after %d attempts (%w)", attempts, err)
}

func (s *Store) Close() error {
	return s.db.Close()
}
