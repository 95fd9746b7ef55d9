package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// APIKey authorises a Discord-registered client to report events.
type APIKey struct {
	Key       string    `db:"key"`
	DiscordID string    `db:"discord_id"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateAPIKey generates and stores a new API key for a Discord user.
func (s *Store) CreateAPIKey(ctx context.Context, discordID string) (APIKey, error) {
	key := APIKey{
		Key:       uuid.NewString(),
		DiscordID: discordID,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO api_keys (key, discord_id, created_at) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, key.Key, key.DiscordID, key.CreatedAt); err != nil {
		return APIKey{}, fmt.Errorf("unable to create API key (%w)", err)
	}

	return key, nil
}

// GetAPIKey looks up an API key, returning ErrNotFound for unknown keys.
func (s *Store) GetAPIKey(ctx context.Context, key string) (APIKey, error) {
	query := `SELECT key, discord_id, created_at FROM api_keys WHERE key = $1`

	var k APIKey
	if err := s.db.GetContext(ctx, &k, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return APIKey{}, ErrNotFound
		}

		return APIKey{}, fmt.Errorf("unable to get API key (%w)", err)
	}

	return k, nil
}

// RevokeAPIKey deletes an API key, returning ErrNotFound if it did not exist.
func (s *Store) RevokeAPIKey(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("unable to revoke API key (%w)", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAPIKeys retrieves all API keys, oldest first.
func (s *Store) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	query := `SELECT key, discord_id, created_at FROM api_keys ORDER BY created_at`

	list := []APIKey{}
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("unable to list API keys (%w)", err)
	}

	return list, nil
}
