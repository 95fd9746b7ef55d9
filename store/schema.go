package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS kills (
    id                BIGSERIAL PRIMARY KEY,
    player            TEXT NOT NULL,
    victim            TEXT NOT NULL,
    time              TIMESTAMPTZ NOT NULL,
    zone              TEXT NOT NULL,
    weapon            TEXT NOT NULL,
    damage_type       TEXT NOT NULL,
    rsi_profile       TEXT NOT NULL,
    game_mode         TEXT NOT NULL,
    mode              TEXT NOT NULL,
    client_ver        TEXT NOT NULL,
    killers_ship      TEXT NOT NULL,
    victim_ship       TEXT,
    avatar_url        TEXT,
    organization_name TEXT,
    organization_url  TEXT
);

CREATE TABLE IF NOT EXISTS deaths (
    id                BIGSERIAL PRIMARY KEY,
    killer            TEXT NOT NULL,
    victim            TEXT NOT NULL,
    time              TIMESTAMPTZ NOT NULL,
    zone              TEXT NOT NULL,
    weapon            TEXT NOT NULL,
    damage_type       TEXT NOT NULL,
    rsi_profile       TEXT NOT NULL,
    game_mode         TEXT NOT NULL,
    killers_ship      TEXT NOT NULL,
    victim_ship       TEXT,
    avatar_url        TEXT,
    organization_name TEXT,
    organization_url  TEXT
);

CREATE TABLE IF NOT EXISTS api_keys (
    key        TEXT PRIMARY KEY,
    discord_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_kills_time      ON kills (time);
CREATE INDEX IF NOT EXISTS idx_deaths_time     ON deaths (time);
CREATE INDEX IF NOT EXISTS idx_api_keys_discord ON api_keys (discord_id);
`

// Migrate creates the event and API key tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("unable to create schema (%w)", err)
	}

	return nil
}
