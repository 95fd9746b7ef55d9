package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/killfeed/killfeed-sheets/events"
)

const killColumns = `
    id, player, victim, time, zone, weapon, damage_type, rsi_profile, game_mode,
    mode, client_ver, killers_ship,
    COALESCE(victim_ship, '')       AS victim_ship,
    COALESCE(avatar_url, '')        AS avatar_url,
    COALESCE(organization_name, '') AS organization_name,
    COALESCE(organization_url, '')  AS organization_url`

const deathColumns = `
    id, killer, victim, time, zone, weapon, damage_type, rsi_profile, game_mode,
    killers_ship,
    COALESCE(victim_ship, '')       AS victim_ship,
    COALESCE(avatar_url, '')        AS avatar_url,
    COALESCE(organization_name, '') AS organization_name,
    COALESCE(organization_url, '')  AS organization_url`

// ListKills retrieves all kill events, oldest first.
func (s *Store) ListKills(ctx context.Context) ([]events.KillEvent, error) {
	query := `SELECT` + killColumns + ` FROM kills ORDER BY id`

	list := []events.KillEvent{}
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("unable to list kills (%w)", err)
	}

	return list, nil
}

// ListDeaths retrieves all death events, oldest first.
func (s *Store) ListDeaths(ctx context.Context) ([]events.DeathEvent, error) {
	query := `SELECT` + deathColumns + ` FROM deaths ORDER BY id`

	list := []events.DeathEvent{}
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("unable to list deaths (%w)", err)
	}

	return list, nil
}

// ListDeathsByTime retrieves all death events ordered by event time, the order
// the API serves them in.
func (s *Store) ListDeathsByTime(ctx context.Context) ([]events.DeathEvent, error) {
	query := `SELECT` + deathColumns + ` FROM deaths ORDER BY time, id`

	list := []events.DeathEvent{}
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("unable to list deaths (%w)", err)
	}

	return list, nil
}

// InsertKill stores a kill event and returns its assigned ID.
func (s *Store) InsertKill(ctx context.Context, e events.KillEvent) (int64, error) {
	query := `
        INSERT INTO kills (
            player, victim, time, zone, weapon, damage_type, rsi_profile,
            game_mode, mode, client_ver, killers_ship, victim_ship, avatar_url,
            organization_name, organization_url
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULLIF($12,''),NULLIF($13,''),NULLIF($14,''),NULLIF($15,''))
        RETURNING id`

	var id int64
	if err := s.db.GetContext(ctx, &id, query,
		e.Player, e.Victim, e.Time, e.Zone, e.Weapon, e.DamageType, e.RSIProfile,
		e.GameMode, e.Mode, e.ClientVersion, e.KillersShip, e.VictimShip,
		e.AvatarURL, e.OrganizationName, e.OrganizationURL,
	); err != nil {
		return 0, fmt.Errorf("unable to insert kill (%w)", err)
	}

	return id, nil
}

// InsertDeath stores a death event and returns its assigned ID.
func (s *Store) InsertDeath(ctx context.Context, e events.DeathEvent) (int64, error) {
	query := `
        INSERT INTO deaths (
            killer, victim, time, zone, weapon, damage_type, rsi_profile,
            game_mode, killers_ship, victim_ship, avatar_url,
            organization_name, organization_url
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),NULLIF($11,''),NULLIF($12,''),NULLIF($13,''))
        RETURNING id`

	var id int64
	if err := s.db.GetContext(ctx, &id, query,
		e.Killer, e.Victim, e.Time, e.Zone, e.Weapon, e.DamageType, e.RSIProfile,
		e.GameMode, e.KillersShip, e.VictimShip, e.AvatarURL,
		e.OrganizationName, e.OrganizationURL,
	); err != nil {
		return 0, fmt.Errorf("unable to insert death (%w)", err)
	}

	return id, nil
}

// Fingerprint returns a digest of the event tables that changes whenever rows
// are added. Sync runs compare it to the digest recorded after the previous
// upload to decide whether the worksheet needs rewriting.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	query := `
        SELECT (SELECT COUNT(*) FROM kills),
               (SELECT COALESCE(MAX(id), 0) FROM kills),
               (SELECT COUNT(*) FROM deaths),
               (SELECT COALESCE(MAX(id), 0) FROM deaths)`

	var kills, maxKill, deaths, maxDeath int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&kills, &maxKill, &deaths, &maxDeath); err != nil {
		return "", fmt.Errorf("unable to fingerprint event tables (%w)", err)
	}

	sum := sha256.Sum256(fmt.Appendf(nil, "kills:%v:%v deaths:%v:%v", kills, maxKill, deaths, maxDeath))

	return hex.EncodeToString(sum[:]), nil
}
