//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration tests")
	}

	s, err := store.Open(dsn)
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))

	return s
}

func TestInsertAndListKills(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	e := events.KillEvent{
		Player:        "RRRthur",
		Victim:        "Vanduul",
		Time:          time.Now().UTC().Truncate(time.Second),
		Zone:          "Stanton",
		Weapon:        "laser_repeater",
		DamageType:    "energy",
		RSIProfile:    "https://robertsspaceindustries.com/citizens/RRRthur",
		GameMode:      "SC_Default",
		Mode:          events.ModePU,
		ClientVersion: "3.23",
		KillersShip:   "Gladius",
	}

	id, err := s.InsertKill(ctx, e)
	require.NoError(t, err)
	assert.NotZero(t, id)

	list, err := s.ListKills(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	last := list[len(list)-1]
	assert.Equal(t, id, last.ID)
	assert.Equal(t, e.Player, last.Player)
	assert.Equal(t, "", last.VictimShip)
}

func TestInsertAndListDeaths(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	e := events.DeathEvent{
		Killer:      "Vanduul",
		Victim:      "RRRthur",
		Time:        time.Now().UTC().Truncate(time.Second),
		Zone:        "Pyro",
		Weapon:      "plasma_cannon",
		DamageType:  "energy",
		RSIProfile:  "https://robertsspaceindustries.com/citizens/RRRthur",
		GameMode:    "SC_Default",
		KillersShip: "Scythe",
		VictimShip:  "Gladius",
	}

	id, err := s.InsertDeath(ctx, e)
	require.NoError(t, err)

	list, err := s.ListDeaths(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	last := list[len(list)-1]
	assert.Equal(t, id, last.ID)
	assert.Equal(t, "Gladius", last.VictimShip)
}

func TestListDeathsByTime(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	death := func(victim string, at time.Time) events.DeathEvent {
		return events.DeathEvent{
			Killer:      "Vanduul",
			Victim:      victim,
			Time:        at,
			Zone:        "Pyro",
			Weapon:      "plasma_cannon",
			DamageType:  "energy",
			RSIProfile:  "https://robertsspaceindustries.com/citizens/" + victim,
			GameMode:    "SC_Default",
			KillersShip: "Scythe",
		}
	}

	now := time.Now().UTC().Truncate(time.Second)

	// inserted newest first so that id order and time order disagree
	newer, err := s.InsertDeath(ctx, death("RRRthur", now.Add(time.Hour)))
	require.NoError(t, err)

	older, err := s.InsertDeath(ctx, death("Miles", now))
	require.NoError(t, err)

	list, err := s.ListDeathsByTime(ctx)
	require.NoError(t, err)

	positions := map[int64]int{}
	for i, e := range list {
		positions[e.ID] = i
	}

	require.Contains(t, positions, older)
	require.Contains(t, positions, newer)
	assert.Less(t, positions[older], positions[newer])
}

func TestFingerprintChangesOnInsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	before, err := s.Fingerprint(ctx)
	require.NoError(t, err)

	_, err = s.InsertDeath(ctx, events.DeathEvent{
		Killer:      "Vanduul",
		Victim:      "RRRthur",
		Time:        time.Now().UTC(),
		Zone:        "Stanton",
		Weapon:      "ballistic_gatling",
		DamageType:  "ballistic",
		RSIProfile:  "https://robertsspaceindustries.com/citizens/RRRthur",
		GameMode:    "SC_Default",
		KillersShip: "Scythe",
	})
	require.NoError(t, err)

	after, err := s.Fingerprint(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestAPIKeyLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.CreateAPIKey(ctx, "discord-123")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Key)

	found, err := s.GetAPIKey(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, "discord-123", found.DiscordID)

	list, err := s.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, s.RevokeAPIKey(ctx, created.Key))

	_, err = s.GetAPIKey(ctx, created.Key)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.RevokeAPIKey(ctx, created.Key), store.ErrNotFound)
}
