package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loolos/Antarctica/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndQueryEvents(t *testing.T) {
	db := openTestDB(t)

	events := []engine.Event{
		{Tick: 1, Category: "birth", Description: "penguin-aaaa born"},
		{Tick: 2, Category: "predation", Description: "seal-bbbb ate fish-cccc"},
		{Tick: 3, Category: "death", Description: "fish-dddd died at age 500"},
	}
	require.NoError(t, db.SaveEvents(events))

	got, err := db.RecentEvents(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, 3, got[0].Tick)
	assert.Equal(t, "death", got[0].Category)
	assert.Equal(t, 2, got[1].Tick)
}

func TestSaveEventsEmptyBatch(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveEvents(nil))

	got, err := db.RecentEvents(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveStats(t *testing.T) {
	db := openTestDB(t)

	s := engine.SimStats{
		Tick: 100, Penguins: 10, Seals: 5, Fish: 48,
		Births: 1, Deaths: 3, Kills: 2, Spawns: 0,
		MeanEnergy: 72.3, StdDevEnergy: 15.1,
		Temperature: -2.5, Season: 1,
	}
	require.NoError(t, db.SaveStats(s))

	var count int
	require.NoError(t, db.conn.Get(&count, "SELECT COUNT(*) FROM stats"))
	assert.Equal(t, 1, count)

	var got engine.SimStats
	require.NoError(t, db.conn.Get(&got,
		"SELECT tick, penguins, seals, fish, births, deaths, kills, spawns, mean_energy, stddev_energy, temperature, season FROM stats"))
	assert.Equal(t, s, got)
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("seed", "42"))
	got, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	// Replace semantics.
	require.NoError(t, db.SaveMeta("seed", "43"))
	got, err = db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "43", got)

	_, err = db.GetMeta("absent")
	assert.Error(t, err)
}
