// Package persistence provides the SQLite observation journal: events and
// interval statistics recorded over a run. Simulation state itself is not
// persisted; a restart always reseeds.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/loolos/Antarctica/internal/engine"
)

// DB wraps a SQLite connection for the observation journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		penguins INTEGER NOT NULL,
		seals INTEGER NOT NULL,
		fish INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		spawns INTEGER NOT NULL,
		mean_energy REAL NOT NULL,
		stddev_energy REAL NOT NULL,
		temperature REAL NOT NULL,
		season INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_stats_tick ON stats(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEvents appends a batch of events to the journal.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, category, description) VALUES (?, ?, ?)",
			e.Tick, e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveStats appends one interval statistics row.
func (db *DB) SaveStats(s engine.SimStats) error {
	_, err := db.conn.NamedExec(`
		INSERT INTO stats (tick, penguins, seals, fish, births, deaths, kills,
			spawns, mean_energy, stddev_energy, temperature, season)
		VALUES (:tick, :penguins, :seals, :fish, :births, :deaths, :kills,
			:spawns, :mean_energy, :stddev_energy, :temperature, :season)`,
		s,
	)
	return err
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// RecentEvents returns the most recent N journaled events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
