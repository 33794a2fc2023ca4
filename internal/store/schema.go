package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// schemaVersion is bumped whenever the tables below change incompatibly.
const schemaVersion = 2

var schema = []string{
	`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		root        TEXT NOT NULL,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER,
		status      TEXT NOT NULL DEFAULT 'running',
		indexed     INTEGER NOT NULL DEFAULT 0,
		skipped     INTEGER NOT NULL DEFAULT 0,
		failed      INTEGER NOT NULL DEFAULT 0,
		removed     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		path       TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		hash       TEXT NOT NULL,
		indexed_at INTEGER NOT NULL,
		run_id     TEXT NOT NULL,
		model      BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS symbols (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		module_path TEXT NOT NULL REFERENCES modules(path) ON DELETE CASCADE,
		kind        TEXT NOT NULL,
		name        TEXT NOT NULL,
		parent      TEXT NOT NULL DEFAULT '',
		doc         TEXT NOT NULL DEFAULT '',
		detail      TEXT NOT NULL DEFAULT '',
		ordinal     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name COLLATE NOCASE)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_module ON symbols(module_path)`,
}

// upgrades[v] moves a database from schema v to v+1.
var upgrades = map[int][]string{
	// v2 adds runs.status. Unfinished v1 runs were interrupted.
	1: {
		`ALTER TABLE runs ADD COLUMN status TEXT NOT NULL DEFAULT 'complete'`,
		`UPDATE runs SET status = 'aborted' WHERE finished_at IS NULL`,
	},
}

// migrate creates missing tables, upgrades older databases and records the
// schema version. A database written by a newer schema is rejected.
func (db *DB) migrate() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	var version int
	err := db.conn.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("read schema version: %w", err)
	case err == nil && version > schemaVersion:
		return fmt.Errorf("index schema v%d is newer than supported v%d", version, schemaVersion)
	case err == nil && version == schemaVersion:
		return nil
	case err == nil:
		for v := version; v < schemaVersion; v++ {
			for _, stmt := range upgrades[v] {
				if _, err := db.conn.Exec(stmt); err != nil {
					return fmt.Errorf("upgrade schema v%d: %w", v, err)
				}
			}
		}
	}

	_, err = db.conn.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, fmt.Sprint(schemaVersion))
	return err
}
