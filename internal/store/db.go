// Package store persists extracted documentation in SQLite so it can be
// searched and served without reparsing unchanged files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	zerrors "zigdoc/internal/errors"
	"zigdoc/internal/slogutil"
)

// DB represents a database connection with transaction helpers
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

// Open opens or creates the SQLite database at path and brings its schema up to date.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "cannot create index directory", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "cannot open "+path, err)
	}
	// Pragmas apply per connection, so keep exactly one.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-16000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, zerrors.New(zerrors.StoreFailed, "cannot configure "+path, err)
		}
	}

	db := &DB{conn: conn, logger: logger, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, zerrors.New(zerrors.StoreFailed, "cannot initialize schema", err)
	}

	logger.Debug("Opened index database", "path", path)
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// WithTx runs fn in a transaction, rolling back when fn fails or panics.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Failed to rollback transaction",
				"error", err.Error(),
				"rollback_error", rbErr.Error(),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
