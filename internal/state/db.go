// Package state records every action dxenv ran, and the engine job it
// started, in a local sqlite ledger.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	_ "modernc.org/sqlite"
)

// memoryPath opens a ledger that lives only as long as the process.
const memoryPath = ":memory:"

// DB is an open job ledger.
type DB struct {
	*sql.DB
	path string
}

// DefaultDBPath returns $XDG_DATA_HOME/dxenv/state.db, falling back to
// ~/.local/share when XDG_DATA_HOME is unset.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate the job ledger: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dxenv", "state.db"), nil
}

// Open opens the ledger at path, creating it and bringing its schema up to
// date. An empty path means DefaultDBPath; ":memory:" keeps the ledger in
// memory.
func Open(path string) (*DB, error) {
	var err error
	if path == "" {
		if path, err = DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	if path, err = homedir.Expand(path); err != nil {
		return nil, fmt.Errorf("failed to expand ledger path: %w", err)
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", ledgerDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open job ledger: %w", err)
	}

	// One connection serializes writes to the shared in-memory ledger
	if path == memoryPath {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to job ledger %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate job ledger: %w", err)
	}
	return db, nil
}

// ledgerDSN builds the sqlite DSN for path.
func ledgerDSN(path string) string {
	if path == memoryPath {
		return "file::memory:?cache=shared"
	}
	// Engine workers record their rows concurrently: WAL lets readers
	// through and busy_timeout makes writers queue instead of failing.
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
}

// Path returns the ledger file, or ":memory:".
func (db *DB) Path() string {
	return db.path
}
