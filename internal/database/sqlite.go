package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// NewSQLite opens (creating if needed) the embedded ledger database with WAL
// mode enabled.
func NewSQLite(dbPath string) (*sql.DB, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,
		category    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount      REAL NOT NULL,
		kind        TEXT NOT NULL CHECK (kind IN ('income', 'expense'))
	);

	CREATE TABLE IF NOT EXISTS budgets (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		category   TEXT NOT NULL UNIQUE,
		max_amount REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		name   TEXT NOT NULL UNIQUE,
		target REAL NOT NULL,
		saved  REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
	`
	_, err := db.Exec(schema)
	return err
}
