package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/prateekgoyal/proposalhub/internal/config"
)

// Open opens or creates the SQLite database and applies the schema. The
// modernc driver compiles FTS5 and JSON1 in, so the virtual table works in
// a plain `go build`. _time_format makes bound time.Time values round-trip
// through SQLite's date functions.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", cfg.Path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writes; one writer connection avoids SQLITE_BUSY
	// churn under concurrent requests.
	db.SetMaxOpenConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// OpenMemory opens a throwaway in-memory database, used by tests.
func OpenMemory() (*sqlx.DB, error) {
	return Open(config.DatabaseConfig{Path: ":memory:"})
}

func applySchema(db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
