// Package database opens the revision database and creates its schema.
package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database. Writers wait for each other instead of failing
// immediately with SQLITE_BUSY.
func New(dsn string) (*sql.DB, error) {
	if !strings.Contains(dsn, "_busy_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer at a time. A single connection keeps the
	// conditional append free of SQLITE_BUSY between check and insert.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the revision table if it does not exist. Triggers reject
// UPDATE and DELETE so the table stays append-only.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- Every row is one immutable revision. The current state of a page is the
-- row with the newest (updated, id) for its name.
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    content TEXT NOT NULL,
    categories TEXT NOT NULL DEFAULT '[]',
    updated TIMESTAMP NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
);

CREATE INDEX IF NOT EXISTS pages_name_updated ON pages (name, updated, id);

CREATE TRIGGER IF NOT EXISTS pages_block_update BEFORE UPDATE ON pages
BEGIN
    SELECT RAISE(ABORT, 'page revisions are immutable');
END;

CREATE TRIGGER IF NOT EXISTS pages_block_delete BEFORE DELETE ON pages
BEGIN
    SELECT RAISE(ABORT, 'page revisions are immutable');
END;
`)
	return err
}
