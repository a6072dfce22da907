// Package sqlite implements the repository interfaces on an embedded
// SQLite database via the pure-Go modernc.org/sqlite driver (no CGo, so
// cross-compilation stays trivial).
//
// Use ":memory:" as the path for a throwaway database in tests.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-collection
// stores. The pool is safe for concurrent use; request handlers share
// it without extra locking.
type DB struct {
	conn   *sql.DB
	users  *UserStore
	skills *SkillStore
}

// Users returns the user store backed by this database.
func (db *DB) Users() *UserStore {
	return db.users
}

// Skills returns the skill store backed by this database.
func (db *DB) Skills() *SkillStore {
	return db.skills
}

// New opens the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own empty
	// database, so the pool must stay at a single connection there.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight, which a
	// web server needs.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:   conn,
		users:  &UserStore{conn: conn},
		skills: &SkillStore{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right
// after New succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the two collections. CREATE TABLE IF NOT EXISTS keeps
// this idempotent across restarts.
//
// The UNIQUE index on users.email is the single enforcement point for
// the one-user-per-email invariant. github_id gets a partial unique
// index so password-only accounts (NULL github_id) don't collide.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id IS NOT NULL;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS skills (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			category     TEXT NOT NULL,
			level        INTEGER NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_skills_last_updated ON skills(last_updated);
	`)
	if err != nil {
		return fmt.Errorf("creating skills table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The driver surfaces these as "constraint failed: UNIQUE
// constraint failed: <table>.<column>" messages.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
