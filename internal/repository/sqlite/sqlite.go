package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection used as a per-session document store.
type DB struct {
	conn *sql.DB

	// One mutex per live session id serializes read-modify-write cycles for
	// that session. locksMu guards the map itself.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	db := &DB{
		conn:  conn,
		locks: make(map[string]*sync.Mutex),
	}

	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// migrate creates the sessions table if it doesn't exist. Each row holds one
// session's full record as a JSON document.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying connection for use by repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// SessionLock returns the mutex serializing writers for one session id,
// creating it on first use. Locks are never removed; a session id costs one
// mutex for the process lifetime.
func (db *DB) SessionLock(sessionID string) *sync.Mutex {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()

	mu, ok := db.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		db.locks[sessionID] = mu
	}
	return mu
}
