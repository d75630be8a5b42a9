// Package archive provides a SQLite-backed index over collected transcripts
// with optional FTS5 full-text search.
package archive

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
	day           TEXT NOT NULL,
	channel       TEXT NOT NULL,
	message_count INTEGER NOT NULL DEFAULT 0,
	decisions     INTEGER NOT NULL DEFAULT 0,
	actions       INTEGER NOT NULL DEFAULT 0,
	links         INTEGER NOT NULL DEFAULT 0,
	questions     INTEGER NOT NULL DEFAULT 0,
	checksum      TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (day, channel)
);

CREATE INDEX IF NOT EXISTS idx_transcripts_day ON transcripts(day);
`

// DB wraps a sql.DB with archive-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("archive: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SplitPath parses a storage key "<day>/<channel>.md" into its parts.
func SplitPath(path string) (day, channel string, ok bool) {
	day, file, found := strings.Cut(path, "/")
	if !found || !strings.HasSuffix(file, ".md") || strings.Contains(file, "/") {
		return "", "", false
	}
	channel = strings.TrimSuffix(file, ".md")
	if day == "" || channel == "" {
		return "", "", false
	}
	return day, channel, true
}
