//go:build sqlite_fts5

package archive

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS transcripts_fts USING fts5(
			day UNINDEXED,
			channel,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, day, channel, body string) error {
	_, _ = tx.Exec(`DELETE FROM transcripts_fts WHERE day = ? AND channel = ?`, day, channel)
	_, err := tx.Exec(`INSERT INTO transcripts_fts (day, channel, body) VALUES (?, ?, ?)`,
		day, channel, body)
	if err != nil {
		return fmt.Errorf("archive: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, day, channel string) {
	_, _ = tx.Exec(`DELETE FROM transcripts_fts WHERE day = ? AND channel = ?`, day, channel)
}

// Search performs an FTS5 full-text search across transcript bodies and
// returns matching day/channel pairs with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT day,
		       channel,
		       snippet(transcripts_fts, 2, '<b>', '</b>', '...', 64)
		FROM transcripts_fts
		WHERE transcripts_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Day, &r.Channel, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
