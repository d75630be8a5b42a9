package archive

import (
	"database/sql"
	"fmt"
	"time"
)

// TranscriptRow represents one indexed transcript: a channel on a day plus
// its message and signal counts.
type TranscriptRow struct {
	Day          string    `json:"day"`
	Channel      string    `json:"channel"`
	MessageCount int       `json:"message_count"`
	Decisions    int       `json:"decisions"`
	Actions      int       `json:"actions"`
	Links        int       `json:"links"`
	Questions    int       `json:"questions"`
	Checksum     string    `json:"checksum"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DaySummary aggregates one calendar day across channels.
type DaySummary struct {
	Day          string `json:"day"`
	Channels     int    `json:"channels"`
	MessageCount int    `json:"message_count"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Day     string `json:"day"`
	Channel string `json:"channel"`
	Snippet string `json:"snippet"`
}

// Stats aggregates the whole archive.
type Stats struct {
	Days        int `json:"days"`
	Transcripts int `json:"transcripts"`
	Messages    int `json:"messages"`
	Decisions   int `json:"decisions"`
	Actions     int `json:"actions"`
	Links       int `json:"links"`
	Questions   int `json:"questions"`
}

// Upsert inserts or replaces a transcript row and its FTS entry within a
// transaction.
func (db *DB) Upsert(row TranscriptRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO transcripts (day, channel, message_count, decisions, actions, links, questions, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day, channel) DO UPDATE SET
			message_count = excluded.message_count,
			decisions     = excluded.decisions,
			actions       = excluded.actions,
			links         = excluded.links,
			questions     = excluded.questions,
			checksum      = excluded.checksum,
			body          = excluded.body,
			updated_at    = excluded.updated_at
	`, row.Day, row.Channel, row.MessageCount, row.Decisions, row.Actions, row.Links, row.Questions,
		row.Checksum, body, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("archive: upsert transcript: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, row.Day, row.Channel, body); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a transcript row and its FTS entry.
func (db *DB) Delete(day, channel string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, day, channel)
	_, _ = tx.Exec(`DELETE FROM transcripts WHERE day = ? AND channel = ?`, day, channel)

	return tx.Commit()
}

// Get returns one transcript row, or nil if absent.
func (db *DB) Get(day, channel string) (*TranscriptRow, error) {
	var r TranscriptRow
	err := db.conn.QueryRow(`
		SELECT day, channel, message_count, decisions, actions, links, questions, checksum, updated_at
		FROM transcripts WHERE day = ? AND channel = ?
	`, day, channel).Scan(&r.Day, &r.Channel, &r.MessageCount, &r.Decisions, &r.Actions, &r.Links,
		&r.Questions, &r.Checksum, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("archive: get transcript: %w", err)
	}
	return &r, nil
}

// GetChecksum returns the stored checksum, or empty string if not indexed.
func (db *DB) GetChecksum(day, channel string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM transcripts WHERE day = ? AND channel = ?`, day, channel).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns every indexed transcript keyed by its storage path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT day, channel, checksum FROM transcripts`)
	if err != nil {
		return nil, fmt.Errorf("archive: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var day, channel, cs string
		if err := rows.Scan(&day, &channel, &cs); err != nil {
			return nil, err
		}
		out[day+"/"+channel+".md"] = cs
	}
	return out, rows.Err()
}

// ListDays returns per-day aggregates, newest day first.
func (db *DB) ListDays() ([]DaySummary, error) {
	rows, err := db.conn.Query(`
		SELECT day, COUNT(*), COALESCE(SUM(message_count), 0)
		FROM transcripts
		GROUP BY day
		ORDER BY day DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("archive: list days: %w", err)
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var d DaySummary
		if err := rows.Scan(&d.Day, &d.Channels, &d.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListDay returns every channel row for one day, ordered by channel name.
func (db *DB) ListDay(day string) ([]TranscriptRow, error) {
	rows, err := db.conn.Query(`
		SELECT day, channel, message_count, decisions, actions, links, questions, checksum, updated_at
		FROM transcripts
		WHERE day = ?
		ORDER BY channel
	`, day)
	if err != nil {
		return nil, fmt.Errorf("archive: list day: %w", err)
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var r TranscriptRow
		if err := rows.Scan(&r.Day, &r.Channel, &r.MessageCount, &r.Decisions, &r.Actions, &r.Links,
			&r.Questions, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats aggregates the whole archive in one query.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`
		SELECT COUNT(DISTINCT day),
		       COUNT(*),
		       COALESCE(SUM(message_count), 0),
		       COALESCE(SUM(decisions), 0),
		       COALESCE(SUM(actions), 0),
		       COALESCE(SUM(links), 0),
		       COALESCE(SUM(questions), 0)
		FROM transcripts
	`).Scan(&s.Days, &s.Transcripts, &s.Messages, &s.Decisions, &s.Actions, &s.Links, &s.Questions)
	if err != nil {
		return Stats{}, fmt.Errorf("archive: stats: %w", err)
	}
	return s, nil
}
