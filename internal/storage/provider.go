// Package storage defines the transcript file-tree abstraction. One store is
// rooted at the transcripts directory and a second at the summaries
// directory; both hold one UTF-8 Markdown file per channel per day, keyed as
// "<day>/<channel>.md".
package storage

import (
	"fmt"

	"github.com/hallgrim/skald/internal/models"
)

// Provider is the interface for per-day file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the
	// root; empty dir means the whole tree).
	List(dir string) ([]models.TranscriptMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write replaces the whole file at path atomically, creating parent
	// day directories as needed. Re-running a day is therefore idempotent.
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to root).
	Delete(path string) error
}

// DayChannelPath builds the canonical relative key for one channel's file on
// one calendar day.
func DayChannelPath(day, channel string) string {
	return fmt.Sprintf("%s/%s.md", day, channel)
}
