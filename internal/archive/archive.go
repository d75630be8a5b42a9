package archive

// TranscriptIndex defines the interface for transcript indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type TranscriptIndex interface {
	Upsert(row TranscriptRow, body string) error
	Delete(day, channel string) error
	Get(day, channel string) (*TranscriptRow, error)
	GetChecksum(day, channel string) (string, error)
	AllChecksums() (map[string]string, error)
	ListDays() ([]DaySummary, error)
	ListDay(day string) ([]TranscriptRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (Stats, error)
	Close() error
}

// Verify *DB satisfies TranscriptIndex at compile time.
var _ TranscriptIndex = (*DB)(nil)
