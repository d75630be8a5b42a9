package archive

import (
	"log/slog"
	"time"

	"github.com/hallgrim/skald/internal/checksum"
	"github.com/hallgrim/skald/internal/signal"
	"github.com/hallgrim/skald/internal/storage"
	"github.com/hallgrim/skald/internal/transcript"
)

// Sync walks the transcripts root and brings the archive up to date:
//   - new/changed transcripts are decoded, classified, and upserted
//   - transcripts removed from disk are deleted from the archive
//
// Files that do not follow the <day>/<channel>.md key scheme are ignored.
func Sync(db TranscriptIndex, store storage.Provider, cls signal.Classifier, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if _, _, ok := SplitPath(m.Path); !ok {
			continue
		}
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexTranscript(db, cls, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			day, channel, ok := SplitPath(p)
			if !ok {
				continue
			}
			if err := db.Delete(day, channel); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexTranscript decodes and classifies transcript data and upserts its row.
func indexTranscript(db TranscriptIndex, cls signal.Classifier, path string, data []byte) error {
	day, channel, ok := SplitPath(path)
	if !ok {
		return nil
	}

	msgs := transcript.Decode(string(data))
	set := cls.Classify(msgs)

	row := TranscriptRow{
		Day:          day,
		Channel:      channel,
		MessageCount: len(msgs),
		Decisions:    len(set.Decisions),
		Actions:      len(set.Actions),
		Links:        len(set.Links),
		Questions:    len(set.Questions),
		Checksum:     checksum.Sum(data),
		UpdatedAt:    time.Now().UTC(),
	}
	return db.Upsert(row, string(data))
}
