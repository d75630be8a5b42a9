// Package pipeline wires the fetch, codec, classifier, and renderer stages
// into the two batch runs: collect and summarize. Channels are processed one
// at a time with no shared state; a failure on one channel is logged and the
// run moves on.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/models"
	"github.com/hallgrim/skald/internal/report"
	"github.com/hallgrim/skald/internal/signal"
	"github.com/hallgrim/skald/internal/source"
	"github.com/hallgrim/skald/internal/storage"
	"github.com/hallgrim/skald/internal/timewindow"
	"github.com/hallgrim/skald/internal/transcript"
)

// minMessages is the summarization skip threshold: a channel with fewer
// decoded messages gets no summary file at all.
const minMessages = 3

// Pipeline holds the collaborators shared by both runs.
type Pipeline struct {
	transcripts storage.Provider
	summaries   storage.Provider
	classifier  signal.Classifier
	logger      *slog.Logger
}

// New creates a pipeline over the two file roots.
func New(transcripts, summaries storage.Provider, classifier signal.Classifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		transcripts: transcripts,
		summaries:   summaries,
		classifier:  classifier,
		logger:      logger,
	}
}

// Collect fetches every configured channel for the window derived from now
// and writes one transcript per channel under the window's label day. The
// returned window tells callers which day was collected.
func (p *Pipeline) Collect(ctx context.Context, src source.Source, channels []models.Channel, now time.Time) (timewindow.DateWindow, error) {
	w := timewindow.Window(now)
	from, to := w.FetchRange()

	p.logger.Info("collect: starting",
		slog.String("source", src.Name()),
		slog.String("day", w.Label),
		slog.Int("channels", len(channels)))

	for _, ch := range channels {
		raw, err := src.FetchMessages(ctx, ch.ID, from, to)
		if err != nil {
			p.logger.Error("collect: fetch failed",
				slog.String("channel", ch.Name),
				slog.String("error", err.Error()))
			continue
		}

		// Upstream filtered by whole day; narrow to the exact window.
		kept := raw[:0:0]
		for _, m := range raw {
			if w.Contains(m.CreatedAt) {
				kept = append(kept, m)
			}
		}

		msgs := transcript.FromRaw(kept, now.Location())
		text := transcript.Encode(ch.Name, msgs, now)
		path := storage.DayChannelPath(w.Label, ch.Name)
		if err := p.transcripts.Write(path, []byte(text)); err != nil {
			p.logger.Error("collect: write failed",
				slog.String("channel", ch.Name),
				slog.String("error", fmt.Errorf("%w: %v", apperr.ErrIO, err).Error()))
			continue
		}

		p.logger.Info("collect: transcript written",
			slog.String("channel", ch.Name),
			slog.String("path", path),
			slog.Int("messages", len(msgs)))
	}

	return w, nil
}

// Summarize renders a summary for every transcript of the given day. An
// empty day defaults to now's calendar date — deliberately not the
// collector's "yesterday" label, so an explicit day is the way to summarize
// a freshly collected window.
func (p *Pipeline) Summarize(day string, now time.Time) error {
	if day == "" {
		day = now.Format("2006-01-02")
	}

	metas, err := p.transcripts.List(day)
	if err != nil {
		return fmt.Errorf("summarize: list day %s: %w", day, err)
	}

	p.logger.Info("summarize: starting", slog.String("day", day), slog.Int("transcripts", len(metas)))

	for _, meta := range metas {
		data, err := p.transcripts.Read(meta.Path)
		if err != nil {
			p.logger.Error("summarize: read failed",
				slog.String("path", meta.Path),
				slog.String("error", err.Error()))
			continue
		}

		msgs := transcript.Decode(string(data))
		if len(msgs) < minMessages {
			p.logger.Info("summarize: channel skipped",
				slog.String("path", meta.Path),
				slog.Int("messages", len(msgs)))
			continue
		}

		channel := channelFromPath(meta.Path)
		set := p.classifier.Classify(msgs)
		out := report.Render(channel, len(msgs), set)

		if err := p.summaries.Write(meta.Path, []byte(out)); err != nil {
			p.logger.Error("summarize: write failed",
				slog.String("path", meta.Path),
				slog.String("error", fmt.Errorf("%w: %v", apperr.ErrIO, err).Error()))
			continue
		}

		p.logger.Info("summarize: summary written",
			slog.String("path", meta.Path),
			slog.Int("messages", len(msgs)),
			slog.Int("decisions", len(set.Decisions)),
			slog.Int("actions", len(set.Actions)),
			slog.Int("links", len(set.Links)),
			slog.Int("questions", len(set.Questions)))
	}

	return nil
}

// channelFromPath recovers the channel name from a "<day>/<channel>.md" key.
func channelFromPath(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}
