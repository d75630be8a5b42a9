// Package summaryservice is the read side shared by the HTTP API and the
// MCP server: it joins the transcript and summary file trees with the
// archive index.
package summaryservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/archive"
	"github.com/hallgrim/skald/internal/storage"
	"github.com/hallgrim/skald/internal/transcript"
)

// TranscriptDetail is the full representation of one channel's day.
type TranscriptDetail struct {
	Day          string    `json:"day"`
	Channel      string    `json:"channel"`
	Content      string    `json:"content"`
	MessageCount int       `json:"message_count"`
	Decisions    int       `json:"decisions"`
	Actions      int       `json:"actions"`
	Links        int       `json:"links"`
	Questions    int       `json:"questions"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SummaryDetail is one rendered summary document.
type SummaryDetail struct {
	Day     string `json:"day"`
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// Service coordinates storage and archive operations.
type Service struct {
	transcripts storage.Provider
	summaries   storage.Provider
	db          archive.TranscriptIndex
}

// NewService creates a new summary service.
func NewService(transcripts, summaries storage.Provider, db archive.TranscriptIndex) *Service {
	return &Service{transcripts: transcripts, summaries: summaries, db: db}
}

// GetTranscript reads a transcript from storage and enriches it with the
// archive row when one exists.
func (s *Service) GetTranscript(_ context.Context, day, channel string) (*TranscriptDetail, error) {
	path := storage.DayChannelPath(day, channel)
	data, err := s.transcripts.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	detail := &TranscriptDetail{
		Day:          day,
		Channel:      channel,
		Content:      string(data),
		MessageCount: len(transcript.Decode(string(data))),
	}
	if row, err := s.db.Get(day, channel); err == nil && row != nil {
		detail.Decisions = row.Decisions
		detail.Actions = row.Actions
		detail.Links = row.Links
		detail.Questions = row.Questions
		detail.UpdatedAt = row.UpdatedAt
	}
	return detail, nil
}

// GetSummary reads a rendered summary document.
func (s *Service) GetSummary(_ context.Context, day, channel string) (*SummaryDetail, error) {
	data, err := s.summaries.Read(storage.DayChannelPath(day, channel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &SummaryDetail{Day: day, Channel: channel, Content: string(data)}, nil
}

// ListDays returns per-day aggregates, newest first.
func (s *Service) ListDays(_ context.Context) ([]archive.DaySummary, error) {
	days, err := s.db.ListDays()
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []archive.DaySummary{}
	}
	return days, nil
}

// ListDay returns every channel row indexed for one day.
func (s *Service) ListDay(_ context.Context, day string) ([]archive.TranscriptRow, error) {
	rows, err := s.db.ListDay(day)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrNotFound
	}
	return rows, nil
}

// Search runs a full-text query over transcript bodies.
func (s *Service) Search(_ context.Context, query string, limit int) ([]archive.SearchResult, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []archive.SearchResult{}
	}
	return results, nil
}

// Stats aggregates the whole archive.
func (s *Service) Stats(_ context.Context) (archive.Stats, error) {
	return s.db.Stats()
}
