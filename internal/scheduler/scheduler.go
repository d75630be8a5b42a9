// Package scheduler runs the collect and summarize pipeline on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"

	"github.com/hallgrim/skald/internal/models"
	"github.com/hallgrim/skald/internal/pipeline"
	"github.com/hallgrim/skald/internal/source"
)

// Scheduler fires the pipeline whenever the cron expression is due.
// Ticks align to minute boundaries; a due tick runs collect for every
// configured source and then summarizes the collected day.
type Scheduler struct {
	expr     string
	pipe     *pipeline.Pipeline
	sources  []SourceChannels
	logger   *slog.Logger
	interval time.Duration // overridable in tests
}

// SourceChannels binds a message source to the channels collected from it.
type SourceChannels struct {
	Source   source.Source
	Channels []models.Channel
}

// New validates the cron expression and creates a scheduler.
func New(expr string, pipe *pipeline.Pipeline, sources []SourceChannels, logger *slog.Logger) (*Scheduler, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("scheduler: invalid cron expression %q", expr)
	}
	return &Scheduler{
		expr:     expr,
		pipe:     pipe,
		sources:  sources,
		logger:   logger,
		interval: time.Minute,
	}, nil
}

// Run blocks until ctx is cancelled, checking the expression once per tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler: started", slog.String("cron", s.expr))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return ctx.Err()
		case now := <-ticker.C:
			due, err := gronx.New().IsDue(s.expr, now)
			if err != nil {
				s.logger.Error("scheduler: due check failed", slog.String("error", err.Error()))
				continue
			}
			if !due {
				continue
			}
			s.RunOnce(ctx, now)
		}
	}
}

// RunOnce collects every source and summarizes the collected day. Source
// failures are logged; the remaining sources still run.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) {
	day := ""
	for _, sc := range s.sources {
		w, err := s.pipe.Collect(ctx, sc.Source, sc.Channels, now)
		if err != nil {
			s.logger.Error("scheduler: collect failed",
				slog.String("source", sc.Source.Name()),
				slog.String("error", err.Error()))
			continue
		}
		day = w.Label
	}
	if day == "" {
		return
	}
	if err := s.pipe.Summarize(day, now); err != nil {
		s.logger.Error("scheduler: summarize failed",
			slog.String("day", day),
			slog.String("error", err.Error()))
	}
}
