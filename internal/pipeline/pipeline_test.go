package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hallgrim/skald/internal/models"
	"github.com/hallgrim/skald/internal/signal"
	"github.com/hallgrim/skald/internal/storage"
)

// fakeSource serves canned messages per channel ID and can fail on demand.
type fakeSource struct {
	messages map[string][]models.RawMessage
	failOn   map[string]bool
	calls    []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchMessages(_ context.Context, channelID string, _, _ time.Time) ([]models.RawMessage, error) {
	f.calls = append(f.calls, channelID)
	if f.failOn[channelID] {
		return nil, errors.New("boom")
	}
	return f.messages[channelID], nil
}

func testPipeline(t *testing.T) (*Pipeline, storage.Provider, storage.Provider) {
	t.Helper()
	transcripts, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	summaries, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(transcripts, summaries, signal.Rules{}, logger), transcripts, summaries
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 14, hour, minute, 0, 0, time.Local)
}

func TestCollect_WritesLabeledTranscript(t *testing.T) {
	p, transcripts, _ := testPipeline(t)
	src := &fakeSource{messages: map[string][]models.RawMessage{
		"c1": {
			{ID: "1", CreatedAt: at(10, 0), UserID: "u1", DisplayName: "alice", Content: "hello"},
			{ID: "2", CreatedAt: at(11, 30), UserID: "u2", DisplayName: "bob", Content: "world"},
		},
	}}
	channels := []models.Channel{{ID: "c1", Name: "dev"}}

	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.Local)
	w, err := p.Collect(context.Background(), src, channels, now)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if w.Label != "2024-03-14" {
		t.Errorf("label = %q", w.Label)
	}

	data, err := transcripts.Read("2024-03-14/dev.md")
	if err != nil {
		t.Fatalf("transcript missing: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "### 10:00 — alice") || !strings.Contains(text, "### 11:30 — bob") {
		t.Errorf("transcript content:\n%s", text)
	}
}

func TestCollect_FiltersToWindowInstants(t *testing.T) {
	p, transcripts, _ := testPipeline(t)
	// The upstream day range includes instants outside [after, before);
	// those must be dropped.
	src := &fakeSource{messages: map[string][]models.RawMessage{
		"c1": {
			{ID: "1", CreatedAt: at(2, 0), UserID: "u1", Content: "too early"},   // before 03:45 on the 14th
			{ID: "2", CreatedAt: at(12, 0), UserID: "u1", Content: "in window"},
			{ID: "3", CreatedAt: time.Date(2024, 3, 15, 3, 30, 0, 0, time.Local), UserID: "u1", Content: "too late"},
		},
	}}
	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.Local)
	if _, err := p.Collect(context.Background(), src, []models.Channel{{ID: "c1", Name: "dev"}}, now); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	data, _ := transcripts.Read("2024-03-14/dev.md")
	text := string(data)
	if strings.Contains(text, "too early") || strings.Contains(text, "too late") {
		t.Errorf("window not enforced:\n%s", text)
	}
	if !strings.Contains(text, "in window") {
		t.Errorf("in-window message missing:\n%s", text)
	}
}

func TestCollect_FailedChannelDoesNotAbortRun(t *testing.T) {
	p, transcripts, _ := testPipeline(t)
	src := &fakeSource{
		messages: map[string][]models.RawMessage{
			"c2": {{ID: "1", CreatedAt: at(9, 0), UserID: "u1", Content: "fine"}},
		},
		failOn: map[string]bool{"c1": true},
	}
	channels := []models.Channel{{ID: "c1", Name: "broken"}, {ID: "c2", Name: "dev"}}

	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.Local)
	if _, err := p.Collect(context.Background(), src, channels, now); err != nil {
		t.Fatalf("Collect must not propagate per-channel errors: %v", err)
	}
	if len(src.calls) != 2 {
		t.Errorf("calls = %v, want both channels attempted", src.calls)
	}
	if _, err := transcripts.Read("2024-03-14/dev.md"); err != nil {
		t.Errorf("healthy channel should still be written: %v", err)
	}
	if _, err := transcripts.Read("2024-03-14/broken.md"); err == nil {
		t.Error("failed channel must be absent from the day's output")
	}
}

func writeTranscript(t *testing.T, store storage.Provider, day, channel string, contents []string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("# " + channel + " — " + day + "\n\n")
	for i, c := range contents {
		b.WriteString("### 10:0" + string(rune('0'+i)) + " — alice\n\n" + c + "\n\n")
	}
	if err := store.Write(storage.DayChannelPath(day, channel), []byte(b.String())); err != nil {
		t.Fatal(err)
	}
}

func TestSummarize_SkipRule(t *testing.T) {
	p, transcripts, summaries := testPipeline(t)
	writeTranscript(t, transcripts, "2024-03-14", "quiet", []string{"one", "two"})
	writeTranscript(t, transcripts, "2024-03-14", "busy", []string{"we decided to ship", "todo: docs", "https://x.example"})

	if err := p.Summarize("2024-03-14", time.Now()); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if _, err := summaries.Read("2024-03-14/quiet.md"); err == nil {
		t.Error("channel with 2 messages must produce no summary file")
	}
	if _, err := summaries.Read("2024-03-14/busy.md"); err != nil {
		t.Errorf("channel with 3 messages must produce a summary: %v", err)
	}
}

func TestSummarize_RenderedContent(t *testing.T) {
	p, transcripts, summaries := testPipeline(t)
	writeTranscript(t, transcripts, "2024-03-14", "dev", []string{
		"we decided to ship on friday",
		"todo: update the runbook",
		"is the rollout staged?",
	})

	if err := p.Summarize("2024-03-14", time.Now()); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	data, err := summaries.Read("2024-03-14/dev.md")
	if err != nil {
		t.Fatalf("summary missing: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "# Summary — dev\n\n3 messages collected.") {
		t.Errorf("summary header:\n%s", out)
	}
	for _, want := range []string{"## Decisions", "## Action Items", "## Open Questions"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Links Shared") {
		t.Error("empty links category must be omitted")
	}
}

func TestSummarize_DefaultsToToday(t *testing.T) {
	p, transcripts, summaries := testPipeline(t)
	now := time.Date(2024, 3, 14, 10, 0, 0, 0, time.Local)
	writeTranscript(t, transcripts, "2024-03-14", "dev", []string{"a?", "b", "c"})

	if err := p.Summarize("", now); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if _, err := summaries.Read("2024-03-14/dev.md"); err != nil {
		t.Errorf("today's summary missing: %v", err)
	}
}

func TestSummarize_MissingDayFails(t *testing.T) {
	p, _, _ := testPipeline(t)
	if err := p.Summarize("1999-01-01", time.Now()); err == nil {
		t.Error("listing a nonexistent day should fail the run")
	}
}
