package archive

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/hallgrim/skald/internal/signal"
	"github.com/hallgrim/skald/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "skald-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(day, channel string, msgs int) TranscriptRow {
	return TranscriptRow{
		Day:          day,
		Channel:      channel,
		MessageCount: msgs,
		Checksum:     "cs-" + day + "-" + channel,
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM transcripts`).Scan(&count); err != nil {
		t.Fatalf("transcripts table missing: %v", err)
	}
}

func TestSplitPath(t *testing.T) {
	day, channel, ok := SplitPath("2024-03-14/dev.md")
	if !ok || day != "2024-03-14" || channel != "dev" {
		t.Errorf("SplitPath = %q %q %v", day, channel, ok)
	}
	for _, bad := range []string{"dev.md", "2024-03-14/", "2024-03-14/a/b.md", "2024-03-14/dev.txt", ""} {
		if _, _, ok := SplitPath(bad); ok {
			t.Errorf("SplitPath(%q) accepted", bad)
		}
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	r := row("2024-03-14", "dev", 12)
	r.Decisions = 2
	r.Links = 3
	if err := db.Upsert(r, "transcript body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := db.Get("2024-03-14", "dev")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.MessageCount != 12 || got.Decisions != 2 || got.Links != 3 {
		t.Errorf("row = %+v", got)
	}
}

func TestGet_Absent(t *testing.T) {
	db := testDB(t)
	got, err := db.Get("2024-03-14", "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil row, got %+v", got)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("2024-03-14", "dev", 3), "old")
	r := row("2024-03-14", "dev", 9)
	r.Checksum = "new-cs"
	if err := db.Upsert(r, "new"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	cs, _ := db.GetChecksum("2024-03-14", "dev")
	if cs != "new-cs" {
		t.Errorf("checksum = %q, want new-cs", cs)
	}
	got, _ := db.Get("2024-03-14", "dev")
	if got.MessageCount != 9 {
		t.Errorf("message_count = %d, want 9", got.MessageCount)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("2024-03-14", "dev", 5), "body")
	if err := db.Delete("2024-03-14", "dev"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cs, _ := db.GetChecksum("2024-03-14", "dev")
	if cs != "" {
		t.Errorf("deleted transcript still has checksum %q", cs)
	}
}

func TestListDaysAndListDay(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("2024-03-14", "dev", 5), "a")
	_ = db.Upsert(row("2024-03-14", "ops", 7), "b")
	_ = db.Upsert(row("2024-03-15", "dev", 2), "c")

	days, err := db.ListDays()
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	// Newest first.
	if days[0].Day != "2024-03-15" {
		t.Errorf("first day = %q", days[0].Day)
	}
	if days[1].Channels != 2 || days[1].MessageCount != 12 {
		t.Errorf("day aggregate = %+v", days[1])
	}

	rows, err := db.ListDay("2024-03-14")
	if err != nil {
		t.Fatalf("ListDay: %v", err)
	}
	if len(rows) != 2 || rows[0].Channel != "dev" || rows[1].Channel != "ops" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestStats(t *testing.T) {
	db := testDB(t)
	r := row("2024-03-14", "dev", 5)
	r.Decisions, r.Actions, r.Links, r.Questions = 1, 2, 3, 4
	_ = db.Upsert(r, "a")
	_ = db.Upsert(row("2024-03-15", "dev", 2), "b")

	s, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Days != 2 || s.Transcripts != 2 || s.Messages != 7 {
		t.Errorf("stats = %+v", s)
	}
	if s.Decisions != 1 || s.Actions != 2 || s.Links != 3 || s.Questions != 4 {
		t.Errorf("signal totals = %+v", s)
	}
}

func TestSearch_LikeFallback(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("2024-03-14", "dev", 3), "we shipped the migration")
	_ = db.Upsert(row("2024-03-14", "ops", 3), "nothing relevant")

	hits, err := db.Search("migration", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Channel != "dev" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestSync_IndexesAndPrunes(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	body := "# dev — 2024-03-14\n\n### 10:00 — alice\n\nwe decided to ship https://x.example\n\n"
	_ = store.Write("2024-03-14/dev.md", []byte(body))
	_ = store.Write("not-a-key.md", []byte("ignored"))

	if err := Sync(db, store, signal.Rules{}, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got, _ := db.Get("2024-03-14", "dev")
	if got == nil {
		t.Fatal("transcript not indexed")
	}
	if got.MessageCount != 1 || got.Decisions != 1 || got.Links != 1 {
		t.Errorf("row = %+v", got)
	}

	// Removing the file prunes the row on the next sync.
	_ = store.Delete("2024-03-14/dev.md")
	if err := Sync(db, store, signal.Rules{}, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	got, _ = db.Get("2024-03-14", "dev")
	if got != nil {
		t.Errorf("stale row survived sync: %+v", got)
	}
}

func TestSync_ChecksumIdempotent(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	store, _ := storage.NewFS(root)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = store.Write("2024-03-14/dev.md", []byte("### 10:00 — alice\n\nhi\n\n"))
	if err := Sync(db, store, signal.Rules{}, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	first, _ := db.Get("2024-03-14", "dev")

	if err := Sync(db, store, signal.Rules{}, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	second, _ := db.Get("2024-03-14", "dev")
	if !first.UpdatedAt.Equal(second.UpdatedAt) {
		t.Error("unchanged transcript was re-indexed")
	}
}
