//go:build sqlite_fts5

package archive

import (
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM transcripts_fts`).Scan(&count); err != nil {
		t.Fatalf("transcripts_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := TranscriptRow{
		Day:          "2026-02-10",
		Channel:      "general",
		MessageCount: 4,
		Checksum:     "f1",
		UpdatedAt:    time.Now(),
	}
	if err := db.Upsert(row, "we agreed the migration happens next sprint"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := db.Search("migration", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Day != "2026-02-10" || results[0].Channel != "general" {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(TranscriptRow{Day: "2026-02-10", Channel: "gone", Checksum: "g", UpdatedAt: time.Now()}, "vanishing content")
	_ = db.Delete("2026-02-10", "gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Channel == "gone" {
			t.Error("deleted transcript still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.Upsert(TranscriptRow{Day: "2026-02-10", Channel: "evo", Checksum: "1", UpdatedAt: now}, "original text")
	_ = db.Upsert(TranscriptRow{Day: "2026-02-10", Channel: "evo", Checksum: "2", UpdatedAt: now}, "replacement text")

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 {
		t.Errorf("FTS not updated: %+v", results)
	}
}
