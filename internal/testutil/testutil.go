// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/hallgrim/skald/internal/archive"
	"github.com/hallgrim/skald/internal/storage"
)

// TempDB opens an archive database in a temp directory and closes it when the
// test ends.
func TempDB(t *testing.T) *archive.DB {
	t.Helper()
	db, err := archive.Open(filepath.Join(t.TempDir(), "skald.db"))
	if err != nil {
		t.Fatalf("open archive db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TempStore creates an FS provider rooted in a fresh temp directory.
func TempStore(t *testing.T) *storage.FS {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("create fs provider: %v", err)
	}
	return store
}
