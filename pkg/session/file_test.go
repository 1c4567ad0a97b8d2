package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sess := New(time.Hour)

	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("stored session not found")
	}
	if got.Hash() != sess.Hash() {
		t.Error("graph changed across file round trip")
	}
}

func TestFileStoreMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("missing session should come back nil, nil")
	}
}

func TestFileStoreExpiredRemovedOnGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	sess := New(time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("expired session should come back nil, nil")
	}
	if _, err := os.Stat(filepath.Join(dir, sess.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed on read")
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sess := New(time.Hour)

	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("deleted session still retrievable")
	}
	if err := store.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	live := New(time.Hour)
	dead := New(time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, live); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, dead); err != nil {
		t.Fatal(err)
	}

	// Corrupt files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session removed by cleanup")
	}
	if _, err := os.Stat(filepath.Join(dir, dead.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed by cleanup")
	}
}
