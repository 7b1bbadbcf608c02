package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"didclient/internal/domain"
	"didclient/internal/store"
)

func TestFileStore_SaveLoad_OK(t *testing.T) {
	ctx := context.Background()
	var s domain.CredentialStore = store.NewFileStore(t.TempDir(), nil)

	if err := s.Save(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := s.Load(ctx)
	if !ok || got != "abc" {
		t.Fatalf("load = %q, %v; want abc, true", got, ok)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()

	if err := store.NewFileStore(home, nil).Save(ctx, "persisted"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := store.NewFileStore(home, nil).Load(ctx)
	if !ok || got != "persisted" {
		t.Fatalf("load after reopen = %q, %v", got, ok)
	}
}

func TestFileStore_SaveClearLoad_Absent(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileStore(t.TempDir(), nil)

	if err := s.Save(ctx, "t"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, ok := s.Load(ctx); ok {
		t.Fatalf("expected absent after clear, got %q", got)
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileStore(t.TempDir(), nil)

	for i := 0; i < 2; i++ {
		if err := s.Clear(ctx); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
	}
}

func TestFileStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileStore(t.TempDir(), nil)

	for _, tok := range []domain.Token{"first", "second"} {
		if err := s.Save(ctx, tok); err != nil {
			t.Fatalf("save %s: %v", tok, err)
		}
	}
	if got, _ := s.Load(ctx); got != "second" {
		t.Fatalf("want second, got %q", got)
	}
}

func TestFileStore_CorruptedFileReadsAbsent(t *testing.T) {
	home := t.TempDir()
	s := store.NewFileStore(home, nil)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, ok := s.Load(context.Background()); ok {
		t.Fatalf("corrupted file loaded as %q", got)
	}
}

func TestFileStore_FileMode(t *testing.T) {
	s := store.NewFileStore(t.TempDir(), nil)
	if err := s.Save(context.Background(), "t"); err != nil {
		t.Fatalf("save: %v", err)
	}
	fi, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("want 0600, got %o", fi.Mode().Perm())
	}
}

func TestFileStore_UnwritableReportsStorageUnavailable(t *testing.T) {
	// A regular file where the profile directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	s := store.NewFileStore(blocker, nil)

	err := s.Save(context.Background(), "t")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
	if _, ok := s.Load(context.Background()); ok {
		t.Fatal("unreadable store should load as absent")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	if _, ok := s.Load(ctx); ok {
		t.Fatal("fresh memory store not empty")
	}
	_ = s.Save(ctx, "m")
	if got, ok := s.Load(ctx); !ok || got != "m" {
		t.Fatalf("load = %q, %v", got, ok)
	}
	_ = s.Clear(ctx)
	if _, ok := s.Load(ctx); ok {
		t.Fatal("expected absent after clear")
	}
}
