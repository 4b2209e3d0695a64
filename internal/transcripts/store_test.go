package transcripts

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestTranscripts(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	store := newTestTranscripts(t)
	rec, err := store.Add("helo world", "hello world", "whisper")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Add() returned empty ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("Add() returned zero timestamp")
	}
	if rec.CleanText != "hello world" {
		t.Fatalf("CleanText = %q", rec.CleanText)
	}
}

func TestLastReturnsNewestTranscript(t *testing.T) {
	store := newTestTranscripts(t)
	if _, err := store.Add("first", "first", "whisper"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	want, err := store.Add("second", "second", "whisper")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Last()
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("Last() = %q, want %q", got.CleanText, want.CleanText)
	}
}

func TestLastOnEmptyStore(t *testing.T) {
	store := newTestTranscripts(t)
	if _, err := store.Last(); !errors.Is(err, ErrNoTranscripts) {
		t.Fatalf("Last() error = %v, want ErrNoTranscripts", err)
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	store := newTestTranscripts(t)
	texts := []string{"one", "two", "three", "four"}
	for _, s := range texts {
		if _, err := store.Add(s, s, "whisper"); err != nil {
			t.Fatalf("Add(%q) error = %v", s, err)
		}
	}

	recent, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(Recent(3)) = %d", len(recent))
	}
	if recent[0].CleanText != "four" || recent[2].CleanText != "two" {
		t.Fatalf("unexpected order: %q, %q, %q",
			recent[0].CleanText, recent[1].CleanText, recent[2].CleanText)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Fatal("Recent() not ordered newest first")
		}
	}
}

func TestRecentNonPositiveLimit(t *testing.T) {
	store := newTestTranscripts(t)
	if _, err := store.Add("x", "x", "whisper"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	recent, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0) error = %v", err)
	}
	if recent != nil {
		t.Fatalf("Recent(0) = %v, want nil", recent)
	}
}

func TestOpenIsIdempotentOnExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	want, err := store.Add("persisted", "persisted", "whisper")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Last()
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if got.ID != want.ID {
		t.Fatal("transcript lost across reopen")
	}
}
