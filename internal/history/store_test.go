package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, Entry{
			SessionID: "s" + text,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
			KeyIndex:  i,
			Model:     "gemini-2.5-flash",
			Text:      text,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Add(ctx, Entry{SessionID: "bad", StartedAt: base.Add(time.Hour), KeyIndex: -1, Error: "boom"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries", len(got))
	}
	if !got[0].Failed() || got[0].Error != "boom" {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].Text != "third" || got[2].Text != "second" {
		t.Errorf("order = %q, %q", got[1].Text, got[2].Text)
	}
	if got[1].Duration != 1500*time.Millisecond || got[1].KeyIndex != 2 {
		t.Errorf("entry = %+v", got[1])
	}
	if !got[1].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("started = %v", got[1].StartedAt)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Add(ctx, Entry{SessionID: "x", StartedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if got, _ := s.Recent(ctx, 10); len(got) != 0 {
		t.Errorf("entries after clear: %d", len(got))
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(context.Background(), Entry{SessionID: "keep", StartedAt: time.Now(), Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Recent(context.Background(), 5)
	if err != nil || len(got) != 1 || got[0].SessionID != "keep" {
		t.Fatalf("Recent = %+v, %v", got, err)
	}
}

func TestClosed(t *testing.T) {
	s := openTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if _, err := s.Add(context.Background(), Entry{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Add after close = %v", err)
	}
	if _, err := s.Recent(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Recent after close = %v", err)
	}
}
