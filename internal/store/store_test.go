package store

import (
	"testing"
	"time"

	"github.com/mkovtun/habitquest/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s := newTestStore(t)

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/habitquest.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// State document
// ============================================================

func TestLoadStateMissing(t *testing.T) {
	s := newTestStore(t)

	st, err := s.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Campaign.Status != game.StatusIdle {
		t.Fatal("missing row must load as the default state")
	}
}

func TestSaveLoadState(t *testing.T) {
	s := newTestStore(t)

	st := game.NewState()
	st.Campaign.Status = game.StatusActive
	st.Checkins["2026-03-01"] = &game.Checkin{Date: "2026-03-01", CaffDoses: 1.5, CaffType: "tea"}

	if err := s.SaveState(st); err != nil {
		t.Fatal(err)
	}

	back, err := s.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if back.Campaign.Status != game.StatusActive {
		t.Fatalf("expected active status, got %s", back.Campaign.Status)
	}
	c := back.Checkins["2026-03-01"]
	if c == nil || c.CaffDoses != 1.5 || c.CaffType != "tea" {
		t.Fatalf("check-in did not round-trip: %+v", c)
	}

	// Save again — upsert, not duplicate
	st.Campaign.Status = game.StatusFinished
	if err := s.SaveState(st); err != nil {
		t.Fatal(err)
	}
	back, _ = s.LoadState()
	if back.Campaign.Status != game.StatusFinished {
		t.Fatal("second save must overwrite the document")
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)`, stateKey, "{broken",
	); err != nil {
		t.Fatal(err)
	}

	st, err := s.LoadState()
	if err != nil {
		t.Fatal("a corrupt document must fall back, not error")
	}
	if st.Campaign.Status != game.StatusIdle {
		t.Fatal("corrupt document must load as the default state")
	}
}

func TestDeleteState(t *testing.T) {
	s := newTestStore(t)

	st := game.NewState()
	st.Campaign.Status = game.StatusActive
	s.SaveState(st)

	if err := s.DeleteState(); err != nil {
		t.Fatal(err)
	}
	back, err := s.LoadState()
	if err != nil {
		t.Fatal(err)
	}
	if back.Campaign.Status != game.StatusIdle {
		t.Fatal("deleted state must load as the default")
	}
}

// ============================================================
// Event log
// ============================================================

func TestAppendListEvents(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	batch := []game.Event{
		{Type: "activation", At: base},
		{Type: "checkin_saved", At: base.Add(time.Minute), Fields: map[string]any{"date": "2026-03-01"}},
	}
	if err := s.AppendEvents(batch); err != nil {
		t.Fatal(err)
	}

	events, err := s.ListEvents(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "activation" || events[1].Type != "checkin_saved" {
		t.Fatal("events must list oldest first")
	}
	if events[1].Fields["date"] != "2026-03-01" {
		t.Fatalf("fields did not round-trip: %v", events[1].Fields)
	}
	if events[0].ID == events[1].ID {
		t.Fatal("event ids must be unique")
	}

	limited, err := s.ListEvents(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit must apply, got %d", len(limited))
	}
}

func TestAppendEventsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppendEvents(nil); err != nil {
		t.Fatal("empty batch must be a no-op")
	}
}

func TestCountAndClearEvents(t *testing.T) {
	s := newTestStore(t)

	s.AppendEvents([]game.Event{
		{Type: "a", At: time.Now()},
		{Type: "b", At: time.Now()},
	})

	n, err := s.CountEvents()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}

	if err := s.ClearEvents(); err != nil {
		t.Fatal(err)
	}
	n, _ = s.CountEvents()
	if n != 0 {
		t.Fatalf("expected 0 after clear, got %d", n)
	}
}
