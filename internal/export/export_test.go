package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

func sampleState() *game.State {
	s := game.NewState()
	s.Campaign.Status = game.StatusActive
	s.Checkins["2026-03-02"] = &game.Checkin{
		Date: "2026-03-02", CaffDoses: 1, CaffType: "tea", Pushups: 20,
	}
	s.Checkins["2026-03-01"] = &game.Checkin{
		Date: "2026-03-01", P: true, CaffDoses: 2.5, CaffType: "coffee", Locked: true,
	}
	return s
}

func TestStateToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := StateToJSON(sampleState(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ExportedAt string      `json:"exported_at"`
		State      *game.State `json:"state"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if out.ExportedAt == "" {
		t.Fatal("missing exported_at stamp")
	}
	if out.State.Campaign.Status != game.StatusActive {
		t.Fatal("state did not survive the export")
	}
	if len(out.State.Checkins) != 2 {
		t.Fatalf("expected 2 check-ins, got %d", len(out.State.Checkins))
	}
}

func TestEventsToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	events := []store.StoredEvent{
		{ID: "1", Type: "activation", At: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Type: "checkin_saved", At: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Fields: map[string]any{"date": "2026-03-01"}},
	}
	if err := EventsToJSON(events, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Count  int `json:"count"`
		Events []struct {
			Type   string         `json:"type"`
			At     string         `json:"at"`
			Fields map[string]any `json:"fields"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("expected 2 events, got count=%d len=%d", out.Count, len(out.Events))
	}
	if out.Events[1].Fields["date"] != "2026-03-01" {
		t.Fatal("event fields did not survive the export")
	}
}

func TestCheckinsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkins.csv")
	if err := CheckinsToCSV(sampleState(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	// Oldest date first
	if rows[1][0] != "2026-03-01" || rows[2][0] != "2026-03-02" {
		t.Fatalf("rows must sort by date: %v / %v", rows[1][0], rows[2][0])
	}
	if rows[1][1] != "true" || rows[1][7] != "2.5" || rows[1][14] != "true" {
		t.Fatalf("row values wrong: %v", rows[1])
	}
}

func TestExportEmptyState(t *testing.T) {
	dir := t.TempDir()

	if err := CheckinsToCSV(game.NewState(), filepath.Join(dir, "empty.csv")); err != nil {
		t.Fatal(err)
	}
	if err := EventsToJSON(nil, filepath.Join(dir, "empty.json")); err != nil {
		t.Fatal(err)
	}
}
