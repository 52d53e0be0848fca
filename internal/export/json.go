package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

type stateExport struct {
	ExportedAt string      `json:"exported_at"`
	State      *game.State `json:"state"`
}

// StateToJSON dumps the full application state for offline inspection.
func StateToJSON(st *game.State, path string) error {
	out := stateExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		State:      st,
	}
	return writeJSON(out, path)
}

type eventsExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	At     string         `json:"at"`
	Fields map[string]any `json:"fields,omitempty"`
}

// EventsToJSON dumps the telemetry log.
func EventsToJSON(events []store.StoredEvent, path string) error {
	out := eventsExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(events),
	}
	for _, ev := range events {
		out.Events = append(out.Events, jsonEvent{
			ID:     ev.ID,
			Type:   ev.Type,
			At:     ev.At.UTC().Format(time.RFC3339),
			Fields: ev.Fields,
		})
	}
	return writeJSON(out, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
