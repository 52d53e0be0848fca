package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkovtun/habitquest/internal/game"
)

// StoredEvent is one telemetry row as persisted.
type StoredEvent struct {
	ID     string
	Type   string
	At     time.Time
	Fields map[string]any
}

// AppendEvents persists a batch of telemetry events emitted by a
// transition. An empty batch is a no-op.
func (s *Store) AppendEvents(events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	defer tx.Rollback()

	for _, ev := range events {
		fields, err := json.Marshal(ev.Fields)
		if err != nil {
			return fmt.Errorf("encode event fields: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO events (id, type, at, fields) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), ev.Type, ev.At.UTC().Format(time.RFC3339), string(fields),
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// ListEvents returns events oldest first, all of them when limit <= 0.
func (s *Store) ListEvents(limit int) ([]StoredEvent, error) {
	query := `SELECT id, type, at, fields FROM events ORDER BY at, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		var at, fields string
		if err := rows.Scan(&ev.ID, &ev.Type, &at, &fields); err != nil {
			return nil, err
		}
		ev.At, _ = time.Parse(time.RFC3339, at)
		if err := json.Unmarshal([]byte(fields), &ev.Fields); err != nil {
			ev.Fields = nil
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) CountEvents() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ClearEvents wipes the telemetry log, used by campaign reset.
func (s *Store) ClearEvents() error {
	_, err := s.db.Exec(`DELETE FROM events`)
	return err
}
