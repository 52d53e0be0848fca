package store

import (
	"database/sql"
	"fmt"

	"github.com/mkovtun/habitquest/internal/game"
)

const stateKey = "game_state"

// LoadState returns the persisted state document. A missing row or a
// corrupt document falls back to the default state; only a real query
// failure is reported.
func (s *Store) LoadState() (*game.State, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, stateKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return game.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return game.DecodeState([]byte(raw)), nil
}

// SaveState writes the whole state document through to disk.
func (s *Store) SaveState(st *game.State) error {
	data, err := game.EncodeState(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		stateKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// DeleteState removes the persisted document, used by campaign reset.
func (s *Store) DeleteState() error {
	_, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, stateKey)
	return err
}
