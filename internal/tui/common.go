package tui

import (
	"fmt"
	"time"

	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/logger"
	"github.com/mkovtun/habitquest/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewCheckin
	viewJourney
	viewHistory
)

var viewNames = []string{"Home", "Check-in", "Journey", "History"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type campaignStartedMsg struct{}

// --- Persistence ---

// persist writes the state document through and appends the transition's
// telemetry. Both are fire-and-forget from the core's point of view;
// failures only get logged.
func persist(s *store.Store, st *game.State, events []game.Event) {
	if err := s.SaveState(st); err != nil {
		logger.Error("save state", "error", err)
	}
	if err := s.AppendEvents(events); err != nil {
		logger.Error("append events", "error", err)
	}
}

// --- Helpers ---

func formatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func progressBar(progress, target, width int) string {
	if target <= 0 || width <= 0 {
		return ""
	}
	filled := progress * width / target
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}
