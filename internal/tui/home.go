package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

// homeModel shows the active level and its progress. While a completion or
// risk choice is pending it hands over to the corresponding screen.
type homeModel struct {
	store  *store.Store
	engine *game.Engine
	state  *game.State
	width  int
	height int
}

func newHomeModel(s *store.Store, engine *game.Engine, state *game.State) homeModel {
	return homeModel{store: s, engine: engine, state: state}
}

func (m *homeModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	if m.state.Campaign.AwaitingRiskChoice || m.state.Campaign.PendingCompletion {
		return m.updateRisk(msg)
	}
	return m, nil
}

func (m homeModel) view() string {
	if m.state.Campaign.AwaitingRiskChoice {
		return m.viewRiskChoice()
	}
	if m.state.Campaign.PendingCompletion {
		return m.viewPendingCompletion()
	}
	if m.state.Campaign.Status == game.StatusFinished {
		return m.viewFinished()
	}
	return m.viewRunning()
}

func (m homeModel) viewRunning() string {
	w := m.width - 4

	lvl := game.CurrentLevel(m.state)
	if lvl == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No active level."))
	}

	title := titleStyle.Render(fmt.Sprintf("Level %d/%d", lvl.Index, len(m.state.Campaign.Levels)))

	levelCard := lipgloss.JoinVertical(lipgloss.Left,
		highlightStyle.Bold(true).Render(lvl.Title),
		subtitleStyle.Render(game.TrackLabel(lvl.TrackID)),
		"",
		fmt.Sprintf("%d/%d days  %s", lvl.ProgressDays, lvl.TargetDays,
			successStyle.Render(progressBar(lvl.ProgressDays, lvl.TargetDays, 24))),
	)

	today := m.engine.TodayCheckin(m.state)
	status := "Not filled"
	switch {
	case today != nil && today.Locked:
		status = "Filled and locked"
	case today != nil:
		status = "Filled"
	}
	checkinLine := fmt.Sprintf("%s %s", titleStyle.Render("Today's check-in:"), status)

	history := m.renderHistoryStrip()

	hints := mutedStyle.Render("  2: check-in  e: export  R: reset")

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", levelCard, "", checkinLine, "",
		titleStyle.Render("Last 7 days:"), history, "", hints,
	))
}

func (m homeModel) renderHistoryStrip() string {
	days := m.engine.History(m.state, 7)
	out := ""
	for _, d := range days {
		switch d.Status {
		case game.DayPass:
			out += successStyle.Render("✓ ")
		case game.DayFail:
			out += errorStyle.Render("✗ ")
		default:
			out += mutedStyle.Render("· ")
		}
	}
	return out
}

func (m homeModel) viewFinished() string {
	w := m.width - 4

	completed := 0
	for _, lvl := range m.state.Campaign.Levels {
		if lvl.Completed {
			completed++
		}
	}

	rows := []string{
		titleStyle.Render("Campaign finished"),
		"",
		fmt.Sprintf("Levels completed: %d/%d", completed, len(m.state.Campaign.Levels)),
		"",
		mutedStyle.Render("  R: reset and start over"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
