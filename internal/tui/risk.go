package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
)

// The level-completion flow: first an explicit finish (which locks the
// completion date's check-in), then a mood self-report gating the Safe/Fast
// choice.

func (m homeModel) updateRisk(msg tea.Msg) (homeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state.Campaign.PendingCompletion && !m.state.Campaign.AwaitingRiskChoice {
		if key.Matches(keyMsg, keys.Enter) {
			events := m.engine.FinishLevel(m.state)
			persist(m.store, m.state, events)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "1":
		m.engine.SetRiskMood(m.state, game.MoodEasy)
		persist(m.store, m.state, nil)
	case "2":
		m.engine.SetRiskMood(m.state, game.MoodOK)
		persist(m.store, m.state, nil)
	case "3":
		m.engine.SetRiskMood(m.state, game.MoodEdge)
		persist(m.store, m.state, nil)
	}

	switch {
	case key.Matches(keyMsg, keys.Safe):
		if events := m.engine.ApplyTransition(m.state, game.TransitionSafe); events != nil {
			persist(m.store, m.state, events)
			return m, func() tea.Msg { return statusMsg{text: "Safe transition"} }
		}
	case key.Matches(keyMsg, keys.Fast):
		if events := m.engine.ApplyTransition(m.state, game.TransitionFast); events != nil {
			persist(m.store, m.state, events)
			return m, func() tea.Msg { return statusMsg{text: "Fast transition"} }
		}
	}
	return m, nil
}

func (m homeModel) viewPendingCompletion() string {
	w := m.width - 4
	rows := []string{
		titleStyle.Render("Level cleared"),
		"",
		"The goal is met. Lock it in to move on — today's check-in",
		"becomes immutable once you do.",
		"",
		mutedStyle.Render("  enter: finish level"),
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m homeModel) viewRiskChoice() string {
	w := m.width - 4
	mood := m.state.Campaign.RiskMood

	chip := func(label string, val game.RiskMood) string {
		if mood == val {
			return selectedItemStyle.Render("[" + label + "]")
		}
		return normalItemStyle.Render(" " + label + " ")
	}

	moodRow := lipgloss.JoinHorizontal(lipgloss.Top,
		chip("1 Easy", game.MoodEasy), "  ",
		chip("2 OK", game.MoodOK), "  ",
		chip("3 On the edge", game.MoodEdge),
	)

	transitionHint := mutedStyle.Render("  pick a mood first")
	if mood != "" {
		transitionHint = mutedStyle.Render("  s: Safe (next level from zero)  f: Fast (carry today if it counts)")
	}

	rows := []string{
		titleStyle.Render("How are you holding up?"),
		"",
		moodRow,
		"",
		"Choose how to enter the next level:",
		transitionHint,
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
