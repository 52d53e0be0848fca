package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

// journeyModel drives the linear journey mode: one level at a time, an
// answer per level, explicit completion once the level is ready.
type journeyModel struct {
	store  *store.Store
	engine *game.Engine
	state  *game.State
	width  int
	height int

	cursor int
}

func newJourneyModel(s *store.Store, engine *game.Engine, state *game.State) journeyModel {
	return journeyModel{store: s, engine: engine, state: state}
}

func (m *journeyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m journeyModel) update(msg tea.Msg) (journeyModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	lvl := game.CurrentJourneyLevel(m.state)
	if lvl == nil {
		return m, nil
	}

	options := game.JourneyOptions(m.state, lvl)

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Interact):
		m.interact(lvl, options)
		persist(m.store, m.state, nil)
	case key.Matches(keyMsg, keys.Enter):
		if events := m.engine.CompleteJourneyLevel(m.state); events != nil {
			persist(m.store, m.state, events)
			m.cursor = 0
			return m, func() tea.Msg { return statusMsg{text: "Level complete"} }
		}
	}
	return m, nil
}

// interact applies the space-bar action for the level's kind: press the
// button, start the countdown, or toggle/choose an option.
func (m journeyModel) interact(lvl *game.JourneyLevel, options []string) {
	switch lvl.Kind {
	case game.JourneyAction:
		m.engine.SetJourneyAnswer(m.state, lvl.ID, game.JourneyAnswer{
			Kind:    game.JourneyAction,
			Pressed: true,
		})

	case game.JourneyTimer:
		m.engine.StartJourneyTimer(m.state)

	case game.JourneyMultiSelect:
		if m.cursor >= len(options) {
			return
		}
		selected := []string{}
		if a := m.state.Journey.Answers[lvl.ID]; a != nil {
			selected = a.Selected
		}
		selected = toggle(selected, options[m.cursor])
		m.engine.SetJourneyAnswer(m.state, lvl.ID, game.JourneyAnswer{
			Kind:     game.JourneyMultiSelect,
			Selected: selected,
		})

	case game.JourneySingleSelect:
		if m.cursor >= len(options) {
			return
		}
		m.engine.SetJourneyAnswer(m.state, lvl.ID, game.JourneyAnswer{
			Kind:   game.JourneySingleSelect,
			Choice: options[m.cursor],
		})

	case game.JourneyQuiz:
		if m.cursor >= len(options) {
			return
		}
		m.engine.SetJourneyAnswer(m.state, lvl.ID, game.JourneyAnswer{
			Kind:   game.JourneyQuiz,
			Choice: options[m.cursor],
		})
	}
}

func toggle(set []string, item string) []string {
	for i, s := range set {
		if s == item {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, item)
}

func (m journeyModel) view() string {
	w := m.width - 4

	lvl := game.CurrentJourneyLevel(m.state)
	if lvl == nil {
		rows := []string{
			titleStyle.Render("Journey complete"),
			"",
			fmt.Sprintf("All %d levels done. The campaign is where the run continues.", len(game.JourneyLevels)),
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	var rows []string
	rows = append(rows, titleStyle.Render(lvl.Title))
	rows = append(rows, subtitleStyle.Render(lvl.Subtitle))
	rows = append(rows, "")
	rows = append(rows, m.levelBody(lvl)...)
	rows = append(rows, "")

	ready := game.JourneyReady(m.state, m.engine.Clock().Now())
	if ready {
		rows = append(rows, successStyle.Render("Ready — press enter to continue"))
	} else {
		rows = append(rows, mutedStyle.Render(m.hint(lvl)))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m journeyModel) levelBody(lvl *game.JourneyLevel) []string {
	switch lvl.Kind {
	case game.JourneyAction:
		label := "[ " + lvl.ButtonLabel + " ]"
		if a := m.state.Journey.Answers[lvl.ID]; a != nil && a.Pressed {
			return []string{successStyle.Bold(true).Render(label)}
		}
		return []string{selectedItemStyle.Render(label)}

	case game.JourneyTimer:
		if a := m.state.Journey.Answers[lvl.ID]; a != nil && a.FinishedAt != nil {
			return []string{successStyle.Bold(true).Render("Done.")}
		}
		if m.state.Journey.TimerStart != nil {
			left := m.engine.JourneyRemaining(m.state)
			return []string{timerStyle.Render(formatCountdown(left))}
		}
		return []string{timerStyle.Render(formatCountdown(lvl.DurationSec))}

	case game.JourneyQuiz:
		var rows []string
		for _, b := range lvl.Bullets {
			rows = append(rows, "  • "+b)
		}
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render(lvl.Question))
		rows = append(rows, m.optionRows(lvl)...)
		if a := m.state.Journey.Answers[lvl.ID]; a != nil && a.Choice != "" && a.Choice != lvl.Correct {
			rows = append(rows, warningStyle.Render("  Not quite — try again."))
		}
		return rows

	default: // multi and single select
		return m.optionRows(lvl)
	}
}

func (m journeyModel) optionRows(lvl *game.JourneyLevel) []string {
	options := game.JourneyOptions(m.state, lvl)
	a := m.state.Journey.Answers[lvl.ID]

	chosen := func(opt string) bool {
		if a == nil {
			return false
		}
		if a.Choice == opt {
			return true
		}
		for _, s := range a.Selected {
			if s == opt {
				return true
			}
		}
		return false
	}

	var rows []string
	for i, opt := range options {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := "[ ] "
		if chosen(opt) {
			mark = "[x] "
		}
		rows = append(rows, style.Render(cursor+mark+opt))
	}
	return rows
}

func (m journeyModel) hint(lvl *game.JourneyLevel) string {
	switch lvl.Kind {
	case game.JourneyAction:
		return "space: press the button"
	case game.JourneyTimer:
		if m.state.Journey.TimerStart != nil {
			return "counting down, hold on"
		}
		return "space: start the countdown"
	case game.JourneyMultiSelect:
		return fmt.Sprintf("space: toggle — pick at least %d", lvl.MinSelected)
	case game.JourneySingleSelect:
		return "space: choose one"
	case game.JourneyQuiz:
		return "space: answer"
	}
	return ""
}
