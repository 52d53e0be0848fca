package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/logger"
	"github.com/mkovtun/habitquest/internal/store"
)

// historyModel charts the last week of exertion counters and shows the
// pass/fail strip for the active level's predicate.
type historyModel struct {
	store  *store.Store
	engine *game.Engine
	state  *game.State
	clock  game.Clock
	width  int
	height int

	chart      barchart.Model
	eventCount int
}

func newHistoryModel(s *store.Store, engine *game.Engine, state *game.State, clock game.Clock) historyModel {
	return historyModel{
		store:  s,
		engine: engine,
		state:  state,
		clock:  clock,
		chart:  barchart.New(60, 10),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.refresh()
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		// Cheap to rebuild; keeps the chart current after check-in edits.
		m.refresh()
	}
	return m, nil
}

func (m *historyModel) refresh() {
	m.buildChart()

	count, err := m.store.CountEvents()
	if err != nil {
		logger.Error("count events", "error", err)
		count = 0
	}
	m.eventCount = count
}

func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	today, err := time.Parse(game.DateFormat, m.clock.Today())
	if err != nil {
		return
	}

	var bars []barchart.BarData
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		if c := m.state.Checkins[d.Format(game.DateFormat)]; c != nil {
			values = []barchart.BarValue{
				{Name: "pushups", Value: float64(c.Pushups), Style: lipgloss.NewStyle().Foreground(colorPrimary)},
				{Name: "squats", Value: float64(c.Squats), Style: lipgloss.NewStyle().Foreground(colorHighlight)},
				{Name: "abs", Value: float64(c.Abs), Style: lipgloss.NewStyle().Foreground(colorSuccess)},
			}
		} else {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render("exertion, last 7 days"),
	)

	legend := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(colorPrimary).Render("■ pushups"), "  ",
		lipgloss.NewStyle().Foreground(colorHighlight).Render("■ squats"), "  ",
		lipgloss.NewStyle().Foreground(colorSuccess).Render("■ abs"),
	)

	strip := m.renderStrip()

	footer := mutedStyle.Render(fmt.Sprintf("%d check-ins recorded  ·  %d events logged  ·  e: export",
		len(m.state.Checkins), m.eventCount))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", m.chart.View(), "", legend, "", strip, "", footer,
	))
}

// renderStrip shows two weeks of predicate outcomes for the active level.
func (m historyModel) renderStrip() string {
	days := m.engine.History(m.state, 14)
	if days == nil {
		return mutedStyle.Render("No active level to evaluate against.")
	}

	out := titleStyle.Render("Goal days: ")
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
