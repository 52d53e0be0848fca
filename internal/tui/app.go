package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/export"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/logger"
	"github.com/mkovtun/habitquest/internal/store"
)

// App is the root Bubble Tea model. It owns the single application state
// and writes it through to the store after every mutation.
type App struct {
	store  *store.Store
	engine *game.Engine
	clock  game.Clock
	state  *game.State

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	confirmReset  bool

	onboarding onboardingModel
	home       homeModel
	checkin    checkinModel
	journey    journeyModel
	history    historyModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, state *game.State, clock game.Clock) App {
	h := help.New()
	h.ShowAll = false

	engine := game.NewEngine(clock)
	return App{
		store:      s,
		engine:     engine,
		clock:      clock,
		state:      state,
		activeView: viewHome,
		onboarding: newOnboardingModel(s, engine, state),
		home:       newHomeModel(s, engine, state),
		checkin:    newCheckinModel(s, engine, state),
		journey:    newJourneyModel(s, engine, state),
		history:    newHistoryModel(s, engine, state, clock),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.onboarding.Init(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) onboardingActive() bool {
	return a.state.Campaign.Status == game.StatusIdle
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.onboarding.setSize(a.width, contentHeight)
		a.home.setSize(a.width, contentHeight)
		a.checkin.setSize(a.width, contentHeight)
		a.journey.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		// The countdown and the daily evaluation both run off the shared
		// tick; the engine guards make re-invocation on every tick safe.
		if a.engine.TickJourney(a.state) {
			persist(a.store, a.state, nil)
		}
		if events := a.engine.EvaluateDay(a.state, a.clock.Today()); len(events) > 0 {
			persist(a.store, a.state, events)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case campaignStartedMsg:
		a.activeView = viewHome
		a.status = "Campaign started"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a.updateActiveView(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.exportPicking {
		return a.updateExportPicker(msg)
	}
	if a.confirmReset {
		return a.updateResetConfirm(msg)
	}

	// Onboarding captures everything except quit until the campaign starts.
	if a.onboardingActive() {
		if key.Matches(msg, keys.Quit) && !a.onboarding.formActive() {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.onboarding, cmd = a.onboarding.update(msg)
		return a, cmd
	}

	// A check-in form in flight gets the keys first.
	if a.activeView == viewCheckin && a.checkin.formActive {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Reset):
		a.confirmReset = true
		return a, nil
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewHome
		return a, nil
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewCheckin
		return a, nil
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewJourney
		return a, nil
	case key.Matches(msg, keys.Tab4):
		a.activeView = viewHistory
		return a, nil
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % 4
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewCheckin:
		a.checkin, cmd = a.checkin.update(msg)
	case viewJourney:
		a.journey, cmd = a.journey.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	}
	return a, cmd
}

func (a App) updateResetConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.state = a.engine.ResetCampaign(a.state)
		if err := a.store.DeleteState(); err != nil {
			logger.Error("delete state", "error", err)
		}
		if err := a.store.ClearEvents(); err != nil {
			logger.Error("clear events", "error", err)
		}
		persist(a.store, a.state, nil)
		a.rebindState()
		a.confirmReset = false
		a.activeView = viewHome
		a.status = "Campaign and check-ins wiped"
	default:
		a.confirmReset = false
	}
	return a, nil
}

// rebindState repoints every sub-model at the replacement state after a
// reset; everywhere else the state object is shared and mutated in place.
func (a *App) rebindState() {
	a.onboarding.state = a.state
	a.home.state = a.state
	a.checkin.state = a.state
	a.journey.state = a.state
	a.history.state = a.state
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.onboardingActive() {
		return a.renderShell(a.onboarding.view())
	}

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view()
	case viewCheckin:
		content = a.checkin.view()
	case viewJourney:
		content = a.journey.view()
	case viewHistory:
		content = a.history.view()
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}
	if a.confirmReset {
		content = a.renderResetConfirm()
	}

	return a.renderShell(content)
}

func (a App) renderShell(content string) string {
	header := a.renderHeader()
	footer := a.renderFooter()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitquest")

	if a.onboardingActive() {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator while a journey timer runs.
	timerInfo := ""
	if left := a.engine.JourneyRemaining(a.state); left > 0 {
		timerInfo = successStyle.Render(" ⏱ " + formatCountdown(left))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderResetConfirm() string {
	rows := []string{
		titleStyle.Render("Reset campaign"),
		"",
		"This wipes the campaign, every check-in and the event log.",
		"",
		mutedStyle.Render("  y: reset  any other key: cancel"),
	}
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	formats := []string{"State (JSON)", "Events (JSON)", "Check-ins (CSV)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 2 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("habitquest-state-%s.json", dateStr))
			err = export.StateToJSON(a.state, path)
		case 1:
			events, lerr := a.store.ListEvents(0)
			if lerr != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", lerr), isError: true}
			}
			path = filepath.Join(home, fmt.Sprintf("habitquest-events-%s.json", dateStr))
			err = export.EventsToJSON(events, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("habitquest-checkins-%s.csv", dateStr))
			err = export.CheckinsToCSV(a.state, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
