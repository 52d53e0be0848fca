package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

// onboardingModel walks intro -> assessment -> difficulty and then starts
// the campaign. It replaces the tab content until the campaign is active.
type onboardingModel struct {
	store  *store.Store
	engine *game.Engine
	state  *game.State
	width  int
	height int

	form *huh.Form

	// Form values as pointers (survive value copies)
	nofap      *int
	caffeine   *int
	strength   *int
	difficulty *string
}

func newOnboardingModel(s *store.Store, engine *game.Engine, state *game.State) onboardingModel {
	n, c, st := 0, 0, 0
	d := ""
	m := onboardingModel{
		store:      s,
		engine:     engine,
		state:      state,
		nofap:      &n,
		caffeine:   &c,
		strength:   &st,
		difficulty: &d,
	}
	m.buildForm()
	return m
}

func (m *onboardingModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m onboardingModel) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

func (m onboardingModel) formActive() bool {
	return m.form != nil
}

// buildForm constructs the huh form for the current onboarding step; the
// intro step has none.
func (m *onboardingModel) buildForm() {
	switch m.state.Onboarding.Step {
	case game.StepAssessment:
		m.form = huh.NewForm(
			huh.NewGroup(
				scoreSelect("NoFap", "0 = never an issue, 4 = often", m.nofap),
				scoreSelect("Caffeine", "0 = rarely, 4 = a lot and late", m.caffeine),
				scoreSelect("Strength", "0 = nothing, 4 = consistent already", m.strength),
			).Title("Rate yourself 0-4"),
		).WithShowHelp(true).WithShowErrors(true)
	case game.StepDifficulty:
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Difficulty").
					Description("Chosen once. It shapes the whole campaign.").
					Options(
						huh.NewOption("Easy", string(game.DifficultyEasy)),
						huh.NewOption("Medium", string(game.DifficultyMedium)),
						huh.NewOption("Hard", string(game.DifficultyHard)),
					).Value(m.difficulty),
			).Title("Pick a difficulty"),
		).WithShowHelp(true).WithShowErrors(true)
	default:
		m.form = nil
	}
}

func scoreSelect(title, desc string, value *int) *huh.Select[int] {
	opts := make([]huh.Option[int], 5)
	for i := 0; i < 5; i++ {
		opts[i] = huh.NewOption(fmt.Sprintf("%d", i), i)
	}
	return huh.NewSelect[int]().Title(title).Description(desc).Options(opts...).Value(value)
}

func (m onboardingModel) update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	// Intro step.
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			m.state.Onboarding.Step = game.StepAssessment
			persist(m.store, m.state, nil)
			m.buildForm()
			return m, m.form.Init()
		}
	}
	return m, nil
}

func (m onboardingModel) updateForm(msg tea.Msg) (onboardingModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state.Onboarding.Step {
	case game.StepAssessment:
		m.state.Onboarding.Assessment = game.Assessment{
			game.TrackNoFap:    *m.nofap,
			game.TrackCaffeine: *m.caffeine,
			game.TrackStrength: *m.strength,
		}
		m.state.Onboarding.Step = game.StepDifficulty
		persist(m.store, m.state, nil)
		m.buildForm()
		return m, m.form.Init()

	case game.StepDifficulty:
		m.state.Onboarding.Difficulty = game.Difficulty(*m.difficulty)
		events, err := m.engine.StartCampaign(m.state)
		if err != nil {
			// Shouldn't happen with a completed form; surface and retry.
			m.buildForm()
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Cannot start: %v", err), isError: true}
			}
		}
		persist(m.store, m.state, events)
		m.form = nil
		return m, func() tea.Msg { return campaignStartedMsg{} }
	}

	return m, cmd
}

func (m onboardingModel) view() string {
	w := m.width - 4

	if m.form != nil {
		title := titleStyle.Render("Onboarding")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	rows := []string{
		titleStyle.Render("Welcome"),
		"",
		"The campaign levels up only when you hit the active level's goal.",
		"A daily check-in records the honest facts across three tracks.",
		"After each level you choose Safe or Fast to move on.",
		"",
		mutedStyle.Render("  enter: start"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
