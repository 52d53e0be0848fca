package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkovtun/habitquest/internal/game"
	"github.com/mkovtun/habitquest/internal/store"
)

// checkinModel renders today's check-in and the form that edits it. Editing
// a locked check-in is refused before the form even opens.
type checkinModel struct {
	store  *store.Store
	engine *game.Engine
	state  *game.State
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pFlag      *string
	mFlag      *string
	oFlag      *string
	urge       *string
	waterFirst *bool
	delayMin   *string
	doses      *string
	firstTime  *string
	lastTime   *string
	caffType   *string
	pushups    *string
	squats     *string
	abs        *string
}

func newCheckinModel(s *store.Store, engine *game.Engine, state *game.State) checkinModel {
	p, m, o, u := "", "", "", ""
	w := false
	dl, ds, ft, lt, ct := "", "", "", "", ""
	pu, sq, ab := "", "", ""
	return checkinModel{
		store:      s,
		engine:     engine,
		state:      state,
		pFlag:      &p,
		mFlag:      &m,
		oFlag:      &o,
		urge:       &u,
		waterFirst: &w,
		delayMin:   &dl,
		doses:      &ds,
		firstTime:  &ft,
		lastTime:   &lt,
		caffType:   &ct,
		pushups:    &pu,
		squats:     &sq,
		abs:        &ab,
	}
}

func (m *checkinModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m checkinModel) update(msg tea.Msg) (checkinModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			if c := m.engine.TodayCheckin(m.state); c != nil && c.Locked {
				return m, func() tea.Msg {
					return statusMsg{text: "Check-in is locked after level completion", isError: true}
				}
			}
			return m.showForm()
		}
	}
	return m, nil
}

func yesNoSelect(title string, value *string) *huh.Select[string] {
	return huh.NewSelect[string]().Title(title).
		Options(
			huh.NewOption("No", "false"),
			huh.NewOption("Yes", "true"),
		).Value(value)
}

func (m checkinModel) showForm() (checkinModel, tea.Cmd) {
	// Preload from today's record if it exists.
	c := m.engine.TodayCheckin(m.state)
	if c == nil {
		c = &game.Checkin{CaffType: game.CaffTypes[0]}
	}
	*m.pFlag = strconv.FormatBool(c.P)
	*m.mFlag = strconv.FormatBool(c.M)
	*m.oFlag = strconv.FormatBool(c.O)
	*m.urge = strconv.Itoa(c.Urge)
	*m.waterFirst = c.WaterFirst
	*m.delayMin = strconv.Itoa(c.FirstDoseDelayMin)
	*m.doses = strconv.FormatFloat(c.CaffDoses, 'f', -1, 64)
	*m.firstTime = c.CaffFirstTime
	*m.lastTime = c.CaffLastTime
	*m.caffType = c.CaffType

	*m.pushups = strconv.Itoa(c.Pushups)
	*m.squats = strconv.Itoa(c.Squats)
	*m.abs = strconv.Itoa(c.Abs)

	typeOpts := make([]huh.Option[string], len(game.CaffTypes))
	for i, t := range game.CaffTypes {
		typeOpts[i] = huh.NewOption(t, t)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			yesNoSelect("P happened today", m.pFlag),
			yesNoSelect("M happened today", m.mFlag),
			yesNoSelect("O happened today", m.oFlag),
			huh.NewInput().Title("Urge 0-3").Value(m.urge),
		).Title("NoFap"),
		huh.NewGroup(
			huh.NewConfirm().Title("Water before the first dose?").Value(m.waterFirst),
			huh.NewInput().Title("First dose delay (min)").Value(m.delayMin),
			huh.NewSelect[string]().Title("Doses").
				Options(
					huh.NewOption("0", "0"),
					huh.NewOption("0.5", "0.5"),
					huh.NewOption("1", "1"),
					huh.NewOption("2", "2"),
					huh.NewOption("3", "3"),
				).Value(m.doses),
			huh.NewInput().Title("First dose (HH:MM)").Value(m.firstTime),
			huh.NewInput().Title("Last dose (HH:MM)").Value(m.lastTime),
			huh.NewSelect[string]().Title("Dose type").Options(typeOpts...).Value(m.caffType),
		).Title("Caffeine"),
		huh.NewGroup(
			huh.NewInput().Title("Pushups").Value(m.pushups),
			huh.NewInput().Title("Squats").Value(m.squats),
			huh.NewInput().Title("Abs").Value(m.abs),
		).Title("Strength"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m checkinModel) updateForm(msg tea.Msg) (checkinModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		return m, m.submit()
	}

	return m, cmd
}

func (m checkinModel) submit() tea.Cmd {
	p := *m.pFlag == "true"
	mm := *m.mFlag == "true"
	o := *m.oFlag == "true"
	doses := parseFloatOr0(*m.doses)
	pushups := parseIntOr0(*m.pushups)
	squats := parseIntOr0(*m.squats)
	abs := parseIntOr0(*m.abs)

	in := game.CheckinInput{
		P:                 &p,
		M:                 &mm,
		O:                 &o,
		Urge:              clampInt(parseIntOr0(*m.urge), 0, 3),
		WaterFirst:        *m.waterFirst,
		FirstDoseDelayMin: parseIntOr0(*m.delayMin),
		CaffDoses:         &doses,
		CaffFirstTime:     *m.firstTime,
		CaffLastTime:      *m.lastTime,
		CaffType:          *m.caffType,
		Pushups:           &pushups,
		Squats:            &squats,
		Abs:               &abs,
	}

	events, err := m.engine.RecordCheckin(m.state, in)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Check-in rejected: %v", err), isError: true}
		}
	}
	persist(m.store, m.state, events)
	return func() tea.Msg { return statusMsg{text: "Check-in saved"} }
}

func (m checkinModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Daily check-in")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Daily check-in")
	c := m.engine.TodayCheckin(m.state)

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	switch {
	case c == nil:
		rows = append(rows, mutedStyle.Render("Nothing recorded for today yet."))
	case c.Locked:
		rows = append(rows, warningStyle.Render("Locked after level completion — no further edits."))
		rows = append(rows, "")
		rows = append(rows, m.summaryRows(c)...)
	default:
		rows = append(rows, m.summaryRows(c)...)
	}

	rows = append(rows, "")
	if c == nil || !c.Locked {
		rows = append(rows, mutedStyle.Render("Press enter to fill in today's check-in"))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m checkinModel) summaryRows(c *game.Checkin) []string {
	flag := func(v bool) string {
		if v {
			return errorStyle.Render("yes")
		}
		return successStyle.Render("no")
	}
	water := "no"
	if c.WaterFirst {
		water = "yes"
	}
	return []string{
		fmt.Sprintf("  P %s  M %s  O %s  urge %d", flag(c.P), flag(c.M), flag(c.O), c.Urge),
		fmt.Sprintf("  doses %s (%s)  first %s  last %s  water first %s  delay %d min",
			strconv.FormatFloat(c.CaffDoses, 'f', -1, 64), c.CaffType,
			orDash(c.CaffFirstTime), orDash(c.CaffLastTime), water, c.FirstDoseDelayMin),
		fmt.Sprintf("  pushups %d  squats %d  abs %d", c.Pushups, c.Squats, c.Abs),
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func parseIntOr0(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloatOr0(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
