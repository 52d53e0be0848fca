package game

import "time"

// JourneyKind is the interaction type of a journey level.
type JourneyKind string

const (
	JourneyAction       JourneyKind = "action"
	JourneyTimer        JourneyKind = "timer"
	JourneyMultiSelect  JourneyKind = "multi_select"
	JourneySingleSelect JourneyKind = "single_select"
	JourneyQuiz         JourneyKind = "quiz"
)

// JourneyLevel is a static definition in the linear journey mode. Only the
// fields matching the kind are set.
type JourneyLevel struct {
	ID       string
	Index    int
	Title    string
	Subtitle string
	Kind     JourneyKind

	ButtonLabel string   // action
	DurationSec int      // timer
	Options     []string // multi/single select, quiz
	MinSelected int      // multi select
	Fallback    []string // single select sourcing fallback
	Bullets     []string // quiz lesson text
	Question    string   // quiz
	Correct     string   // quiz
}

// BaseProblems is the shared option list for the early journey levels.
var BaseProblems = []string{
	"Caffeine", "Sugar", "Overeating", "Doomscrolling", "Porn",
	"Sleep", "Stress", "Focus", "Energy", "Activity", "Chaos",
}

// JourneyLevels is the fixed linear sequence of the alternate mode.
var JourneyLevels = []JourneyLevel{
	{
		ID: "jl0_start", Index: 0, Kind: JourneyAction,
		Title: "LVL0 — Entry", Subtitle: "You are already in the game.",
		ButtonLabel: "LET'S GO",
	},
	{
		ID: "jl1_timer60", Index: 1, Kind: JourneyTimer,
		Title: "LVL1 — 60 seconds of stillness", Subtitle: "Press start. No pause. No escape.",
		DurationSec: 60,
	},
	{
		ID: "jl2_problems", Index: 2, Kind: JourneyMultiSelect,
		Title: "LVL2 — Name your problems", Subtitle: "Pick at least 3.",
		Options: BaseProblems, MinSelected: 3,
	},
	{
		ID: "jl3_main_problem", Index: 3, Kind: JourneySingleSelect,
		Title: "LVL3 — Problem number one", Subtitle: "Pick your main trigger.",
		Fallback: BaseProblems[:5],
	},
	{
		ID: "jl4_quiz", Index: 4, Kind: JourneyQuiz,
		Title: "LVL4 — Mini lesson", Subtitle: "Read, then answer.",
		Bullets: []string{
			"A habit is trigger, action, reward.",
			"Environment beats motivation.",
			"A craving is a signal, not an order.",
			"Remove the trigger and the impulse weakens.",
		},
		Question: "What shapes a habit more?",
		Options:  []string{"Motivation", "Trigger and environment"},
		Correct:  "Trigger and environment",
	},
	{
		ID: "jl5_timer300", Index: 5, Kind: JourneyTimer,
		Title: "LVL5 — Five quiet minutes", Subtitle: "Sit still for 5 minutes. No pause.",
		DurationSec: 300,
	},
	{
		ID: "jl6_commit", Index: 6, Kind: JourneySingleSelect,
		Title: "LVL6 — 24-hour commitment", Subtitle: "What do you give up for a day?",
		Options: []string{"Caffeine", "Sugar", "Porn", "Doomscrolling"},
	},
	{
		ID: "jl7_rescue", Index: 7, Kind: JourneyMultiSelect,
		Title: "LVL7 — Rescue plan", Subtitle: "If you slip, pick at least 2 moves.",
		Options:     []string{"Water", "A walk", "Breathing", "Cold shower", "10 squats"},
		MinSelected: 2,
	},
	{
		ID: "jl8_trigger", Index: 8, Kind: JourneySingleSelect,
		Title: "LVL8 — Remove a trigger", Subtitle: "What leaves your environment right now?",
		Options: []string{"Delete the app", "Hide the sweets", "Silence notifications", "Install a blocker"},
	},
	{
		ID: "jl9_final", Index: 9, Kind: JourneyAction,
		Title: "LVL9 — Finale", Subtitle: "Honesty oath. The run begins.",
		ButtonLabel: "I BEGIN",
	},
}

// JourneyAnswer is the per-level answer record, tagged by the level kind so
// each interaction type carries only its own fields.
type JourneyAnswer struct {
	Kind       JourneyKind `json:"kind"`
	Pressed    bool        `json:"pressed,omitempty"`    // action
	FinishedAt *time.Time  `json:"finishedAt,omitempty"` // timer
	Selected   []string    `json:"selected,omitempty"`   // multi select
	Choice     string      `json:"choice,omitempty"`     // single select, quiz
}

// Journey is the runtime state of the linear mode. Levels before
// CurrentIndex are done; answers are keyed by level id.
type Journey struct {
	CurrentIndex int                       `json:"currentIndex"`
	Answers      map[string]*JourneyAnswer `json:"answers"`
	TimerStart   *time.Time                `json:"timerStart,omitempty"`
}

func newJourney() Journey {
	return Journey{Answers: map[string]*JourneyAnswer{}}
}

func sanitizeJourney(j *Journey) {
	if j.Answers == nil {
		j.Answers = map[string]*JourneyAnswer{}
	}
	if j.CurrentIndex < 0 {
		j.CurrentIndex = 0
	}
	if j.CurrentIndex > len(JourneyLevels) {
		j.CurrentIndex = len(JourneyLevels)
	}
}

// CurrentJourneyLevel returns the active journey level, or nil once the
// sequence is exhausted.
func CurrentJourneyLevel(s *State) *JourneyLevel {
	if s.Journey.CurrentIndex >= len(JourneyLevels) {
		return nil
	}
	return &JourneyLevels[s.Journey.CurrentIndex]
}

// JourneyOptions resolves the option list for a select level. A single
// select without its own options sources them from the nearest preceding
// multi select answer, falling back to the level's fixed default list.
func JourneyOptions(s *State, lvl *JourneyLevel) []string {
	if len(lvl.Options) > 0 {
		return lvl.Options
	}
	for i := lvl.Index - 1; i >= 0; i-- {
		prev := &JourneyLevels[i]
		if prev.Kind != JourneyMultiSelect {
			continue
		}
		if a := s.Journey.Answers[prev.ID]; a != nil && len(a.Selected) > 0 {
			return a.Selected
		}
		break
	}
	return lvl.Fallback
}

// JourneyReady reports whether the active level's completion predicate
// holds for its recorded answer.
func JourneyReady(s *State, now time.Time) bool {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil {
		return false
	}
	a := s.Journey.Answers[lvl.ID]

	switch lvl.Kind {
	case JourneyAction:
		return a != nil && a.Pressed
	case JourneyTimer:
		if a != nil && a.FinishedAt != nil {
			return true
		}
		return s.Journey.TimerStart != nil &&
			now.Sub(*s.Journey.TimerStart) >= time.Duration(lvl.DurationSec)*time.Second
	case JourneyMultiSelect:
		return a != nil && len(a.Selected) >= lvl.MinSelected
	case JourneySingleSelect:
		return a != nil && a.Choice != ""
	case JourneyQuiz:
		return a != nil && a.Choice == lvl.Correct
	}
	return false
}

// SetJourneyAnswer records an answer for the active level. It re-evaluates
// readiness implicitly (readiness is derived) but never auto-advances.
// Answers for non-active levels are ignored.
func (e *Engine) SetJourneyAnswer(s *State, levelID string, a JourneyAnswer) {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil || lvl.ID != levelID || a.Kind != lvl.Kind {
		return
	}
	ans := a
	s.Journey.Answers[levelID] = &ans
}

// StartJourneyTimer arms the countdown for the active timer level. Starting
// an already running or finished timer is a no-op.
func (e *Engine) StartJourneyTimer(s *State) {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil || lvl.Kind != JourneyTimer || s.Journey.TimerStart != nil {
		return
	}
	if a := s.Journey.Answers[lvl.ID]; a != nil && a.FinishedAt != nil {
		return
	}
	now := e.clock.Now()
	s.Journey.TimerStart = &now
}

// TickJourney advances the timer substate. Once the countdown elapses the
// level self-transitions to done without further user action. It reports
// whether the state changed.
func (e *Engine) TickJourney(s *State) bool {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil || lvl.Kind != JourneyTimer || s.Journey.TimerStart == nil {
		return false
	}
	now := e.clock.Now()
	if now.Sub(*s.Journey.TimerStart) < time.Duration(lvl.DurationSec)*time.Second {
		return false
	}
	s.Journey.Answers[lvl.ID] = &JourneyAnswer{Kind: JourneyTimer, FinishedAt: &now}
	s.Journey.TimerStart = nil
	return true
}

// JourneyRemaining returns the seconds left on the active countdown, or 0.
func (e *Engine) JourneyRemaining(s *State) int {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil || lvl.Kind != JourneyTimer || s.Journey.TimerStart == nil {
		return 0
	}
	left := time.Duration(lvl.DurationSec)*time.Second - e.clock.Now().Sub(*s.Journey.TimerStart)
	if left < 0 {
		return 0
	}
	return int(left / time.Second)
}

// CompleteJourneyLevel advances past the active level. The explicit action
// is only permitted while the readiness predicate holds.
func (e *Engine) CompleteJourneyLevel(s *State) []Event {
	lvl := CurrentJourneyLevel(s)
	if lvl == nil || !JourneyReady(s, e.clock.Now()) {
		return nil
	}
	s.Journey.CurrentIndex++
	s.Journey.TimerStart = nil
	return []Event{{
		Type: "journey_level_completed",
		At:   e.clock.Now(),
		Fields: map[string]any{
			"levelId": lvl.ID,
			"index":   lvl.Index,
		},
	}}
}
