package game

import (
	"testing"
	"time"
)

func journeyEngine(at time.Time) *Engine {
	return NewEngine(FixedClock{Time: at, Date: at.Format(DateFormat)})
}

func TestJourneyCatalog(t *testing.T) {
	if len(JourneyLevels) != 10 {
		t.Fatalf("expected 10 journey levels, got %d", len(JourneyLevels))
	}

	seen := map[string]bool{}
	for i, lvl := range JourneyLevels {
		if lvl.Index != i {
			t.Fatalf("level %s: index %d does not match position %d", lvl.ID, lvl.Index, i)
		}
		if seen[lvl.ID] {
			t.Fatalf("duplicate journey level id %s", lvl.ID)
		}
		seen[lvl.ID] = true
	}
}

// ============================================================
// Per-kind readiness
// ============================================================

func TestJourneyActionFlow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := journeyEngine(now)
	s := NewState()

	if JourneyReady(s, now) {
		t.Fatal("untouched action level must not be ready")
	}
	if events := e.CompleteJourneyLevel(s); events != nil {
		t.Fatal("completing an unready level must be a no-op")
	}

	// The wrong answer kind is ignored.
	e.SetJourneyAnswer(s, "jl0_start", JourneyAnswer{Kind: JourneyQuiz, Choice: "x"})
	if JourneyReady(s, now) {
		t.Fatal("mismatched answer kind must be ignored")
	}

	e.SetJourneyAnswer(s, "jl0_start", JourneyAnswer{Kind: JourneyAction, Pressed: true})
	if !JourneyReady(s, now) {
		t.Fatal("pressed action level must be ready")
	}

	events := e.CompleteJourneyLevel(s)
	if !hasEvent(events, "journey_level_completed") {
		t.Fatal("completion must emit journey_level_completed")
	}
	if s.Journey.CurrentIndex != 1 {
		t.Fatalf("expected index 1 after completion, got %d", s.Journey.CurrentIndex)
	}
}

func TestJourneyAnswerForInactiveLevelIgnored(t *testing.T) {
	e := journeyEngine(time.Now())
	s := NewState()

	e.SetJourneyAnswer(s, "jl2_problems", JourneyAnswer{Kind: JourneyMultiSelect, Selected: BaseProblems[:3]})
	if len(s.Journey.Answers) != 0 {
		t.Fatal("answers for non-active levels must be dropped")
	}
}

func TestJourneyTimer(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewState()
	s.Journey.CurrentIndex = 1 // 60-second timer

	e := journeyEngine(start)
	e.StartJourneyTimer(s)
	if s.Journey.TimerStart == nil {
		t.Fatal("timer must arm")
	}

	// Starting again must not restart the countdown.
	journeyEngine(start.Add(30 * time.Second)).StartJourneyTimer(s)
	if !s.Journey.TimerStart.Equal(start) {
		t.Fatal("re-arming a running timer must be a no-op")
	}

	mid := journeyEngine(start.Add(30 * time.Second))
	if mid.TickJourney(s) {
		t.Fatal("tick before the countdown elapses must change nothing")
	}
	if left := mid.JourneyRemaining(s); left != 30 {
		t.Fatalf("expected 30s remaining, got %d", left)
	}
	if JourneyReady(s, start.Add(30*time.Second)) {
		t.Fatal("running timer must not be ready early")
	}

	done := journeyEngine(start.Add(61 * time.Second))
	if !done.TickJourney(s) {
		t.Fatal("tick past the countdown must finish the level")
	}
	if s.Journey.TimerStart != nil {
		t.Fatal("finished timer must disarm")
	}
	a := s.Journey.Answers["jl1_timer60"]
	if a == nil || a.FinishedAt == nil {
		t.Fatal("finished timer must record its answer")
	}
	if !JourneyReady(s, start.Add(61*time.Second)) {
		t.Fatal("finished timer level must be ready")
	}
}

func TestJourneyMultiSelectMinimum(t *testing.T) {
	now := time.Now()
	e := journeyEngine(now)
	s := NewState()
	s.Journey.CurrentIndex = 2 // pick at least 3

	e.SetJourneyAnswer(s, "jl2_problems", JourneyAnswer{Kind: JourneyMultiSelect, Selected: BaseProblems[:2]})
	if JourneyReady(s, now) {
		t.Fatal("two selections must not satisfy a minimum of three")
	}
	e.SetJourneyAnswer(s, "jl2_problems", JourneyAnswer{Kind: JourneyMultiSelect, Selected: BaseProblems[:3]})
	if !JourneyReady(s, now) {
		t.Fatal("three selections must satisfy the minimum")
	}
}

func TestJourneyQuiz(t *testing.T) {
	now := time.Now()
	e := journeyEngine(now)
	s := NewState()
	s.Journey.CurrentIndex = 4

	e.SetJourneyAnswer(s, "jl4_quiz", JourneyAnswer{Kind: JourneyQuiz, Choice: "Motivation"})
	if JourneyReady(s, now) {
		t.Fatal("wrong answer must not be ready")
	}
	e.SetJourneyAnswer(s, "jl4_quiz", JourneyAnswer{Kind: JourneyQuiz, Choice: "Trigger and environment"})
	if !JourneyReady(s, now) {
		t.Fatal("correct answer must be ready")
	}
}

// ============================================================
// Option sourcing
// ============================================================

func TestJourneyOptionsSourcing(t *testing.T) {
	s := NewState()
	single := &JourneyLevels[3]

	// Without an upstream answer the fixed fallback applies.
	opts := JourneyOptions(s, single)
	if len(opts) != 5 || opts[0] != BaseProblems[0] {
		t.Fatalf("expected fallback options, got %v", opts)
	}

	// The preceding multi select answer takes over.
	s.Journey.Answers["jl2_problems"] = &JourneyAnswer{
		Kind:     JourneyMultiSelect,
		Selected: []string{"Stress", "Sleep", "Focus"},
	}
	opts = JourneyOptions(s, single)
	if len(opts) != 3 || opts[0] != "Stress" {
		t.Fatalf("expected sourced options, got %v", opts)
	}

	// A level with its own options never sources.
	commit := &JourneyLevels[6]
	if got := JourneyOptions(s, commit); len(got) != len(commit.Options) {
		t.Fatalf("fixed options must win, got %v", got)
	}
}
