package game

import (
	"testing"
	"time"
)

// engineAt builds an engine whose clock is pinned to noon of the given date.
func engineAt(date string) *Engine {
	ts, err := time.Parse(DateFormat, date)
	if err != nil {
		panic(err)
	}
	return NewEngine(FixedClock{Time: ts.Add(12 * time.Hour), Date: date})
}

// startedState runs onboarding and starts a medium campaign. NoFap ranks
// first, so the opening level is the one-day strict restraint.
func startedState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	s.Onboarding.Assessment = Assessment{TrackNoFap: 4, TrackCaffeine: 2, TrackStrength: 1}
	s.Onboarding.Difficulty = DifficultyMedium
	if _, err := engineAt("2026-03-01").StartCampaign(s); err != nil {
		t.Fatalf("start campaign: %v", err)
	}
	return s
}

func cleanInput() CheckinInput {
	f := false
	doses := 0.0
	zero := 0
	return CheckinInput{
		P: &f, M: &f, O: &f,
		CaffDoses: &doses, CaffType: "coffee",
		Pushups: &zero, Squats: &zero, Abs: &zero,
	}
}

func recordClean(t *testing.T, s *State, date string) []Event {
	t.Helper()
	events, err := engineAt(date).RecordCheckin(s, cleanInput())
	if err != nil {
		t.Fatalf("record check-in %s: %v", date, err)
	}
	return events
}

func recordDirty(t *testing.T, s *State, date string) []Event {
	t.Helper()
	in := cleanInput()
	tr := true
	in.P = &tr
	events, err := engineAt(date).RecordCheckin(s, in)
	if err != nil {
		t.Fatalf("record check-in %s: %v", date, err)
	}
	return events
}

func hasEvent(events []Event, typ string) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

// ============================================================
// Campaign start
// ============================================================

func TestStartCampaignRequiresOnboarding(t *testing.T) {
	e := engineAt("2026-03-01")

	s := NewState()
	if _, err := e.StartCampaign(s); err != ErrOnboardingIncomplete {
		t.Fatalf("expected ErrOnboardingIncomplete, got %v", err)
	}

	s.Onboarding.Assessment = Assessment{TrackNoFap: 2}
	s.Onboarding.Difficulty = DifficultyMedium
	if _, err := e.StartCampaign(s); err != ErrOnboardingIncomplete {
		t.Fatal("partial assessment must not start a campaign")
	}
}

func TestStartCampaign(t *testing.T) {
	s := startedState(t)

	if s.Campaign.Status != StatusActive {
		t.Fatalf("expected active campaign, got %s", s.Campaign.Status)
	}
	if len(s.Campaign.Levels) != 25 {
		t.Fatalf("expected 25 levels, got %d", len(s.Campaign.Levels))
	}
	if s.Onboarding.Step != StepDone {
		t.Fatal("onboarding must be marked done")
	}
	if s.StartedAt == nil {
		t.Fatal("first activation must stamp StartedAt")
	}

	lvl := CurrentLevel(s)
	if lvl.TrackID != TrackNoFap || lvl.TargetDays != 1 {
		t.Fatalf("top-ranked track's first level should open, got %+v", lvl)
	}
}

// ============================================================
// Check-ins and daily evaluation
// ============================================================

func TestRecordCheckinValidates(t *testing.T) {
	s := startedState(t)

	in := cleanInput()
	in.CaffDoses = nil
	if _, err := engineAt("2026-03-01").RecordCheckin(s, in); err == nil {
		t.Fatal("missing dose count must be rejected")
	}
	if s.Checkins["2026-03-01"] != nil {
		t.Fatal("rejected input must not be stored")
	}
}

func TestEvaluateDayProgressAndReset(t *testing.T) {
	s := startedState(t)
	// Jump to a multi-day strict level so a streak can build and break.
	s.Campaign.CurrentIndex = 3
	lvl := CurrentLevel(s)
	if lvl.TargetDays != 3 {
		t.Fatalf("test expects a 3-day level, got %d", lvl.TargetDays)
	}

	recordClean(t, s, "2026-03-01")
	recordClean(t, s, "2026-03-02")
	if lvl.ProgressDays != 2 {
		t.Fatalf("two passing days should give progress 2, got %d", lvl.ProgressDays)
	}

	recordDirty(t, s, "2026-03-03")
	if lvl.ProgressDays != 0 {
		t.Fatalf("a failing day erases the streak, got %d", lvl.ProgressDays)
	}
}

func TestEvaluateDayIdempotent(t *testing.T) {
	s := startedState(t)
	s.Campaign.CurrentIndex = 3
	lvl := CurrentLevel(s)

	recordClean(t, s, "2026-03-01")
	if lvl.ProgressDays != 1 {
		t.Fatalf("expected progress 1, got %d", lvl.ProgressDays)
	}

	// Re-running the evaluation with an unchanged outcome is a no-op.
	if events := engineAt("2026-03-01").EvaluateDay(s, "2026-03-01"); events != nil {
		t.Fatalf("repeat evaluation must emit nothing, got %v", events)
	}
	if lvl.ProgressDays != 1 {
		t.Fatalf("repeat evaluation must not double count, got %d", lvl.ProgressDays)
	}
}

func TestEvaluateDaySameDayCorrection(t *testing.T) {
	s := startedState(t)
	s.Campaign.CurrentIndex = 3
	lvl := CurrentLevel(s)

	recordClean(t, s, "2026-03-01")
	recordClean(t, s, "2026-03-02")
	recordDirty(t, s, "2026-03-03")
	if lvl.ProgressDays != 0 {
		t.Fatalf("failure resets, got %d", lvl.ProgressDays)
	}

	// Correcting the same day back to a pass restores only that day, not
	// the streak the failure erased.
	recordClean(t, s, "2026-03-03")
	if lvl.ProgressDays != 1 {
		t.Fatalf("correction should yield 1, got %d", lvl.ProgressDays)
	}
}

func TestEvaluateDaySuspendedWhilePending(t *testing.T) {
	s := startedState(t)
	recordClean(t, s, "2026-03-01")
	if !s.Campaign.PendingCompletion {
		t.Fatal("one-day level should be pending after a pass")
	}

	before := CurrentLevel(s).ProgressDays
	engineAt("2026-03-02").EvaluateDay(s, "2026-03-02")
	if CurrentLevel(s).ProgressDays != before {
		t.Fatal("evaluation must be suspended while completion is pending")
	}
}

// ============================================================
// Completion, locking and transitions
// ============================================================

func TestCompletionEmitsMilestones(t *testing.T) {
	s := startedState(t)
	events := recordClean(t, s, "2026-03-01")

	if !hasEvent(events, "level_completed") {
		t.Fatal("hitting the target must emit level_completed")
	}
	if !hasEvent(events, "time_to_first_complete") {
		t.Fatal("completing the first sequence level must emit the milestone")
	}
	if s.Campaign.CompletionDate != "2026-03-01" {
		t.Fatalf("completion date not recorded: %q", s.Campaign.CompletionDate)
	}
}

func TestFinishLevelLocksCheckin(t *testing.T) {
	s := startedState(t)
	recordClean(t, s, "2026-03-01")

	e := engineAt("2026-03-01")
	if events := e.FinishLevel(s); !hasEvent(events, "level_finished") {
		t.Fatal("finish must emit level_finished")
	}
	if !s.Campaign.AwaitingRiskChoice {
		t.Fatal("finish must await the risk choice")
	}
	if !s.Checkins["2026-03-01"].Locked {
		t.Fatal("the completion date's check-in must be locked")
	}

	if _, err := e.RecordCheckin(s, cleanInput()); err != ErrCheckinLocked {
		t.Fatalf("locked check-in must reject edits, got %v", err)
	}
}

func TestTransitionRequiresMood(t *testing.T) {
	s := startedState(t)
	recordClean(t, s, "2026-03-01")
	e := engineAt("2026-03-01")
	e.FinishLevel(s)

	if events := e.ApplyTransition(s, TransitionSafe); events != nil {
		t.Fatal("transition without a mood must be a no-op")
	}

	e.SetRiskMood(s, RiskMood("bogus"))
	if s.Campaign.RiskMood != "" {
		t.Fatal("unknown mood must be ignored")
	}
}

func TestSafeTransition(t *testing.T) {
	s := startedState(t)
	recordClean(t, s, "2026-03-01")
	e := engineAt("2026-03-01")
	e.FinishLevel(s)
	e.SetRiskMood(s, MoodOK)

	events := e.ApplyTransition(s, TransitionSafe)
	if !hasEvent(events, "safe_fast_selected") {
		t.Fatal("transition must emit safe_fast_selected")
	}

	if !s.Campaign.Levels[0].Completed {
		t.Fatal("the closed level must be marked completed")
	}
	if s.Campaign.CurrentIndex != 1 {
		t.Fatalf("expected index 1, got %d", s.Campaign.CurrentIndex)
	}
	if CurrentLevel(s).ProgressDays != 0 {
		t.Fatal("safe mode starts the next level from zero")
	}
	if s.Campaign.PendingCompletion || s.Campaign.AwaitingRiskChoice || s.Campaign.RiskMood != "" {
		t.Fatal("transition must clear the completion flags and mood")
	}
}

func TestFastTransitionCarry(t *testing.T) {
	s := startedState(t)
	recordClean(t, s, "2026-03-01")
	e := engineAt("2026-03-01")
	e.FinishLevel(s)
	e.SetRiskMood(s, MoodEasy)

	// The clean check-in also satisfies the next level's partial restraint.
	e.ApplyTransition(s, TransitionFast)
	if CurrentLevel(s).ProgressDays != 1 {
		t.Fatalf("fast mode should carry one day, got %d", CurrentLevel(s).ProgressDays)
	}
}

func TestFastCarryNeverCompletes(t *testing.T) {
	s := startedState(t)
	// Hand-build a two-level campaign where the next level's target is 1:
	// the cap target-1 must reduce the carry to zero.
	s.Campaign.Levels = []*CampaignLevel{
		{ID: "a", Index: 1, TargetDays: 1, Predicate: Predicate{Kind: PredRestraintStrict}},
		{ID: "b", Index: 2, TargetDays: 1, Predicate: Predicate{Kind: PredRestraintStrict}},
	}
	s.Campaign.CurrentIndex = 0

	recordClean(t, s, "2026-03-01")
	e := engineAt("2026-03-01")
	e.FinishLevel(s)
	e.SetRiskMood(s, MoodOK)
	e.ApplyTransition(s, TransitionFast)

	if CurrentLevel(s).ProgressDays != 0 {
		t.Fatal("a carried day alone must never complete the next level")
	}
	if s.Campaign.PendingCompletion {
		t.Fatal("the next level must not open already pending")
	}
}

func TestFastTransitionNoCarryWhenNextFails(t *testing.T) {
	s := startedState(t)
	s.Campaign.Levels = []*CampaignLevel{
		{ID: "a", Index: 1, TargetDays: 1, Predicate: Predicate{Kind: PredRestraintStrict}},
		{ID: "b", Index: 2, TargetDays: 3, Predicate: Predicate{Kind: PredZeroDoses}},
	}

	in := cleanInput()
	doses := 2.0
	in.CaffDoses = &doses
	if _, err := engineAt("2026-03-01").RecordCheckin(s, in); err != nil {
		t.Fatal(err)
	}

	e := engineAt("2026-03-01")
	e.FinishLevel(s)
	e.SetRiskMood(s, MoodOK)
	e.ApplyTransition(s, TransitionFast)

	if CurrentLevel(s).ProgressDays != 0 {
		t.Fatal("fast mode carries nothing when the day fails the next predicate")
	}
}

func TestCampaignFinishes(t *testing.T) {
	s := startedState(t)
	s.Campaign.Levels = s.Campaign.Levels[:1]

	recordClean(t, s, "2026-03-01")
	e := engineAt("2026-03-01")
	e.FinishLevel(s)
	e.SetRiskMood(s, MoodOK)

	events := e.ApplyTransition(s, TransitionSafe)
	if !hasEvent(events, "campaign_finished") {
		t.Fatal("closing the last level must finish the campaign")
	}
	if s.Campaign.Status != StatusFinished {
		t.Fatalf("expected finished status, got %s", s.Campaign.Status)
	}
	if CurrentLevel(s) != nil {
		t.Fatal("a finished campaign has no active level")
	}
}

// ============================================================
// History
// ============================================================

func TestHistory(t *testing.T) {
	s := startedState(t)
	s.Campaign.CurrentIndex = 3

	recordClean(t, s, "2026-03-02")
	recordDirty(t, s, "2026-03-03")

	days := engineAt("2026-03-04").History(s, 4)
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	want := []DayStatus{DayMissing, DayPass, DayFail, DayMissing}
	for i, w := range want {
		if days[i].Status != w {
			t.Fatalf("day %d (%s): expected %s, got %s", i, days[i].Date, w, days[i].Status)
		}
	}
	if days[0].Date != "2026-03-01" {
		t.Fatalf("history must be oldest first, got %s", days[0].Date)
	}
}
