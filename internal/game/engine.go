package game

import (
	"errors"
	"time"
)

// Engine applies the campaign progression rules to an explicit State. Every
// transition mutates the state in place and returns the telemetry events it
// produced; persisting both is the caller's job. Out-of-order actions are
// defended with no-ops, never errors, so a re-render can safely re-invoke
// any transition.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	return &Engine{clock: clock}
}

// Clock exposes the engine's clock so views can render time-derived state.
func (e *Engine) Clock() Clock {
	return e.clock
}

// ErrOnboardingIncomplete is returned by StartCampaign before every track is
// scored and a difficulty picked.
var ErrOnboardingIncomplete = errors.New("assessment and difficulty must be set before starting")

// CurrentLevel returns the active campaign level, or nil when the campaign
// is not running or the index ran past the last level.
func CurrentLevel(s *State) *CampaignLevel {
	if s.Campaign.CurrentIndex < 0 || s.Campaign.CurrentIndex >= len(s.Campaign.Levels) {
		return nil
	}
	return s.Campaign.Levels[s.Campaign.CurrentIndex]
}

// TodayCheckin returns today's check-in, or nil.
func (e *Engine) TodayCheckin(s *State) *Checkin {
	return s.Checkins[e.clock.Today()]
}

// StartCampaign ranks the tracks from the assessment, snapshots the
// personalization baseline and materializes the level sequence. The first
// activation also stamps StartedAt for milestone telemetry.
func (e *Engine) StartCampaign(s *State) ([]Event, error) {
	if !s.Onboarding.Assessment.Complete() || s.Onboarding.Difficulty == "" {
		return nil, ErrOnboardingIncomplete
	}

	ranking := RankTracks(s.Onboarding.Assessment)
	s.Onboarding.Ranking = ranking
	s.Onboarding.Step = StepDone

	s.Campaign = Campaign{
		Levels: BuildCampaign(ranking, s.Onboarding.Difficulty, ComputeBaseline(s.Checkins)),
		Status: StatusActive,
	}
	if s.StartedAt == nil {
		now := e.clock.Now()
		s.StartedAt = &now
	}

	return []Event{{Type: "activation", At: e.clock.Now()}}, nil
}

// RecordCheckin validates and stores today's check-in, then runs the daily
// evaluation for that date. A locked check-in rejects further edits.
func (e *Engine) RecordCheckin(s *State, in CheckinInput) ([]Event, error) {
	date := e.clock.Today()
	if existing := s.Checkins[date]; existing != nil && existing.Locked {
		return nil, ErrCheckinLocked
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.Checkins[date] = in.toCheckin(date, e.clock.Now())
	events := []Event{{
		Type:   "checkin_saved",
		At:     e.clock.Now(),
		Fields: map[string]any{"date": date},
	}}
	events = append(events, e.EvaluateDay(s, date)...)
	return events, nil
}

// EvaluateDay runs the active level's predicate against the date's check-in
// and advances or resets the progress counter. It is a no-op while the
// campaign is not running, while a completion or risk choice is pending, or
// when the date's check-in is absent or already consumed by a completion.
//
// The evaluation is idempotent per date: re-running it with an unchanged
// outcome changes nothing, and a same-day correction replaces that day's
// contribution instead of double counting it.
func (e *Engine) EvaluateDay(s *State, date string) []Event {
	lvl := CurrentLevel(s)
	if lvl == nil || s.Campaign.Status != StatusActive {
		return nil
	}
	if s.Campaign.PendingCompletion || s.Campaign.AwaitingRiskChoice {
		return nil
	}
	c := s.Checkins[date]
	if c == nil || c.Locked {
		return nil
	}

	passed := Evaluate(lvl.Predicate, c)
	if lvl.LastEvaluated == date && lvl.LastPassed == passed {
		return nil
	}

	if passed {
		// A same-day correction from fail to pass only restores today;
		// the streak the failure erased stays erased.
		lvl.ProgressDays = min(lvl.TargetDays, lvl.ProgressDays+1)
	} else {
		// Any single failing day erases the whole streak.
		lvl.ProgressDays = 0
	}
	lvl.LastEvaluated = date
	lvl.LastPassed = passed

	events := []Event{{
		Type: "level_progress_updated",
		At:   e.clock.Now(),
		Fields: map[string]any{
			"levelId":  lvl.ID,
			"passed":   passed,
			"progress": lvl.ProgressDays,
			"target":   lvl.TargetDays,
			"date":     date,
		},
	}}

	if lvl.ProgressDays == lvl.TargetDays {
		s.Campaign.PendingCompletion = true
		s.Campaign.CompletionDate = date
		events = append(events, Event{
			Type:   "level_completed",
			At:     e.clock.Now(),
			Fields: map[string]any{"levelId": lvl.ID},
		})
		events = append(events, e.milestoneEvents(s, lvl)...)
	}
	return events
}

// milestoneEvents emits the observational sequence-index milestones. They
// must not affect control flow.
func (e *Engine) milestoneEvents(s *State, lvl *CampaignLevel) []Event {
	var events []Event
	if lvl.Index == 1 {
		var ms int64
		if s.StartedAt != nil {
			ms = e.clock.Now().Sub(*s.StartedAt).Milliseconds()
		}
		events = append(events, Event{
			Type:   "time_to_first_complete",
			At:     e.clock.Now(),
			Fields: map[string]any{"ms": ms},
		})
	}
	if lvl.Index == 5 {
		events = append(events, Event{Type: "completion_lvl5", At: e.clock.Now()})
	}
	return events
}

// FinishLevel confirms a pending completion. The completion date's check-in,
// if present, becomes locked and immutable. Progress does not change.
func (e *Engine) FinishLevel(s *State) []Event {
	lvl := CurrentLevel(s)
	if lvl == nil || !s.Campaign.PendingCompletion {
		return nil
	}
	if c := s.Checkins[s.Campaign.CompletionDate]; c != nil {
		c.Locked = true
	}
	s.Campaign.AwaitingRiskChoice = true
	return []Event{{
		Type:   "level_finished",
		At:     e.clock.Now(),
		Fields: map[string]any{"levelId": lvl.ID},
	}}
}

// SetRiskMood records the self-report that gates the transition. Ignored
// unless a risk choice is actually awaited.
func (e *Engine) SetRiskMood(s *State, mood RiskMood) {
	if !s.Campaign.AwaitingRiskChoice {
		return
	}
	switch mood {
	case MoodEasy, MoodOK, MoodEdge:
		s.Campaign.RiskMood = mood
	}
}

// ApplyTransition closes out the completed level and either starts the next
// one or finishes the campaign. In fast mode a qualifying check-in on the
// completion date carries a single day into the next level's streak, capped
// below the full target so a carried day alone can never complete it.
func (e *Engine) ApplyTransition(s *State, mode TransitionMode) []Event {
	lvl := CurrentLevel(s)
	if lvl == nil || !s.Campaign.AwaitingRiskChoice || s.Campaign.RiskMood == "" {
		return nil
	}
	if mode != TransitionSafe && mode != TransitionFast {
		return nil
	}

	lvl.Completed = true
	mood := s.Campaign.RiskMood
	date := s.Campaign.CompletionDate

	s.Campaign.PendingCompletion = false
	s.Campaign.AwaitingRiskChoice = false
	s.Campaign.CompletionDate = ""
	s.Campaign.RiskMood = ""

	nextIndex := s.Campaign.CurrentIndex + 1
	if nextIndex >= len(s.Campaign.Levels) {
		s.Campaign.CurrentIndex = nextIndex
		s.Campaign.Status = StatusFinished
		return []Event{{
			Type:   "campaign_finished",
			At:     e.clock.Now(),
			Fields: map[string]any{"mode": string(mode), "mood": string(mood)},
		}}
	}

	s.Campaign.CurrentIndex = nextIndex
	next := s.Campaign.Levels[nextIndex]
	next.ProgressDays = 0

	if mode == TransitionFast {
		carry := 0
		if c := s.Checkins[date]; c != nil && Evaluate(next.Predicate, c) {
			carry = 1
		}
		next.ProgressDays = min(carry, max(0, next.TargetDays-1))
	}

	return []Event{{
		Type: "safe_fast_selected",
		At:   e.clock.Now(),
		Fields: map[string]any{
			"mode":      string(mode),
			"mood":      string(mood),
			"nextLevel": next.ID,
			"carried":   next.ProgressDays,
		},
	}}
}

// ResetCampaign destroys the campaign, check-ins and journey state together
// and returns a fresh default state. The caller clears the event log.
func (e *Engine) ResetCampaign(s *State) *State {
	return NewState()
}

// DayStatus is one cell of the rolling history strip.
type DayStatus string

const (
	DayPass    DayStatus = "pass"
	DayFail    DayStatus = "fail"
	DayMissing DayStatus = "missing"
)

// DayResult pairs a calendar date with its predicate outcome for the active
// level, independent of progress accounting.
type DayResult struct {
	Date   string
	Status DayStatus
}

// History re-runs the active level's predicate against each of the last n
// days' stored check-ins, oldest first. Without an active level it is nil.
func (e *Engine) History(s *State, n int) []DayResult {
	lvl := CurrentLevel(s)
	if lvl == nil {
		return nil
	}
	today, err := time.Parse(DateFormat, e.clock.Today())
	if err != nil {
		return nil
	}

	out := make([]DayResult, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateFormat)
		c := s.Checkins[date]
		switch {
		case c == nil:
			out = append(out, DayResult{Date: date, Status: DayMissing})
		case Evaluate(lvl.Predicate, c):
			out = append(out, DayResult{Date: date, Status: DayPass})
		default:
			out = append(out, DayResult{Date: date, Status: DayFail})
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
