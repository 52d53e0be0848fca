package game

import (
	"encoding/json"
	"time"
)

const stateVersion = 2

// OnboardingStep tracks where the user is before the campaign starts.
type OnboardingStep string

const (
	StepIntro      OnboardingStep = "intro"
	StepAssessment OnboardingStep = "assessment"
	StepDifficulty OnboardingStep = "difficulty"
	StepDone       OnboardingStep = "done"
)

// CampaignStatus transitions idle -> active -> finished and never back.
type CampaignStatus string

const (
	StatusIdle     CampaignStatus = "idle"
	StatusActive   CampaignStatus = "active"
	StatusFinished CampaignStatus = "finished"
)

// RiskMood is the user's self-report before picking a transition mode. It
// gates the transition but never alters predicates.
type RiskMood string

const (
	MoodEasy RiskMood = "easy"
	MoodOK   RiskMood = "ok"
	MoodEdge RiskMood = "edge"
)

// TransitionMode decides how progress carries into the next level.
type TransitionMode string

const (
	TransitionSafe TransitionMode = "safe"
	TransitionFast TransitionMode = "fast"
)

type Onboarding struct {
	Step       OnboardingStep `json:"step"`
	Assessment Assessment     `json:"assessment"`
	Ranking    []TrackID      `json:"ranking"`
	Difficulty Difficulty     `json:"difficulty"`
}

// Campaign holds the materialized level sequence and the progression flags.
// While PendingCompletion or AwaitingRiskChoice is set, daily evaluation is
// suspended for the active level.
type Campaign struct {
	Levels             []*CampaignLevel `json:"levels"`
	CurrentIndex       int              `json:"currentIndex"`
	PendingCompletion  bool             `json:"pendingCompletion"`
	CompletionDate     string           `json:"completionDate,omitempty"`
	AwaitingRiskChoice bool             `json:"awaitingRiskChoice"`
	RiskMood           RiskMood         `json:"riskMood,omitempty"`
	Status             CampaignStatus   `json:"status"`
}

// State is the whole application state. It is owned by the caller and passed
// explicitly to every transition; persistence is a separate effect.
type State struct {
	Version    int                 `json:"version"`
	Onboarding Onboarding          `json:"onboarding"`
	Campaign   Campaign            `json:"campaign"`
	Checkins   map[string]*Checkin `json:"checkins"`
	Journey    Journey             `json:"journey"`
	StartedAt  *time.Time          `json:"startedAt,omitempty"`
}

// Event is a telemetry effect emitted by a transition. Events are
// observational only and never feed back into control flow.
type Event struct {
	Type   string         `json:"type"`
	At     time.Time      `json:"at"`
	Fields map[string]any `json:"fields,omitempty"`
}

// NewState returns the default empty state.
func NewState() *State {
	return &State{
		Version: stateVersion,
		Onboarding: Onboarding{
			Step:       StepIntro,
			Assessment: Assessment{},
		},
		Campaign: Campaign{Status: StatusIdle},
		Checkins: map[string]*Checkin{},
		Journey:  newJourney(),
	}
}

// DecodeState rebuilds a State from its serialized form. Malformed input is
// never fatal: decoding starts from the defaults so absent fields keep their
// default values, a parse failure falls back to a fresh state, and whatever
// did decode is clamped back inside its invariants.
func DecodeState(data []byte) *State {
	s := NewState()
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		return NewState()
	}
	sanitize(s)
	return s
}

// EncodeState serializes the state document.
func EncodeState(s *State) ([]byte, error) {
	return json.Marshal(s)
}

func sanitize(s *State) {
	s.Version = stateVersion

	switch s.Onboarding.Step {
	case StepIntro, StepAssessment, StepDifficulty, StepDone:
	default:
		s.Onboarding.Step = StepIntro
	}
	if s.Onboarding.Assessment == nil {
		s.Onboarding.Assessment = Assessment{}
	}
	for id, score := range s.Onboarding.Assessment {
		if score < 0 {
			s.Onboarding.Assessment[id] = 0
		}
		if score > 4 {
			s.Onboarding.Assessment[id] = 4
		}
	}

	switch s.Campaign.Status {
	case StatusIdle, StatusActive, StatusFinished:
	default:
		s.Campaign.Status = StatusIdle
	}
	switch s.Campaign.RiskMood {
	case "", MoodEasy, MoodOK, MoodEdge:
	default:
		s.Campaign.RiskMood = ""
	}

	levels := s.Campaign.Levels[:0]
	for _, lvl := range s.Campaign.Levels {
		if lvl == nil || lvl.TargetDays <= 0 {
			continue
		}
		if lvl.ProgressDays < 0 {
			lvl.ProgressDays = 0
		}
		if lvl.ProgressDays > lvl.TargetDays {
			lvl.ProgressDays = lvl.TargetDays
		}
		levels = append(levels, lvl)
	}
	s.Campaign.Levels = levels

	if s.Campaign.CurrentIndex < 0 {
		s.Campaign.CurrentIndex = 0
	}
	if s.Campaign.CurrentIndex > len(s.Campaign.Levels) {
		s.Campaign.CurrentIndex = len(s.Campaign.Levels)
	}

	if s.Checkins == nil {
		s.Checkins = map[string]*Checkin{}
	}
	for date, c := range s.Checkins {
		if c == nil {
			delete(s.Checkins, date)
			continue
		}
		c.Date = date
	}

	sanitizeJourney(&s.Journey)
}
