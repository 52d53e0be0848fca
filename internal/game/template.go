package game

import "sort"

// Difficulty is chosen once at campaign start and never changes after.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// LevelTemplate is a static level definition belonging to a track.
type LevelTemplate struct {
	Title      string
	TargetDays int
	Predicate  Predicate
}

// Caffeine dose types offered by the check-in form and referenced by the
// categorical predicates.
var CaffTypes = []string{"coffee", "tea", "energy drink", "decaf", "herbal"}

var trackTemplates = map[TrackID][]LevelTemplate{
	TrackNoFap: {
		{Title: "First clean day", TargetDays: 1, Predicate: Predicate{Kind: PredRestraintStrict}},
		{Title: "No P for two days", TargetDays: 2, Predicate: Predicate{Kind: PredRestraintPartial, Flag: "p"}},
		{Title: "No M for three days", TargetDays: 3, Predicate: Predicate{Kind: PredRestraintPartial, Flag: "m"}},
		{Title: "Clean three", TargetDays: 3, Predicate: Predicate{Kind: PredRestraintStrict}},
		{Title: "Clean five", TargetDays: 5, Predicate: Predicate{Kind: PredRestraintStrict}},
		{Title: "Clean week", TargetDays: 7, Predicate: Predicate{Kind: PredRestraintStrict}},
		{Title: "Clean ten", TargetDays: 10, Predicate: Predicate{Kind: PredRestraintStrict}},
		{Title: "Clean fortnight", TargetDays: 14, Predicate: Predicate{Kind: PredRestraintStrict}},
	},
	TrackCaffeine: {
		{Title: "Water before coffee", TargetDays: 2, Predicate: Predicate{Kind: PredWaterFirst}},
		{Title: "Delay the first dose", TargetDays: 2, Predicate: Predicate{Kind: PredDoseDelay, MinDelayMin: 60}},
		{Title: "Half a dose less", TargetDays: 3, Predicate: Predicate{Kind: PredMicroDose}},
		{Title: "Nothing after 16:00", TargetDays: 3, Predicate: Predicate{Kind: PredDoseCutoff, Cutoff: "16:00"}},
		{Title: "Switch to tea", TargetDays: 3, Predicate: Predicate{Kind: PredTypeIncludes, Substring: "tea"}},
		{Title: "Gentle brews only", TargetDays: 4, Predicate: Predicate{Kind: PredTypeInSet, AllowedTypes: []string{"decaf", "herbal"}}},
		{Title: "One, and early", TargetDays: 5, Predicate: Predicate{Kind: PredOneAndEarly, MaxDoses: 1, Cutoff: "14:00"}},
		{Title: "Zero week", TargetDays: 7, Predicate: Predicate{Kind: PredZeroDoses}},
	},
	TrackStrength: {
		{Title: "Warm-up set", TargetDays: 2, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 10, MinSquats: 15, MinAbs: 10}},
		{Title: "Keep it moving", TargetDays: 3, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 15, MinSquats: 20, MinAbs: 15}},
		{Title: "Base volume", TargetDays: 3, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 20, MinSquats: 30, MinAbs: 20}},
		{Title: "Pushing up", TargetDays: 4, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 25, MinSquats: 40, MinAbs: 25}},
		{Title: "Solid daily set", TargetDays: 5, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 30, MinSquats: 50, MinAbs: 30}},
		{Title: "Heavier set", TargetDays: 5, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 35, MinSquats: 60, MinAbs: 35}},
		{Title: "Strong week", TargetDays: 7, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 40, MinSquats: 70, MinAbs: 40}},
		{Title: "Iron week", TargetDays: 7, Predicate: Predicate{Kind: PredExertionMin, MinPushups: 50, MinSquats: 80, MinAbs: 50}},
	},
}

// templateOverride adjusts one template at a fixed 1-based ordinal within a
// track. A zero TargetDays keeps the template's own target; a non-nil
// Predicate swaps the rule for a harder or easier variant.
type templateOverride struct {
	TargetDays int
	Predicate  *Predicate
}

var strictRestraint = Predicate{Kind: PredRestraintStrict}

// difficultyOverrides is the deterministic per-difficulty table keyed by
// track and template position. Medium plays the catalog as written.
var difficultyOverrides = map[Difficulty]map[TrackID]map[int]templateOverride{
	DifficultyEasy: {
		TrackNoFap: {
			6: {TargetDays: 5},
			7: {TargetDays: 7},
			8: {TargetDays: 10},
		},
		TrackCaffeine: {
			7: {TargetDays: 4},
			8: {TargetDays: 5},
		},
		TrackStrength: {
			7: {TargetDays: 5},
			8: {TargetDays: 5},
		},
	},
	DifficultyHard: {
		TrackNoFap: {
			2: {Predicate: &strictRestraint},
			3: {Predicate: &strictRestraint},
			7: {TargetDays: 12},
			8: {TargetDays: 16},
		},
		TrackCaffeine: {
			7: {TargetDays: 7},
			8: {TargetDays: 10},
		},
		TrackStrength: {
			7: {TargetDays: 10},
			8: {TargetDays: 10},
		},
	},
}

// bossTargetDays scales the synthesized final level with difficulty.
var bossTargetDays = map[Difficulty]int{
	DifficultyEasy:   7,
	DifficultyMedium: 10,
	DifficultyHard:   14,
}

// templatesFor returns the track's template list with the difficulty table
// applied. The catalog itself is never mutated.
func templatesFor(track TrackID, d Difficulty) []LevelTemplate {
	base := trackTemplates[track]
	out := make([]LevelTemplate, len(base))
	copy(out, base)

	for ordinal, ov := range difficultyOverrides[d][track] {
		i := ordinal - 1
		if i < 0 || i >= len(out) {
			continue
		}
		if ov.TargetDays > 0 {
			out[i].TargetDays = ov.TargetDays
		}
		if ov.Predicate != nil {
			out[i].Predicate = *ov.Predicate
		}
	}
	return out
}

// Baseline is the per-track personalization snapshot taken once at campaign
// start. It must not drift as history evolves mid-campaign.
type Baseline struct {
	CaffeineDoses float64 `json:"caffeineDoses"`
}

const defaultBaselineDoses = 2

// ComputeBaseline derives the personalization from the last three recorded
// check-ins; with no history the default applies.
func ComputeBaseline(checkins map[string]*Checkin) Baseline {
	dates := make([]string, 0, len(checkins))
	for d := range checkins {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > 3 {
		dates = dates[len(dates)-3:]
	}
	if len(dates) == 0 {
		return Baseline{CaffeineDoses: defaultBaselineDoses}
	}

	var sum float64
	for _, d := range dates {
		sum += checkins[d].CaffDoses
	}
	return Baseline{CaffeineDoses: sum / float64(len(dates))}
}
