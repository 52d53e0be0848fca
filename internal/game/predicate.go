package game

import (
	"strconv"
	"strings"
)

// PredicateKind tags the rule a level's daily check-in is judged against.
// The set is closed; Evaluate lists every kind and anything unknown fails.
type PredicateKind string

const (
	// All three restraint flags must be false.
	PredRestraintStrict PredicateKind = "restraint_strict"
	// One specific restraint flag must be false.
	PredRestraintPartial PredicateKind = "restraint_partial"
	// Water before the first dose.
	PredWaterFirst PredicateKind = "water_first"
	// Delay before the first dose at or above a minimum.
	PredDoseDelay PredicateKind = "dose_delay"
	// Dose count at or below the personalized baseline minus 0.5.
	PredMicroDose PredicateKind = "micro_dose"
	// Last dose no later than a time-of-day cutoff (zero doses pass).
	PredDoseCutoff PredicateKind = "dose_cutoff"
	// Dose type contains a substring.
	PredTypeIncludes PredicateKind = "type_includes"
	// Dose type is one of an allowed set.
	PredTypeInSet PredicateKind = "type_in_set"
	// Exactly zero doses.
	PredZeroDoses PredicateKind = "zero_doses"
	// At most N doses, and any dose before the cutoff.
	PredOneAndEarly PredicateKind = "one_and_early"
	// All three exertion counters at or above their thresholds.
	PredExertionMin PredicateKind = "exertion_min"
)

// Predicate pairs a kind with its parameters. Parameters not used by the
// kind stay at their zero value and are omitted from the stored form.
type Predicate struct {
	Kind PredicateKind `json:"kind"`

	Flag          string   `json:"flag,omitempty"`          // restraint_partial: "p", "m" or "o"
	MinDelayMin   int      `json:"minDelayMin,omitempty"`   // dose_delay
	BaselineDoses float64  `json:"baselineDoses,omitempty"` // micro_dose, snapshot at build time
	Cutoff        string   `json:"cutoff,omitempty"`        // dose_cutoff, one_and_early: "HH:MM"
	MaxDoses      float64  `json:"maxDoses,omitempty"`      // one_and_early
	Substring     string   `json:"substring,omitempty"`     // type_includes
	AllowedTypes  []string `json:"allowedTypes,omitempty"`  // type_in_set
	MinPushups    int      `json:"minPushups,omitempty"`    // exertion_min
	MinSquats     int      `json:"minSquats,omitempty"`     // exertion_min
	MinAbs        int      `json:"minAbs,omitempty"`        // exertion_min
}

// Evaluate reports whether a day's check-in satisfies the predicate. It is
// total: a nil check-in, missing fields or an unparsable time all fail the
// predicate rather than erroring.
func Evaluate(p Predicate, c *Checkin) bool {
	if c == nil {
		return false
	}

	switch p.Kind {
	case PredRestraintStrict:
		return !c.P && !c.M && !c.O

	case PredRestraintPartial:
		switch p.Flag {
		case "p":
			return !c.P
		case "m":
			return !c.M
		case "o":
			return !c.O
		}
		return false

	case PredWaterFirst:
		return c.WaterFirst

	case PredDoseDelay:
		return c.FirstDoseDelayMin >= p.MinDelayMin

	case PredMicroDose:
		limit := p.BaselineDoses - 0.5
		if limit < 0 {
			limit = 0
		}
		return c.CaffDoses <= limit

	case PredDoseCutoff:
		if c.CaffDoses == 0 {
			return true
		}
		return lastDoseBefore(c, p.Cutoff)

	case PredTypeIncludes:
		return strings.Contains(c.CaffType, p.Substring)

	case PredTypeInSet:
		for _, t := range p.AllowedTypes {
			if c.CaffType == t {
				return true
			}
		}
		return false

	case PredZeroDoses:
		return c.CaffDoses == 0

	case PredOneAndEarly:
		if c.CaffDoses > p.MaxDoses {
			return false
		}
		return c.CaffDoses == 0 || lastDoseBefore(c, p.Cutoff)

	case PredExertionMin:
		return c.Pushups >= p.MinPushups && c.Squats >= p.MinSquats && c.Abs >= p.MinAbs
	}

	return false
}

// lastDoseBefore compares the check-in's last dose time against an "HH:MM"
// cutoff, inclusive. Either side failing to parse fails the comparison.
func lastDoseBefore(c *Checkin, cutoff string) bool {
	last, ok := parseClock(c.CaffLastTime)
	if !ok {
		return false
	}
	limit, ok := parseClock(cutoff)
	if !ok {
		return false
	}
	return last <= limit
}

// parseClock converts an "HH:MM" string to minutes since midnight. The
// second return is false when the string does not split into two numbers.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}
