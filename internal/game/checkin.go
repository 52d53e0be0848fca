package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCheckinLocked is returned when editing a check-in that was frozen by a
// level completion on its date.
var ErrCheckinLocked = errors.New("check-in is locked after level completion")

// Checkin is one day's honest record across the three tracks. Dates are the
// map keys in State.Checkins; at most one check-in exists per date.
type Checkin struct {
	Date string `json:"date"`

	// Restraint flags: true means the behavior happened that day.
	P    bool `json:"p"`
	M    bool `json:"m"`
	O    bool `json:"o"`
	Urge int  `json:"urge"`

	WaterFirst        bool    `json:"waterFirst"`
	FirstDoseDelayMin int     `json:"firstDoseDelayMin"`
	CaffDoses         float64 `json:"caffDoses"`
	CaffFirstTime     string  `json:"caffFirstTime"`
	CaffLastTime      string  `json:"caffLastTime"`
	CaffType          string  `json:"caffType"`

	Pushups int `json:"pushups"`
	Squats  int `json:"squats"`
	Abs     int `json:"abs"`

	Locked    bool      `json:"locked"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckinInput carries a submitted form. Required fields are pointers so a
// missing answer is distinguishable from a zero one.
type CheckinInput struct {
	P *bool
	M *bool
	O *bool

	Urge              int
	WaterFirst        bool
	FirstDoseDelayMin int
	CaffDoses         *float64
	CaffFirstTime     string
	CaffLastTime      string
	CaffType          string

	Pushups *int
	Squats  *int
	Abs     *int
}

// Validate reports the first unmet requirement, or nil. The required set is
// the three restraint flags, dose count and type, and the three exertion
// counters.
func (in CheckinInput) Validate() error {
	var missing []string
	if in.P == nil {
		missing = append(missing, "P flag")
	}
	if in.M == nil {
		missing = append(missing, "M flag")
	}
	if in.O == nil {
		missing = append(missing, "O flag")
	}
	if in.CaffDoses == nil {
		missing = append(missing, "dose count")
	}
	if in.CaffType == "" {
		missing = append(missing, "dose type")
	}
	if in.Pushups == nil {
		missing = append(missing, "pushups")
	}
	if in.Squats == nil {
		missing = append(missing, "squats")
	}
	if in.Abs == nil {
		missing = append(missing, "abs")
	}
	if len(missing) > 0 {
		return fmt.Errorf("check-in incomplete: %s required", strings.Join(missing, ", "))
	}
	return nil
}

func (in CheckinInput) toCheckin(date string, now time.Time) *Checkin {
	return &Checkin{
		Date:              date,
		P:                 *in.P,
		M:                 *in.M,
		O:                 *in.O,
		Urge:              in.Urge,
		WaterFirst:        in.WaterFirst,
		FirstDoseDelayMin: in.FirstDoseDelayMin,
		CaffDoses:         *in.CaffDoses,
		CaffFirstTime:     in.CaffFirstTime,
		CaffLastTime:      in.CaffLastTime,
		CaffType:          in.CaffType,
		Pushups:           *in.Pushups,
		Squats:            *in.Squats,
		Abs:               *in.Abs,
		UpdatedAt:         now,
	}
}
