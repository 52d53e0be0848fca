package game

import "time"

// DateFormat is the calendar-date layout used as the check-in map key.
const DateFormat = "2006-01-02"

// Clock supplies the single source of truth for "today". All day-boundary
// logic is pinned to one time zone regardless of where the device runs.
type Clock interface {
	Now() time.Time
	Today() string
}

type wallClock struct {
	loc *time.Location
}

// NewClock returns a clock pinned to Europe/Kiev. If the zone database is
// unavailable the clock falls back to UTC rather than failing.
func NewClock() Clock {
	loc, err := time.LoadLocation("Europe/Kiev")
	if err != nil {
		loc = time.UTC
	}
	return wallClock{loc: loc}
}

func (c wallClock) Now() time.Time {
	return time.Now()
}

func (c wallClock) Today() string {
	return time.Now().In(c.loc).Format(DateFormat)
}

// FixedClock is a deterministic clock for tests.
type FixedClock struct {
	Time time.Time
	Date string
}

func (c FixedClock) Now() time.Time { return c.Time }
func (c FixedClock) Today() string  { return c.Date }
