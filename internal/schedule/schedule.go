// Package schedule turns wall-clock time into the discrete triggers the
// recap bot acts on. The ticker fires once a minute; each trigger matches a
// single minute of the day, so one-minute granularity is the intended
// contract, not an accident of the loop.
package schedule

import (
	"time"
	// Embed tzdata for environments without zoneinfo.
	_ "time/tzdata"
)

// Trigger minutes, in the configured reporting time zone.
const (
	recapHour   = 23
	recapMinute = 58

	verifyMinute = 0

	resetHour   = 0
	resetMinute = 1

	// Posts are only accepted between 00:03 and 23:55. The gap covers the
	// recap dispatch and the midnight safety reset so a post cannot land
	// between a recap being read and the store being cleared.
	windowOpenMinute  = 3
	windowCloseMinute = 55
	lastHour          = 23
)

// Schedule evaluates triggers in a fixed location.
type Schedule struct {
	loc *time.Location
}

func New(loc *time.Location) *Schedule {
	return &Schedule{loc: loc}
}

// RecapDue reports whether the daily recap should be dispatched this minute.
func (s *Schedule) RecapDue(now time.Time) bool {
	local := now.In(s.loc)

	return local.Hour() == recapHour && local.Minute() == recapMinute
}

// VerifyDue reports whether the hourly store parse check should run.
func (s *Schedule) VerifyDue(now time.Time) bool {
	return now.In(s.loc).Minute() == verifyMinute
}

// MidnightResetDue reports whether the post-midnight safety reset should
// run. It only clears the store when the recap dispatch left content behind.
func (s *Schedule) MidnightResetDue(now time.Time) bool {
	local := now.In(s.loc)

	return local.Hour() == resetHour && local.Minute() == resetMinute
}

// InActiveWindow reports whether inbound posts are currently accepted.
func (s *Schedule) InActiveWindow(now time.Time) bool {
	local := now.In(s.loc)
	hour, minute := local.Hour(), local.Minute()

	switch hour {
	case 0:
		return minute >= windowOpenMinute
	case lastHour:
		return minute <= windowCloseMinute
	default:
		return true
	}
}
