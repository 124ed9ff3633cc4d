// Package phase derives the Beast Week competition phase from wall-clock time.
//
// The weekly schedule is fixed and keyed by day-of-week relative to the week's
// start (a Monday 00:00 local time):
//
//	Monday                        BEAST_REVEAL
//	Tuesday - Wednesday           SUBMISSIONS_OPEN
//	Thursday - Saturday 17:59:59  VOTING_OPEN
//	Saturday 18:00 - 23:59:59     FINALE_DAY
//	Sunday                        COOLDOWN_REEL
//
// The five windows partition the week with no gaps or overlaps, so For always
// returns exactly one phase for any instant.
package phase

import (
	"fmt"
	"math"
	"time"
)

// Phase is one of the five mutually exclusive weekly states
type Phase int

const (
	BeastReveal Phase = iota
	SubmissionsOpen
	VotingOpen
	FinaleDay
	CooldownReel
)

// finaleHour is the hour (local time) on Saturday when voting closes
// and the finale begins.
const finaleHour = 18

// launchYear/launchMonth/launchDay pin week numbering to the first
// Beast Week (Monday 2025-01-06 is week 1).
const (
	launchYear  = 2025
	launchMonth = time.January
	launchDay   = 6
)

// String returns the wire name for the phase
func (p Phase) String() string {
	switch p {
	case BeastReveal:
		return "beast_reveal"
	case SubmissionsOpen:
		return "submissions_open"
	case VotingOpen:
		return "voting_open"
	case FinaleDay:
		return "finale_day"
	case CooldownReel:
		return "cooldown_reel"
	}
	return "unknown"
}

// Next returns the phase that follows p in the weekly cycle.
// CooldownReel wraps back to BeastReveal of the next week.
func (p Phase) Next() Phase {
	if p == CooldownReel {
		return BeastReveal
	}
	return p + 1
}

// For returns the phase active at now, given the start of the week
// (Monday 00:00 local). Day indexing is cyclic, so an instant outside
// [weekStart, weekStart+7d) still maps to a phase; callers that care about
// week identity must synthesize a fresh week first (see week service).
func For(now, weekStart time.Time) Phase {
	day := ((dayIndex(now, weekStart) % 7) + 7) % 7
	switch day {
	case 0:
		return BeastReveal
	case 1, 2:
		return SubmissionsOpen
	case 3, 4:
		return VotingOpen
	case 5:
		if now.Hour() >= finaleHour {
			return FinaleDay
		}
		return VotingOpen
	default:
		return CooldownReel
	}
}

// NextTransition returns the instant of the next phase boundary strictly
// after now within the week starting at weekStart. When now is past the
// last boundary of the week, the next Monday 00:00 is returned.
func NextTransition(now, weekStart time.Time) time.Time {
	for _, b := range Boundaries(weekStart) {
		if b.After(now) {
			return b
		}
	}
	return DayAt(weekStart, 7, 0)
}

// Boundaries returns the five transition instants of the week starting at
// weekStart, in order: submissions open, voting opens, finale begins,
// cooldown begins, next week begins.
func Boundaries(weekStart time.Time) [5]time.Time {
	return [5]time.Time{
		DayAt(weekStart, 1, 0),          // Tuesday 00:00
		DayAt(weekStart, 3, 0),          // Thursday 00:00
		DayAt(weekStart, 5, finaleHour), // Saturday 18:00
		DayAt(weekStart, 6, 0),          // Sunday 00:00
		DayAt(weekStart, 7, 0),          // next Monday 00:00
	}
}

// WeekStart returns the most recent Monday 00:00 at or before now,
// in now's location.
func WeekStart(now time.Time) time.Time {
	daysBack := (int(now.Weekday()) + 6) % 7 // Monday -> 0 ... Sunday -> 6
	d := now.AddDate(0, 0, -daysBack)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// WeekNumber returns the 1-based sequential number of the week starting at
// weekStart, counted from the launch Monday.
func WeekNumber(weekStart time.Time) int {
	launch := time.Date(launchYear, launchMonth, launchDay, 0, 0, 0, 0, weekStart.Location())
	weeks := math.Round(weekStart.Sub(launch).Hours() / (24 * 7))
	return int(weeks) + 1
}

// DayAt returns the instant at hour:00 on weekStart's date plus days.
// Built with calendar arithmetic so DST shifts don't skew the boundary.
func DayAt(weekStart time.Time, days, hour int) time.Time {
	d := weekStart.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
}

// FormatCountdown renders a duration at decreasing granularity:
// days+hours when over 24h, hours+minutes when over 1h, minutes+seconds
// otherwise. Negative durations render as "0m 0s".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d > 24*time.Hour:
		days := int(d.Hours()) / 24
		hours := int(d.Hours()) % 24
		return fmt.Sprintf("%dd %dh", days, hours)
	case d > time.Hour:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
}

// dayIndex returns whole calendar days from weekStart's date to now's date.
// Rounding absorbs the odd-length days that DST transitions produce.
func dayIndex(now, weekStart time.Time) int {
	y1, m1, d1 := weekStart.Date()
	y2, m2, d2 := now.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location())
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location())
	return int(math.Round(b.Sub(a).Hours() / 24))
}
