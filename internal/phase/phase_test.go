package phase_test

import (
	"testing"
	"time"

	"github.com/campusbeast/beastweek/internal/phase"
)

// weekStart is Monday 2025-01-13 00:00 local time, used throughout
var weekStart = time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)

// TestFor_WindowsMatchSchedule tests the fixed weekly schedule
func TestFor_WindowsMatchSchedule(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want phase.Phase
	}{
		{"monday morning", time.Date(2025, 1, 13, 9, 0, 0, 0, time.Local), phase.BeastReveal},
		{"monday last second", time.Date(2025, 1, 13, 23, 59, 59, 0, time.Local), phase.BeastReveal},
		{"tuesday midnight", time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local), phase.SubmissionsOpen},
		{"tuesday mid-morning", time.Date(2025, 1, 14, 10, 0, 0, 0, time.Local), phase.SubmissionsOpen},
		{"wednesday last second", time.Date(2025, 1, 15, 23, 59, 59, 0, time.Local), phase.SubmissionsOpen},
		{"thursday midnight", time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local), phase.VotingOpen},
		{"thursday mid-morning", time.Date(2025, 1, 16, 10, 0, 0, 0, time.Local), phase.VotingOpen},
		{"saturday before finale", time.Date(2025, 1, 18, 17, 59, 59, 0, time.Local), phase.VotingOpen},
		{"saturday 6pm exactly", time.Date(2025, 1, 18, 18, 0, 0, 0, time.Local), phase.FinaleDay},
		{"saturday last second", time.Date(2025, 1, 18, 23, 59, 59, 0, time.Local), phase.FinaleDay},
		{"sunday midnight", time.Date(2025, 1, 19, 0, 0, 0, 0, time.Local), phase.CooldownReel},
		{"sunday last second", time.Date(2025, 1, 19, 23, 59, 59, 0, time.Local), phase.CooldownReel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phase.For(tt.at, weekStart); got != tt.want {
				t.Errorf("For(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

// TestFor_PartitionsWeek tests that every hour of the week maps to exactly
// one phase and that phases only change at the published boundaries
func TestFor_PartitionsWeek(t *testing.T) {
	counts := make(map[phase.Phase]int)

	for h := 0; h < 7*24; h++ {
		at := weekStart.Add(time.Duration(h) * time.Hour)
		p := phase.For(at, weekStart)
		if p.String() == "unknown" {
			t.Fatalf("hour %d mapped to unknown phase", h)
		}
		counts[p]++
	}

	// 24h reveal, 48h submissions, 66h voting, 6h finale, 24h cooldown
	want := map[phase.Phase]int{
		phase.BeastReveal:     24,
		phase.SubmissionsOpen: 48,
		phase.VotingOpen:      66,
		phase.FinaleDay:       6,
		phase.CooldownReel:    24,
	}
	for p, n := range want {
		if counts[p] != n {
			t.Errorf("phase %v active for %d hours, want %d", p, counts[p], n)
		}
	}
}

// TestFor_CyclicOutsideWeek tests that instants outside the week wrap
func TestFor_CyclicOutsideWeek(t *testing.T) {
	nextMonday := time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)
	if got := phase.For(nextMonday, weekStart); got != phase.BeastReveal {
		t.Errorf("next Monday = %v, want BeastReveal", got)
	}

	prevSunday := time.Date(2025, 1, 12, 12, 0, 0, 0, time.Local)
	if got := phase.For(prevSunday, weekStart); got != phase.CooldownReel {
		t.Errorf("previous Sunday = %v, want CooldownReel", got)
	}
}

// TestNext_CyclesThroughAllPhases tests the transition order
func TestNext_CyclesThroughAllPhases(t *testing.T) {
	order := []phase.Phase{
		phase.BeastReveal,
		phase.SubmissionsOpen,
		phase.VotingOpen,
		phase.FinaleDay,
		phase.CooldownReel,
	}
	for i, p := range order {
		want := order[(i+1)%len(order)]
		if got := p.Next(); got != want {
			t.Errorf("%v.Next() = %v, want %v", p, got, want)
		}
	}
}

// TestNextTransition_ReturnsUpcomingBoundary tests boundary lookup
func TestNextTransition_ReturnsUpcomingBoundary(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			"monday morning -> tuesday midnight",
			time.Date(2025, 1, 13, 9, 0, 0, 0, time.Local),
			time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local),
		},
		{
			"wednesday -> thursday midnight",
			time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local),
			time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local),
		},
		{
			"friday -> saturday 6pm",
			time.Date(2025, 1, 17, 12, 0, 0, 0, time.Local),
			time.Date(2025, 1, 18, 18, 0, 0, 0, time.Local),
		},
		{
			"saturday evening -> sunday midnight",
			time.Date(2025, 1, 18, 20, 0, 0, 0, time.Local),
			time.Date(2025, 1, 19, 0, 0, 0, 0, time.Local),
		},
		{
			"sunday -> next monday",
			time.Date(2025, 1, 19, 12, 0, 0, 0, time.Local),
			time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phase.NextTransition(tt.at, weekStart); !got.Equal(tt.want) {
				t.Errorf("NextTransition(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

// TestNextTransition_IsAlwaysInFuture tests every hour of the week
func TestNextTransition_IsAlwaysInFuture(t *testing.T) {
	for h := 0; h < 7*24; h++ {
		at := weekStart.Add(time.Duration(h) * time.Hour)
		next := phase.NextTransition(at, weekStart)
		if !next.After(at) {
			t.Fatalf("NextTransition(%v) = %v, not in the future", at, next)
		}
	}
}

// TestWeekStart_FindsMostRecentMonday tests Monday normalization
func TestWeekStart_FindsMostRecentMonday(t *testing.T) {
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		at   time.Time
	}{
		{"monday itself", time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)},
		{"monday noon", time.Date(2025, 1, 13, 12, 0, 0, 0, time.Local)},
		{"wednesday", time.Date(2025, 1, 15, 8, 30, 0, 0, time.Local)},
		{"sunday night", time.Date(2025, 1, 19, 23, 59, 59, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phase.WeekStart(tt.at); !got.Equal(monday) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.at, got, monday)
			}
		})
	}
}

// TestWeekNumber_CountsFromLaunch tests sequential week numbering
func TestWeekNumber_CountsFromLaunch(t *testing.T) {
	tests := []struct {
		start time.Time
		want  int
	}{
		{time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local), 1},
		{time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local), 2},
		{time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local), 3},
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local), 22},
	}
	for _, tt := range tests {
		if got := phase.WeekNumber(tt.start); got != tt.want {
			t.Errorf("WeekNumber(%v) = %d, want %d", tt.start, got, tt.want)
		}
	}
}

// TestFormatCountdown_GranularitySteps tests the countdown format
func TestFormatCountdown_GranularitySteps(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{49*time.Hour + 30*time.Minute, "2d 1h"},
		{25 * time.Hour, "1d 1h"},
		{5*time.Hour + 12*time.Minute, "5h 12m"},
		{61 * time.Minute, "1h 1m"},
		{12*time.Minute + 30*time.Second, "12m 30s"},
		{45 * time.Second, "0m 45s"},
		{0, "0m 0s"},
		{-5 * time.Second, "0m 0s"},
	}
	for _, tt := range tests {
		if got := phase.FormatCountdown(tt.d); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
