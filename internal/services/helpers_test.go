package services

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/phase"
	"github.com/campusbeast/beastweek/internal/repository"
	"github.com/campusbeast/beastweek/internal/testutil"
)

// monday is a known Monday 00:00 used as the base of test weeks
var monday = time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)

// at returns a time d days into the test week
func at(d, hour, min, sec int) time.Time {
	day := phase.DayAt(monday, d, 0)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, sec, 0, day.Location())
}

// testClock is a settable wall clock shared by an engine under test
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func testLogger() logger.Logger {
	return logger.NewWithLevel(slog.LevelError)
}

// newTestEngine wires a full controller over an in-memory store with a
// settable clock
func newTestEngine(t *testing.T, start time.Time) (*CycleController, *testClock, repository.FullRepository) {
	t.Helper()

	log := testLogger()
	repo := testutil.NewTestRepository(t)
	clock := newTestClock(start)

	weeks := NewWeekService(log, repo)
	submissions := NewSubmissionService(log, repo, weeks)
	voting := NewVotingService(log, repo, weeks)

	ctrl := NewCycleController(log, weeks, submissions, voting, repo)
	ctrl.SetClock(clock.Now)

	return ctrl, clock, repo
}
