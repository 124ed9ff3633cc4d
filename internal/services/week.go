package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/phase"
	"github.com/campusbeast/beastweek/internal/repository"
)

// Default week parameters. Prize and sponsor data normally come from the
// partnerships backend; these are the standalone defaults.
const (
	defaultPrizeCash      = 500
	defaultMaxClipSeconds = 60
)

// weeklyThemes rotate by week number
var weeklyThemes = []struct {
	Theme       string
	Description string
}{
	{"Dining Hall Heist", "Pull off the most creative (harmless) stunt in a dining hall."},
	{"Campus Parkour", "The most impressive route from the library to the quad wins."},
	{"Lecture Hall Talent Show", "60 seconds of raw talent, filmed before class starts."},
	{"Dorm Room Olympics", "Invent an event. Compete in it. Film it."},
	{"Mascot Mayhem", "Out-mascot the mascot."},
	{"Midnight Snack Masters", "Cook something legendary with only dorm equipment."},
}

// WeekService owns the competition week lifecycle: lazy creation, expiry
// detection, and supersession when a new calendar week begins
type WeekService struct {
	log  logger.Logger
	repo repository.WeekRepository
	now  func() time.Time
}

// NewWeekService creates a new WeekService
func NewWeekService(log logger.Logger, repo repository.WeekRepository) *WeekService {
	return &WeekService{log: log, repo: repo, now: time.Now}
}

// SetClock replaces the wall clock, for deterministic tests
func (s *WeekService) SetClock(now func() time.Time) {
	s.now = now
}

// CurrentWeek returns the active week, synthesizing one lazily when none
// exists or when the stored week's span has elapsed
func (s *WeekService) CurrentWeek(ctx context.Context) (*models.BeastWeek, error) {
	week, err := s.repo.GetActiveWeek(ctx)
	if err == repository.ErrNotFound {
		return s.startNewWeek(ctx)
	}
	if err != nil {
		return nil, err
	}

	// EndDate is Sunday's last displayed second; the week itself runs
	// until the next Monday 00:00
	if !s.now().Before(phase.DayAt(week.StartDate, 7, 0)) {
		if err := s.repo.DeactivateWeek(ctx, week.ID); err != nil {
			return nil, err
		}
		s.log.Info("Week expired", "number", week.Number, "ended", week.EndDate)
		return s.startNewWeek(ctx)
	}

	return week, nil
}

// StartNewWeek forces a fresh cycle, superseding the active week if any.
// Used by the admin reset; the normal path is lazy expiry in CurrentWeek.
func (s *WeekService) StartNewWeek(ctx context.Context) (*models.BeastWeek, error) {
	week, err := s.repo.GetActiveWeek(ctx)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	if err == nil {
		if err := s.repo.DeactivateWeek(ctx, week.ID); err != nil {
			return nil, err
		}
	}
	return s.startNewWeek(ctx)
}

// startNewWeek synthesizes the week containing now: Monday 00:00 start,
// 7-day span, deadlines on the fixed weekly schedule
func (s *WeekService) startNewWeek(ctx context.Context) (*models.BeastWeek, error) {
	start := phase.WeekStart(s.now())
	number := phase.WeekNumber(start)
	theme := weeklyThemes[((number-1)%len(weeklyThemes)+len(weeklyThemes))%len(weeklyThemes)]

	week := &models.BeastWeek{
		ID:                 uuid.NewString(),
		Number:             number,
		Title:              fmt.Sprintf("Beast Week %d", number),
		Description:        theme.Description,
		Theme:              theme.Theme,
		StartDate:          start,
		EndDate:            phase.DayAt(start, 7, 0).Add(-time.Second),  // Sunday 23:59:59
		SubmissionDeadline: phase.DayAt(start, 3, 0).Add(-time.Second),  // Wednesday 23:59:59
		VotingDeadline:     phase.DayAt(start, 5, 18),                   // Saturday 18:00
		FinaleTime:         phase.DayAt(start, 6, 0).Add(-time.Second),  // Saturday 23:59:59
		PrizeCash:          defaultPrizeCash,
		MaxClipSeconds:     defaultMaxClipSeconds,
		Active:             true,
	}

	if err := s.repo.CreateWeek(ctx, week); err != nil {
		return nil, err
	}

	s.log.Info("New week created", "number", week.Number, "theme", week.Theme, "start", week.StartDate)
	return week, nil
}
