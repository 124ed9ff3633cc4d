package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/phase"
	"github.com/campusbeast/beastweek/internal/repository"
)

// ClipSubmission is the payload for a new clip
type ClipSubmission struct {
	MediaURL        string
	Caption         string
	DurationSeconds int
	ShowUsername    bool
	Anonymous       bool
}

// SubmissionService enforces the one-clip-per-user gate and the submission
// window before handing clips to the store
type SubmissionService struct {
	log   logger.Logger
	repo  repository.ClipRepository
	weeks WeekServicer
	now   func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(log logger.Logger, repo repository.ClipRepository, weeks WeekServicer) *SubmissionService {
	return &SubmissionService{log: log, repo: repo, weeks: weeks, now: time.Now}
}

// SetClock replaces the wall clock, for deterministic tests
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// Submit validates and stores a clip for the current week.
// The gate is phase first, then payload, then the duplicate check; a
// rejected submission never reaches the store.
func (s *SubmissionService) Submit(ctx context.Context, userID string, sub ClipSubmission) (*models.BeastClip, error) {
	week, err := s.weeks.CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	if phase.For(s.now(), week.StartDate) != phase.SubmissionsOpen {
		return nil, ErrPhaseClosed
	}

	if sub.MediaURL == "" {
		return nil, ErrMissingMedia
	}
	if sub.DurationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}
	if sub.DurationSeconds > week.MaxClipSeconds {
		return nil, ErrClipTooLong
	}

	has, err := s.repo.HasClip(ctx, week.ID, userID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrDuplicateSubmission
	}

	clip := &models.BeastClip{
		ID:              uuid.NewString(),
		UserID:          userID,
		WeekID:          week.ID,
		MediaURL:        sub.MediaURL,
		Caption:         sub.Caption,
		DurationSeconds: sub.DurationSeconds,
		Status:          models.ClipStatusApproved,
		CreatedAt:       s.now(),
		ShowUsername:    sub.ShowUsername,
		Anonymous:       sub.Anonymous,
	}

	if err := s.repo.CreateClip(ctx, clip); err != nil {
		return nil, err
	}

	s.log.Info("Clip submitted", "clip_id", clip.ID, "user_id", userID, "week_id", week.ID)
	return clip, nil
}

// HasSubmitted reports whether the user already has a clip in the current week
func (s *SubmissionService) HasSubmitted(ctx context.Context, userID string) (bool, error) {
	week, err := s.weeks.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	return s.repo.HasClip(ctx, week.ID, userID)
}

// GetClip retrieves a clip by id
func (s *SubmissionService) GetClip(ctx context.Context, id string) (*models.BeastClip, error) {
	clip, err := s.repo.GetClip(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrClipNotFound
	}
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// ListClips returns the current week's clips in submission order
func (s *SubmissionService) ListClips(ctx context.Context) ([]models.BeastClip, error) {
	week, err := s.weeks.CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListClips(ctx, week.ID)
}
