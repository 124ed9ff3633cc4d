package mock

import (
	"context"

	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database
// manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateClipError = errors.New("store down")
//	svc := services.NewSubmissionService(log, mockRepo, weeks)
//	_, err := svc.Submit(ctx, "user-1", sub)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Week Errors =====
	CreateWeekError     error
	GetWeekError        error
	GetActiveWeekError  error
	DeactivateWeekError error

	// ===== Clip Errors =====
	CreateClipError         error
	GetClipError            error
	ListClipsError          error
	HasClipError            error
	IncrementVoteCountError error
	SetClipStatusError      error
	SubscribeClipsError     error

	// ===== Vote Errors =====
	CreateVoteError error
	DeleteVoteError error
	HasVotedError   error
	CountVotesError error

	// ===== Stats Errors =====
	GetWeekStatsError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Week Methods =====

func (m *Repository) CreateWeek(ctx context.Context, week *models.BeastWeek) error {
	if m.CreateWeekError != nil {
		return m.CreateWeekError
	}
	return m.FullRepository.CreateWeek(ctx, week)
}

func (m *Repository) GetWeek(ctx context.Context, id string) (*models.BeastWeek, error) {
	if m.GetWeekError != nil {
		return nil, m.GetWeekError
	}
	return m.FullRepository.GetWeek(ctx, id)
}

func (m *Repository) GetActiveWeek(ctx context.Context) (*models.BeastWeek, error) {
	if m.GetActiveWeekError != nil {
		return nil, m.GetActiveWeekError
	}
	return m.FullRepository.GetActiveWeek(ctx)
}

func (m *Repository) DeactivateWeek(ctx context.Context, id string) error {
	if m.DeactivateWeekError != nil {
		return m.DeactivateWeekError
	}
	return m.FullRepository.DeactivateWeek(ctx, id)
}

// ===== Clip Methods =====

func (m *Repository) CreateClip(ctx context.Context, clip *models.BeastClip) error {
	if m.CreateClipError != nil {
		return m.CreateClipError
	}
	return m.FullRepository.CreateClip(ctx, clip)
}

func (m *Repository) GetClip(ctx context.Context, id string) (*models.BeastClip, error) {
	if m.GetClipError != nil {
		return nil, m.GetClipError
	}
	return m.FullRepository.GetClip(ctx, id)
}

func (m *Repository) ListClips(ctx context.Context, weekID string) ([]models.BeastClip, error) {
	if m.ListClipsError != nil {
		return nil, m.ListClipsError
	}
	return m.FullRepository.ListClips(ctx, weekID)
}

func (m *Repository) HasClip(ctx context.Context, weekID, userID string) (bool, error) {
	if m.HasClipError != nil {
		return false, m.HasClipError
	}
	return m.FullRepository.HasClip(ctx, weekID, userID)
}

func (m *Repository) IncrementVoteCount(ctx context.Context, clipID string) error {
	if m.IncrementVoteCountError != nil {
		return m.IncrementVoteCountError
	}
	return m.FullRepository.IncrementVoteCount(ctx, clipID)
}

func (m *Repository) SetClipStatus(ctx context.Context, clipID string, status models.ClipStatus, finalist bool) error {
	if m.SetClipStatusError != nil {
		return m.SetClipStatusError
	}
	return m.FullRepository.SetClipStatus(ctx, clipID, status, finalist)
}

func (m *Repository) SubscribeClips(ctx context.Context, weekID string) (<-chan []models.BeastClip, error) {
	if m.SubscribeClipsError != nil {
		return nil, m.SubscribeClipsError
	}
	return m.FullRepository.SubscribeClips(ctx, weekID)
}

// ===== Vote Methods =====

func (m *Repository) CreateVote(ctx context.Context, vote *models.BeastVote) error {
	if m.CreateVoteError != nil {
		return m.CreateVoteError
	}
	return m.FullRepository.CreateVote(ctx, vote)
}

func (m *Repository) DeleteVote(ctx context.Context, id string) error {
	if m.DeleteVoteError != nil {
		return m.DeleteVoteError
	}
	return m.FullRepository.DeleteVote(ctx, id)
}

func (m *Repository) HasVoted(ctx context.Context, weekID, userID string) (bool, error) {
	if m.HasVotedError != nil {
		return false, m.HasVotedError
	}
	return m.FullRepository.HasVoted(ctx, weekID, userID)
}

func (m *Repository) CountVotes(ctx context.Context, weekID string) (int, error) {
	if m.CountVotesError != nil {
		return 0, m.CountVotesError
	}
	return m.FullRepository.CountVotes(ctx, weekID)
}

// ===== Stats Methods =====

func (m *Repository) GetWeekStats(ctx context.Context, weekID string) (map[string]interface{}, error) {
	if m.GetWeekStatsError != nil {
		return nil, m.GetWeekStatsError
	}
	return m.FullRepository.GetWeekStats(ctx, weekID)
}
