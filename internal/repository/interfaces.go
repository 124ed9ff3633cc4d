package repository

import (
	"context"

	"github.com/campusbeast/beastweek/internal/models"
)

// WeekRepository defines week data operations
type WeekRepository interface {
	CreateWeek(ctx context.Context, week *models.BeastWeek) error
	GetWeek(ctx context.Context, id string) (*models.BeastWeek, error)
	// GetActiveWeek returns the single active week, or ErrNotFound when
	// no cycle has been created yet.
	GetActiveWeek(ctx context.Context) (*models.BeastWeek, error)
	DeactivateWeek(ctx context.Context, id string) error
}

// ClipRepository defines clip data operations
type ClipRepository interface {
	CreateClip(ctx context.Context, clip *models.BeastClip) error
	GetClip(ctx context.Context, id string) (*models.BeastClip, error)
	// ListClips returns a week's clips in submission order.
	ListClips(ctx context.Context, weekID string) ([]models.BeastClip, error)
	HasClip(ctx context.Context, weekID, userID string) (bool, error)
	// IncrementVoteCount adds one vote to a clip as a single store-side
	// mutation. Concurrent voters must never lose increments.
	IncrementVoteCount(ctx context.Context, clipID string) error
	SetClipStatus(ctx context.Context, clipID string, status models.ClipStatus, finalist bool) error
	// SubscribeClips delivers snapshots of a week's clips whenever they
	// change. The channel closes when ctx is cancelled. Snapshots are
	// latest-wins: a slow consumer sees the newest state, not every
	// intermediate one.
	SubscribeClips(ctx context.Context, weekID string) (<-chan []models.BeastClip, error)
}

// VoteRepository defines vote data operations
type VoteRepository interface {
	CreateVote(ctx context.Context, vote *models.BeastVote) error
	// DeleteVote removes a vote record by id. The voting gate uses it to
	// unwind a vote whose counter increment failed.
	DeleteVote(ctx context.Context, id string) error
	HasVoted(ctx context.Context, weekID, userID string) (bool, error)
	CountVotes(ctx context.Context, weekID string) (int, error)
}

// StatsRepository defines aggregate reads for the admin surface
type StatsRepository interface {
	GetWeekStats(ctx context.Context, weekID string) (map[string]interface{}, error)
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type FullRepository interface {
	WeekRepository
	ClipRepository
	VoteRepository
	StatsRepository
	Ping(ctx context.Context) error
	Close() error
}

// Ensure both backends implement all interfaces
var (
	_ FullRepository = (*Repository)(nil)
	_ FullRepository = (*DocstoreRepository)(nil)
)
