package services

import (
	"context"

	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/phase"
)

// WeekServicer resolves the active competition week
type WeekServicer interface {
	CurrentWeek(ctx context.Context) (*models.BeastWeek, error)
	StartNewWeek(ctx context.Context) (*models.BeastWeek, error)
}

// SubmissionServicer handles clip submissions
type SubmissionServicer interface {
	Submit(ctx context.Context, userID string, sub ClipSubmission) (*models.BeastClip, error)
	HasSubmitted(ctx context.Context, userID string) (bool, error)
	GetClip(ctx context.Context, id string) (*models.BeastClip, error)
	ListClips(ctx context.Context) ([]models.BeastClip, error)
}

// VotingServicer handles vote casting
type VotingServicer interface {
	Vote(ctx context.Context, userID, clipID string) (*models.BeastVote, error)
	HasVoted(ctx context.Context, userID string) (bool, error)
}

// LeaderboardServicer ranks a week's clips
type LeaderboardServicer interface {
	Leaderboard(ctx context.Context, weekID string) ([]models.BeastClip, error)
}

// ShareServicer generates share codes for clips
type ShareServicer interface {
	ClipShareQR(ctx context.Context, clipID string) ([]byte, error)
}

// CycleServicer is the engine surface the handlers and the websocket hub
// consume: gated actions plus observable state
type CycleServicer interface {
	Submit(ctx context.Context, userID string, sub ClipSubmission) (*models.BeastClip, error)
	Vote(ctx context.Context, userID, clipID string) (*models.BeastVote, error)
	CanSubmit(ctx context.Context, userID string) (bool, error)
	CanVote(ctx context.Context, userID string) (bool, error)
	ResetWeek(ctx context.Context) (*models.BeastWeek, error)
	Snapshot(ctx context.Context) (*CycleSnapshot, error)
	Week() *models.BeastWeek
	Phase() phase.Phase
	Winner() *models.BeastClip
	TopThree() []models.BeastClip
	Reel() []models.BeastClip
}

// Compile-time interface checks
var (
	_ WeekServicer        = (*WeekService)(nil)
	_ SubmissionServicer  = (*SubmissionService)(nil)
	_ VotingServicer      = (*VotingService)(nil)
	_ LeaderboardServicer = (*LeaderboardService)(nil)
	_ ShareServicer       = (*ShareService)(nil)
	_ CycleServicer       = (*CycleController)(nil)
)
