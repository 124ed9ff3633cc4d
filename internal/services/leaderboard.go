package services

import (
	"context"
	"sort"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/repository"
)

const (
	topThreeSize = 3
	reelSize     = 5
)

// Rank orders clips by vote count, highest first. The sort is stable over
// submission order, so a clip submitted earlier outranks a later clip with
// the same count. Ties are therefore deterministic across calls.
func Rank(clips []models.BeastClip) []models.BeastClip {
	ranked := make([]models.BeastClip, len(clips))
	copy(ranked, clips)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VoteCount > ranked[j].VoteCount
	})
	return ranked
}

// Winner returns the top-ranked clip, or nil when the week had no clips
func Winner(ranked []models.BeastClip) *models.BeastClip {
	if len(ranked) == 0 {
		return nil
	}
	w := ranked[0]
	return &w
}

// TopThree returns up to three finalists from a ranked list
func TopThree(ranked []models.BeastClip) []models.BeastClip {
	n := topThreeSize
	if len(ranked) < n {
		n = len(ranked)
	}
	top := make([]models.BeastClip, n)
	copy(top, ranked[:n])
	return top
}

// BeastReel returns up to five clips for the cooldown-day highlight reel
func BeastReel(ranked []models.BeastClip) []models.BeastClip {
	n := reelSize
	if len(ranked) < n {
		n = len(ranked)
	}
	reel := make([]models.BeastClip, n)
	copy(reel, ranked[:n])
	return reel
}

// LeaderboardService ranks a week's clips from live store data
type LeaderboardService struct {
	log  logger.Logger
	repo repository.ClipRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(log logger.Logger, repo repository.ClipRepository) *LeaderboardService {
	return &LeaderboardService{log: log, repo: repo}
}

// Leaderboard returns the week's clips ranked by vote count
func (s *LeaderboardService) Leaderboard(ctx context.Context, weekID string) ([]models.BeastClip, error) {
	clips, err := s.repo.ListClips(ctx, weekID)
	if err != nil {
		return nil, err
	}
	return Rank(clips), nil
}
