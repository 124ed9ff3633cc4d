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

// VotingRepository is the store surface voting needs: the vote records plus
// clip lookups and the atomic counter
type VotingRepository interface {
	repository.ClipRepository
	repository.VoteRepository
}

// VotingService enforces the one-vote-per-user gate and the voting window
type VotingService struct {
	log   logger.Logger
	repo  VotingRepository
	weeks WeekServicer
	now   func() time.Time
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, repo VotingRepository, weeks WeekServicer) *VotingService {
	return &VotingService{log: log, repo: repo, weeks: weeks, now: time.Now}
}

// SetClock replaces the wall clock, for deterministic tests
func (s *VotingService) SetClock(now func() time.Time) {
	s.now = now
}

// Vote records a vote for a clip in the current week. Votes cast during the
// finale window are tagged as final-round votes; they still count toward the
// same total. The vote record and the counter bump land together: a failed
// increment unwinds the record so the user can vote again.
func (s *VotingService) Vote(ctx context.Context, userID, clipID string) (*models.BeastVote, error) {
	week, err := s.weeks.CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	p := phase.For(s.now(), week.StartDate)
	if p != phase.VotingOpen && p != phase.FinaleDay {
		return nil, ErrPhaseClosed
	}

	voted, err := s.repo.HasVoted(ctx, week.ID, userID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	clip, err := s.repo.GetClip(ctx, clipID)
	if err == repository.ErrNotFound {
		return nil, ErrClipNotFound
	}
	if err != nil {
		return nil, err
	}
	if clip.WeekID != week.ID {
		return nil, ErrClipNotFound
	}

	round := models.VoteRoundPreliminary
	if p == phase.FinaleDay {
		round = models.VoteRoundFinal
	}

	vote := &models.BeastVote{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClipID:    clipID,
		WeekID:    week.ID,
		CreatedAt: s.now(),
		Round:     round,
	}

	if err := s.repo.CreateVote(ctx, vote); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementVoteCount(ctx, clipID); err != nil {
		// A vote whose counter never moved must not hold the one-vote
		// gate closed
		if delErr := s.repo.DeleteVote(ctx, vote.ID); delErr != nil {
			s.log.Error("Failed to remove vote after increment failure", "vote_id", vote.ID, "error", delErr)
		}
		return nil, err
	}

	s.log.Info("Vote recorded", "clip_id", clipID, "user_id", userID, "round", round)
	return vote, nil
}

// HasVoted reports whether the user already voted in the current week
func (s *VotingService) HasVoted(ctx context.Context, userID string) (bool, error) {
	week, err := s.weeks.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	return s.repo.HasVoted(ctx, week.ID, userID)
}
