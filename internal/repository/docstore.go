package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/pkg/docstore"
)

// Collection names in the hosted document store
const (
	collectionWeeks = "weeks"
	collectionClips = "clips"
	collectionVotes = "votes"
)

// pollInterval is how often clip subscriptions poll the hosted store.
// The store has no push channel at the adapter level, so subscriptions
// are long-poll snapshots.
const pollInterval = 2 * time.Second

// DocstoreRepository adapts the hosted document store client to the
// repository interfaces. It is the durable, cross-device backend; the
// one-clip and one-vote invariants are enforced by the gates, not by the
// store, so the adapter re-checks them on the read path before writes.
type DocstoreRepository struct {
	client docstore.Client
	log    logger.Logger
}

// NewDocstoreRepository creates a repository over a document store client
func NewDocstoreRepository(client docstore.Client, log logger.Logger) *DocstoreRepository {
	return &DocstoreRepository{client: client, log: log}
}

// Ping checks that the document store is reachable
func (r *DocstoreRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close is a no-op; the HTTP client holds no resources to release
func (r *DocstoreRepository) Close() error {
	return nil
}

// ==================== Week Methods ====================

// CreateWeek stores a new competition week
func (r *DocstoreRepository) CreateWeek(ctx context.Context, week *models.BeastWeek) error {
	id, err := r.client.Create(ctx, collectionWeeks, week)
	if err != nil {
		return fmt.Errorf("create week: %w", err)
	}
	if week.ID == "" {
		week.ID = id
	}
	return nil
}

// GetWeek retrieves a week by id
func (r *DocstoreRepository) GetWeek(ctx context.Context, id string) (*models.BeastWeek, error) {
	var week models.BeastWeek
	if err := r.client.Get(ctx, collectionWeeks, id, &week); err != nil {
		return nil, mapStoreError(err)
	}
	return &week, nil
}

// GetActiveWeek retrieves the current active week
func (r *DocstoreRepository) GetActiveWeek(ctx context.Context) (*models.BeastWeek, error) {
	var weeks []models.BeastWeek
	if err := r.client.List(ctx, collectionWeeks, map[string]string{"active": "true"}, &weeks); err != nil {
		return nil, mapStoreError(err)
	}
	if len(weeks) == 0 {
		return nil, ErrNotFound
	}
	// More than one active week means a rollover raced somewhere; take
	// the highest-numbered one.
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Number > weeks[j].Number })
	week := weeks[0]
	return &week, nil
}

// DeactivateWeek marks a superseded week inactive
func (r *DocstoreRepository) DeactivateWeek(ctx context.Context, id string) error {
	err := r.client.Update(ctx, collectionWeeks, id, map[string]interface{}{"active": false})
	return mapStoreError(err)
}

// ==================== Clip Methods ====================

// CreateClip stores a new clip submission
func (r *DocstoreRepository) CreateClip(ctx context.Context, clip *models.BeastClip) error {
	id, err := r.client.Create(ctx, collectionClips, clip)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}
	if clip.ID == "" {
		clip.ID = id
	}
	return nil
}

// GetClip retrieves a clip by id
func (r *DocstoreRepository) GetClip(ctx context.Context, id string) (*models.BeastClip, error) {
	var clip models.BeastClip
	if err := r.client.Get(ctx, collectionClips, id, &clip); err != nil {
		return nil, mapStoreError(err)
	}
	return &clip, nil
}

// ListClips returns a week's clips in submission order. The store lists in
// creation order already; sorting by CreatedAt keeps the contract explicit.
func (r *DocstoreRepository) ListClips(ctx context.Context, weekID string) ([]models.BeastClip, error) {
	var clips []models.BeastClip
	if err := r.client.List(ctx, collectionClips, map[string]string{"week_id": weekID}, &clips); err != nil {
		return nil, mapStoreError(err)
	}
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].CreatedAt.Before(clips[j].CreatedAt)
	})
	return clips, nil
}

// HasClip reports whether the user already submitted a clip this week
func (r *DocstoreRepository) HasClip(ctx context.Context, weekID, userID string) (bool, error) {
	var clips []models.BeastClip
	filter := map[string]string{"week_id": weekID, "user_id": userID}
	if err := r.client.List(ctx, collectionClips, filter, &clips); err != nil {
		return false, mapStoreError(err)
	}
	return len(clips) > 0, nil
}

// IncrementVoteCount adds one vote to a clip via the store's server-side
// atomic increment
func (r *DocstoreRepository) IncrementVoteCount(ctx context.Context, clipID string) error {
	err := r.client.Increment(ctx, collectionClips, clipID, "vote_count", 1)
	return mapStoreError(err)
}

// SetClipStatus updates a clip's status and finalist flag
func (r *DocstoreRepository) SetClipStatus(ctx context.Context, clipID string, status models.ClipStatus, finalist bool) error {
	err := r.client.Update(ctx, collectionClips, clipID, map[string]interface{}{
		"status":   string(status),
		"finalist": finalist,
	})
	return mapStoreError(err)
}

// ==================== Vote Methods ====================

// CreateVote stores a vote record
func (r *DocstoreRepository) CreateVote(ctx context.Context, vote *models.BeastVote) error {
	id, err := r.client.Create(ctx, collectionVotes, vote)
	if err != nil {
		return fmt.Errorf("create vote: %w", err)
	}
	if vote.ID == "" {
		vote.ID = id
	}
	return nil
}

// DeleteVote removes a vote record by id
func (r *DocstoreRepository) DeleteVote(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, collectionVotes, id)
	return mapStoreError(err)
}

// HasVoted reports whether the user already voted this week
func (r *DocstoreRepository) HasVoted(ctx context.Context, weekID, userID string) (bool, error) {
	var votes []models.BeastVote
	filter := map[string]string{"week_id": weekID, "user_id": userID}
	if err := r.client.List(ctx, collectionVotes, filter, &votes); err != nil {
		return false, mapStoreError(err)
	}
	return len(votes) > 0, nil
}

// CountVotes returns the number of votes cast in a week
func (r *DocstoreRepository) CountVotes(ctx context.Context, weekID string) (int, error) {
	var votes []models.BeastVote
	if err := r.client.List(ctx, collectionVotes, map[string]string{"week_id": weekID}, &votes); err != nil {
		return 0, mapStoreError(err)
	}
	return len(votes), nil
}

// ==================== Stats Methods ====================

// GetWeekStats returns aggregate counts for the admin dashboard
func (r *DocstoreRepository) GetWeekStats(ctx context.Context, weekID string) (map[string]interface{}, error) {
	clips, err := r.ListClips(ctx, weekID)
	if err != nil {
		return nil, err
	}

	var votes []models.BeastVote
	if err := r.client.List(ctx, collectionVotes, map[string]string{"week_id": weekID}, &votes); err != nil {
		return nil, mapStoreError(err)
	}

	voters := make(map[string]struct{})
	for _, v := range votes {
		voters[v.UserID] = struct{}{}
	}

	return map[string]interface{}{
		"total_clips":  len(clips),
		"total_votes":  len(votes),
		"total_voters": len(voters),
	}, nil
}

// ==================== Clip Subscriptions ====================

// SubscribeClips polls the store and delivers a snapshot whenever the
// week's clips change. The channel closes when ctx is cancelled.
func (r *DocstoreRepository) SubscribeClips(ctx context.Context, weekID string) (<-chan []models.BeastClip, error) {
	ch := make(chan []models.BeastClip, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		var lastFingerprint string
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				clips, err := r.ListClips(ctx, weekID)
				if err != nil {
					r.log.Debug("Clip subscription poll failed", "week_id", weekID, "error", err)
					continue
				}
				fp := clipsFingerprint(clips)
				if fp == lastFingerprint {
					continue
				}
				lastFingerprint = fp

				// Latest-wins delivery
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- clips:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// clipsFingerprint summarizes a snapshot for change detection
func clipsFingerprint(clips []models.BeastClip) string {
	var b strings.Builder
	for _, c := range clips {
		fmt.Fprintf(&b, "%s:%d:%s;", c.ID, c.VoteCount, c.Status)
	}
	return b.String()
}

// mapStoreError converts document store errors to repository errors
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
