package services

import (
	"context"
	"sync"
	"time"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/phase"
	"github.com/campusbeast/beastweek/internal/repository"
)

// Broadcaster pushes live updates to connected clients. The websocket hub
// implements it; the controller never imports the hub directly.
type Broadcaster interface {
	BroadcastPhaseChange(week *models.BeastWeek, phase string)
	BroadcastCountdown(phase, countdown string, seconds int)
	BroadcastLeaderboard(clips []models.BeastClip)
	BroadcastWinner(winner *models.BeastClip, topThree []models.BeastClip)
	BroadcastClipSubmitted(clip *models.BeastClip)
}

// CycleSnapshot is the full observable state of the engine at one instant
type CycleSnapshot struct {
	Week           *models.BeastWeek  `json:"week"`
	Phase          string             `json:"phase"`
	Countdown      string             `json:"countdown"`
	NextTransition time.Time          `json:"next_transition"`
	Leaderboard    []models.BeastClip `json:"leaderboard"`
	Winner         *models.BeastClip  `json:"winner,omitempty"`
	TopThree       []models.BeastClip `json:"top_three,omitempty"`
	BeastReel      []models.BeastClip `json:"beast_reel,omitempty"`
}

// CycleController drives the weekly phase machine. It ticks once per second,
// walks the phase forward when a boundary passes, runs entry actions (result
// freezing at the finale, reel freezing on cooldown day), and rolls the week
// over when the next Monday begins. All phase-gated actions route through it so
// broadcasts stay consistent with state.
type CycleController struct {
	log         logger.Logger
	weeks       *WeekService
	submissions *SubmissionService
	voting      *VotingService
	clips       repository.ClipRepository
	broadcaster Broadcaster
	now         func() time.Time

	mu       sync.Mutex
	week     *models.BeastWeek
	phase    phase.Phase
	winner   *models.BeastClip
	topThree []models.BeastClip
	reel     []models.BeastClip

	runCtx      context.Context
	cancelWatch context.CancelFunc
}

// NewCycleController creates a new CycleController
func NewCycleController(log logger.Logger, weeks *WeekService, submissions *SubmissionService, voting *VotingService, clips repository.ClipRepository) *CycleController {
	return &CycleController{
		log:         log,
		weeks:       weeks,
		submissions: submissions,
		voting:      voting,
		clips:       clips,
		now:         time.Now,
	}
}

// SetBroadcaster attaches the live-update sink. Must be called before Start.
func (c *CycleController) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// SetClock replaces the wall clock on the controller and its services, for
// deterministic tests
func (c *CycleController) SetClock(now func() time.Time) {
	c.now = now
	c.weeks.SetClock(now)
	c.submissions.SetClock(now)
	c.voting.SetClock(now)
}

// Start resolves the current week, reconstructs any frozen results when
// starting mid-week, and launches the one-second tick loop. It returns once
// the loop is running; the loop stops when ctx is cancelled.
func (c *CycleController) Start(ctx context.Context) error {
	week, err := c.weeks.CurrentWeek(ctx)
	if err != nil {
		return err
	}

	p := phase.For(c.now(), week.StartDate)

	c.mu.Lock()
	c.runCtx = ctx
	c.week = week
	c.phase = p
	c.mu.Unlock()

	// A restart after the freeze points recomputes frozen state from the
	// store rather than losing it.
	if p == phase.FinaleDay || p == phase.CooldownReel {
		c.freezeFinalists(ctx)
	}
	if p == phase.CooldownReel {
		c.freezeReel(ctx)
	}

	c.startWatch(week.ID)
	go c.run(ctx)

	c.log.Info("Cycle controller started", "week", week.Number, "phase", p.String())
	return nil
}

func (c *CycleController) run(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Cycle controller stopped")
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick re-evaluates the phase against the clock. The run loop calls it once
// per second; tests call it directly after moving the clock.
func (c *CycleController) Tick(ctx context.Context) {
	now := c.now()

	c.mu.Lock()
	week := c.week
	held := c.phase
	c.mu.Unlock()
	if week == nil {
		return
	}

	if !now.Before(phase.DayAt(week.StartDate, 7, 0)) {
		if err := c.rollover(ctx); err != nil {
			c.log.Error("Week rollover failed", "error", err)
			return
		}
	} else if target := phase.For(now, week.StartDate); target != held {
		// Walk boundary by boundary so entry actions run even if several
		// boundaries passed between ticks
		for held != target {
			held = held.Next()
			c.enterPhase(ctx, held)
		}
		c.mu.Lock()
		c.phase = held
		c.mu.Unlock()

		c.log.Info("Phase transition", "week", week.Number, "phase", held.String())
		if c.broadcaster != nil {
			c.broadcaster.BroadcastPhaseChange(week, held.String())
		}
	}

	c.broadcastCountdown(now)
}

// enterPhase runs the side effects owed at a phase boundary
func (c *CycleController) enterPhase(ctx context.Context, p phase.Phase) {
	switch p {
	case phase.FinaleDay:
		c.freezeFinalists(ctx)
	case phase.CooldownReel:
		c.freezeReel(ctx)
	}
}

// freezeFinalists ranks the week's clips, persists winner and finalist
// statuses, and pins the results so later votes cannot change them
func (c *CycleController) freezeFinalists(ctx context.Context) {
	c.mu.Lock()
	week := c.week
	c.mu.Unlock()
	if week == nil {
		return
	}

	clips, err := c.clips.ListClips(ctx, week.ID)
	if err != nil {
		c.log.Error("Failed to load clips for finale", "week_id", week.ID, "error", err)
		return
	}

	ranked := Rank(clips)
	top := TopThree(ranked)
	for i := range top {
		status := models.ClipStatusFinalist
		if i == 0 {
			status = models.ClipStatusWinner
		}
		top[i].Status = status
		top[i].Finalist = true
		if err := c.clips.SetClipStatus(ctx, top[i].ID, status, true); err != nil {
			c.log.Warn("Failed to persist clip status", "clip_id", top[i].ID, "error", err)
		}
	}

	var winner *models.BeastClip
	if len(top) > 0 {
		w := top[0]
		winner = &w
	}

	c.mu.Lock()
	c.winner = winner
	c.topThree = top
	c.mu.Unlock()

	if winner != nil {
		c.log.Info("Finale results frozen", "week", week.Number, "winner_clip", winner.ID, "votes", winner.VoteCount)
	} else {
		c.log.Info("Finale results frozen with no clips", "week", week.Number)
	}
	if c.broadcaster != nil {
		c.broadcaster.BroadcastWinner(winner, top)
	}
}

// freezeReel pins the cooldown-day highlight reel
func (c *CycleController) freezeReel(ctx context.Context) {
	c.mu.Lock()
	week := c.week
	c.mu.Unlock()
	if week == nil {
		return
	}

	clips, err := c.clips.ListClips(ctx, week.ID)
	if err != nil {
		c.log.Error("Failed to load clips for reel", "week_id", week.ID, "error", err)
		return
	}

	reel := BeastReel(Rank(clips))

	c.mu.Lock()
	c.reel = reel
	c.mu.Unlock()

	c.log.Info("Beast reel frozen", "week", week.Number, "clips", len(reel))
}

// rollover deactivates the spent week, synthesizes the next one, and resets
// derived state
func (c *CycleController) rollover(ctx context.Context) error {
	week, err := c.weeks.CurrentWeek(ctx)
	if err != nil {
		return err
	}

	p := phase.For(c.now(), week.StartDate)

	c.mu.Lock()
	c.week = week
	c.phase = p
	c.winner = nil
	c.topThree = nil
	c.reel = nil
	c.mu.Unlock()

	c.startWatch(week.ID)

	c.log.Info("Rolled over to new week", "number", week.Number, "theme", week.Theme)
	if c.broadcaster != nil {
		c.broadcaster.BroadcastPhaseChange(week, p.String())
	}
	return nil
}

// startWatch subscribes to the week's clip snapshots and relays ranked
// leaderboards to the broadcaster, replacing any previous watch
func (c *CycleController) startWatch(weekID string) {
	c.mu.Lock()
	if c.cancelWatch != nil {
		c.cancelWatch()
		c.cancelWatch = nil
	}
	runCtx := c.runCtx
	c.mu.Unlock()
	if runCtx == nil {
		return
	}

	watchCtx, cancel := context.WithCancel(runCtx)
	ch, err := c.clips.SubscribeClips(watchCtx, weekID)
	if err != nil {
		c.log.Warn("Clip subscription unavailable", "week_id", weekID, "error", err)
		cancel()
		return
	}

	c.mu.Lock()
	c.cancelWatch = cancel
	c.mu.Unlock()

	go func() {
		for clips := range ch {
			if c.broadcaster != nil {
				c.broadcaster.BroadcastLeaderboard(Rank(clips))
			}
		}
	}()
}

func (c *CycleController) broadcastCountdown(now time.Time) {
	if c.broadcaster == nil {
		return
	}
	c.mu.Lock()
	week := c.week
	p := c.phase
	c.mu.Unlock()
	if week == nil {
		return
	}

	next := phase.NextTransition(now, week.StartDate)
	remaining := next.Sub(now)
	c.broadcaster.BroadcastCountdown(p.String(), phase.FormatCountdown(remaining), int(remaining.Seconds()))
}

// ==================== Gated Actions ====================

// Submit routes a clip submission through the gate and announces it
func (c *CycleController) Submit(ctx context.Context, userID string, sub ClipSubmission) (*models.BeastClip, error) {
	clip, err := c.submissions.Submit(ctx, userID, sub)
	if err != nil {
		return nil, err
	}
	if c.broadcaster != nil {
		c.broadcaster.BroadcastClipSubmitted(clip)
	}
	return clip, nil
}

// Vote routes a vote through the gate
func (c *CycleController) Vote(ctx context.Context, userID, clipID string) (*models.BeastVote, error) {
	return c.voting.Vote(ctx, userID, clipID)
}

// CanSubmit reports whether userID may submit right now
func (c *CycleController) CanSubmit(ctx context.Context, userID string) (bool, error) {
	week, err := c.weeks.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	if phase.For(c.now(), week.StartDate) != phase.SubmissionsOpen {
		return false, nil
	}
	has, err := c.submissions.HasSubmitted(ctx, userID)
	if err != nil {
		return false, err
	}
	return !has, nil
}

// CanVote reports whether userID may vote right now
func (c *CycleController) CanVote(ctx context.Context, userID string) (bool, error) {
	week, err := c.weeks.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	p := phase.For(c.now(), week.StartDate)
	if p != phase.VotingOpen && p != phase.FinaleDay {
		return false, nil
	}
	voted, err := c.voting.HasVoted(ctx, userID)
	if err != nil {
		return false, err
	}
	return !voted, nil
}

// ResetWeek forces a fresh cycle immediately. Admin only.
func (c *CycleController) ResetWeek(ctx context.Context) (*models.BeastWeek, error) {
	week, err := c.weeks.StartNewWeek(ctx)
	if err != nil {
		return nil, err
	}

	p := phase.For(c.now(), week.StartDate)

	c.mu.Lock()
	c.week = week
	c.phase = p
	c.winner = nil
	c.topThree = nil
	c.reel = nil
	c.mu.Unlock()

	c.startWatch(week.ID)

	c.log.Info("Week reset by admin", "number", week.Number)
	if c.broadcaster != nil {
		c.broadcaster.BroadcastPhaseChange(week, p.String())
	}
	return week, nil
}

// ==================== Observers ====================

// Week returns the week the controller is currently driving
func (c *CycleController) Week() *models.BeastWeek {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.week
}

// Phase returns the phase the controller currently holds
func (c *CycleController) Phase() phase.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Winner returns the frozen winner, nil before the finale
func (c *CycleController) Winner() *models.BeastClip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.winner
}

// TopThree returns the frozen finalists, nil before the finale
func (c *CycleController) TopThree() []models.BeastClip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topThree
}

// Reel returns the frozen highlight reel, nil before cooldown day
func (c *CycleController) Reel() []models.BeastClip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reel
}

// Snapshot assembles the full engine state, including a live leaderboard
func (c *CycleController) Snapshot(ctx context.Context) (*CycleSnapshot, error) {
	c.mu.Lock()
	week := c.week
	p := c.phase
	winner := c.winner
	topThree := c.topThree
	reel := c.reel
	c.mu.Unlock()

	if week == nil {
		var err error
		week, err = c.weeks.CurrentWeek(ctx)
		if err != nil {
			return nil, err
		}
		p = phase.For(c.now(), week.StartDate)
	}

	clips, err := c.clips.ListClips(ctx, week.ID)
	if err != nil {
		return nil, err
	}

	now := c.now()
	next := phase.NextTransition(now, week.StartDate)

	return &CycleSnapshot{
		Week:           week,
		Phase:          p.String(),
		Countdown:      phase.FormatCountdown(next.Sub(now)),
		NextTransition: next,
		Leaderboard:    Rank(clips),
		Winner:         winner,
		TopThree:       topThree,
		BeastReel:      reel,
	}, nil
}
