package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/campusbeast/beastweek/internal/models"
)

// Repository is the local fallback store, backed by SQLite. It is used when
// no document store is configured or the store is unreachable at startup.
// Data is durable on this device only; the one-vote and one-clip invariants
// are additionally backed by UNIQUE constraints here, which the hosted store
// does not provide.
type Repository struct {
	db *sql.DB

	subMu sync.Mutex
	subs  map[*clipSubscription]struct{}
}

// clipSubscription is one live SubscribeClips consumer
type clipSubscription struct {
	weekID string
	ch     chan []models.BeastClip
}

// New creates a new Repository at the given SQLite path
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{
		db:   db,
		subs: make(map[*clipSubscription]struct{}),
	}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS weeks (
			id TEXT PRIMARY KEY,
			number INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			theme TEXT,
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			submission_deadline DATETIME NOT NULL,
			voting_deadline DATETIME NOT NULL,
			finale_time DATETIME NOT NULL,
			prize_cash INTEGER DEFAULT 0,
			sponsor_offers TEXT,
			max_clip_seconds INTEGER NOT NULL,
			active BOOLEAN DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS clips (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			week_id TEXT NOT NULL,
			media_url TEXT NOT NULL,
			caption TEXT,
			duration_seconds INTEGER NOT NULL,
			finalist BOOLEAN DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			show_username BOOLEAN DEFAULT 1,
			anonymous BOOLEAN DEFAULT 0,
			FOREIGN KEY (week_id) REFERENCES weeks(id),
			UNIQUE(week_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			clip_id TEXT NOT NULL,
			week_id TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			round TEXT NOT NULL,
			FOREIGN KEY (clip_id) REFERENCES clips(id),
			FOREIGN KEY (week_id) REFERENCES weeks(id),
			UNIQUE(week_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clips_week ON clips(week_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_week ON votes(week_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_clip ON votes(clip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_weeks_active ON weeks(active)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Week Methods ====================

// CreateWeek stores a new competition week
func (r *Repository) CreateWeek(ctx context.Context, week *models.BeastWeek) error {
	offers, err := json.Marshal(week.SponsorOffers)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO weeks (id, number, title, description, theme, start_date, end_date,
			submission_deadline, voting_deadline, finale_time, prize_cash, sponsor_offers,
			max_clip_seconds, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, week.ID, week.Number, week.Title, week.Description, week.Theme,
		week.StartDate, week.EndDate, week.SubmissionDeadline, week.VotingDeadline,
		week.FinaleTime, week.PrizeCash, string(offers), week.MaxClipSeconds, week.Active)
	return err
}

// GetWeek retrieves a week by id
func (r *Repository) GetWeek(ctx context.Context, id string) (*models.BeastWeek, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, title, description, theme, start_date, end_date,
			submission_deadline, voting_deadline, finale_time, prize_cash,
			sponsor_offers, max_clip_seconds, active
		FROM weeks WHERE id = ?
	`, id)
	return scanWeek(row)
}

// GetActiveWeek retrieves the current active week
func (r *Repository) GetActiveWeek(ctx context.Context) (*models.BeastWeek, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, title, description, theme, start_date, end_date,
			submission_deadline, voting_deadline, finale_time, prize_cash,
			sponsor_offers, max_clip_seconds, active
		FROM weeks WHERE active = 1
		ORDER BY number DESC LIMIT 1
	`)
	return scanWeek(row)
}

// DeactivateWeek marks a superseded week inactive. Its clips and votes
// stay in place under the old week id.
func (r *Repository) DeactivateWeek(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE weeks SET active = 0 WHERE id = ?`, id)
	return err
}

// rowScanner lets scanWeek work with both QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWeek(row rowScanner) (*models.BeastWeek, error) {
	var w models.BeastWeek
	var offers sql.NullString
	err := row.Scan(&w.ID, &w.Number, &w.Title, &w.Description, &w.Theme,
		&w.StartDate, &w.EndDate, &w.SubmissionDeadline, &w.VotingDeadline,
		&w.FinaleTime, &w.PrizeCash, &offers, &w.MaxClipSeconds, &w.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if offers.Valid && offers.String != "" && offers.String != "null" {
		if err := json.Unmarshal([]byte(offers.String), &w.SponsorOffers); err != nil {
			return nil, err
		}
	}
	return &w, nil
}

// ==================== Clip Methods ====================

// CreateClip stores a new clip submission and notifies subscribers
func (r *Repository) CreateClip(ctx context.Context, clip *models.BeastClip) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clips (id, user_id, week_id, media_url, caption, duration_seconds,
			finalist, vote_count, status, created_at, show_username, anonymous)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, clip.ID, clip.UserID, clip.WeekID, clip.MediaURL, clip.Caption,
		clip.DurationSeconds, clip.Finalist, clip.VoteCount, string(clip.Status),
		clip.CreatedAt, clip.ShowUsername, clip.Anonymous)
	if err != nil {
		return err
	}
	r.notifyClipChange(clip.WeekID)
	return nil
}

// GetClip retrieves a clip by id
func (r *Repository) GetClip(ctx context.Context, id string) (*models.BeastClip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, week_id, media_url, caption, duration_seconds,
			finalist, vote_count, status, created_at, show_username, anonymous
		FROM clips WHERE id = ?
	`, id)
	return scanClip(row)
}

// ListClips returns a week's clips in submission order
func (r *Repository) ListClips(ctx context.Context, weekID string) ([]models.BeastClip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, week_id, media_url, caption, duration_seconds,
			finalist, vote_count, status, created_at, show_username, anonymous
		FROM clips WHERE week_id = ?
		ORDER BY created_at ASC, id ASC
	`, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []models.BeastClip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, *clip)
	}
	return clips, rows.Err()
}

// HasClip reports whether the user already submitted a clip this week
func (r *Repository) HasClip(ctx context.Context, weekID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clips WHERE week_id = ? AND user_id = ?`,
		weekID, userID).Scan(&count)
	return count > 0, err
}

// IncrementVoteCount adds one vote to a clip. The addition happens inside
// the UPDATE, not as a client-side read-modify-write, so concurrent voters
// never lose increments.
func (r *Repository) IncrementVoteCount(ctx context.Context, clipID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clips SET vote_count = vote_count + 1 WHERE id = ?`, clipID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.notifyClipChangeForClip(ctx, clipID)
	return nil
}

// SetClipStatus updates a clip's status and finalist flag
func (r *Repository) SetClipStatus(ctx context.Context, clipID string, status models.ClipStatus, finalist bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clips SET status = ?, finalist = ? WHERE id = ?`,
		string(status), finalist, clipID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.notifyClipChangeForClip(ctx, clipID)
	return nil
}

func scanClip(row rowScanner) (*models.BeastClip, error) {
	var c models.BeastClip
	var status string
	err := row.Scan(&c.ID, &c.UserID, &c.WeekID, &c.MediaURL, &c.Caption,
		&c.DurationSeconds, &c.Finalist, &c.VoteCount, &status, &c.CreatedAt,
		&c.ShowUsername, &c.Anonymous)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Status = models.ClipStatus(status)
	return &c, nil
}

// ==================== Vote Methods ====================

// CreateVote stores a vote record
func (r *Repository) CreateVote(ctx context.Context, vote *models.BeastVote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (id, user_id, clip_id, week_id, created_at, round)
		VALUES (?, ?, ?, ?, ?, ?)
	`, vote.ID, vote.UserID, vote.ClipID, vote.WeekID, vote.CreatedAt, string(vote.Round))
	return err
}

// DeleteVote removes a vote record by id
func (r *Repository) DeleteVote(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, id)
	return err
}

// HasVoted reports whether the user already voted this week
func (r *Repository) HasVoted(ctx context.Context, weekID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE week_id = ? AND user_id = ?`,
		weekID, userID).Scan(&count)
	return count > 0, err
}

// CountVotes returns the number of votes cast in a week
func (r *Repository) CountVotes(ctx context.Context, weekID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE week_id = ?`, weekID).Scan(&count)
	return count, err
}

// ==================== Stats Methods ====================

// GetWeekStats returns aggregate counts for the admin dashboard
func (r *Repository) GetWeekStats(ctx context.Context, weekID string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var clipCount int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clips WHERE week_id = ?`, weekID).Scan(&clipCount); err != nil {
		return nil, err
	}
	stats["total_clips"] = clipCount

	var voteCount int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE week_id = ?`, weekID).Scan(&voteCount); err != nil {
		return nil, err
	}
	stats["total_votes"] = voteCount

	var voterCount int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM votes WHERE week_id = ?`, weekID).Scan(&voterCount); err != nil {
		return nil, err
	}
	stats["total_voters"] = voterCount

	return stats, nil
}

// ==================== Clip Subscriptions ====================

// SubscribeClips delivers clip snapshots for a week until ctx is cancelled
func (r *Repository) SubscribeClips(ctx context.Context, weekID string) (<-chan []models.BeastClip, error) {
	sub := &clipSubscription{
		weekID: weekID,
		ch:     make(chan []models.BeastClip, 1),
	}

	r.subMu.Lock()
	r.subs[sub] = struct{}{}
	r.subMu.Unlock()

	go func() {
		<-ctx.Done()
		r.subMu.Lock()
		delete(r.subs, sub)
		r.subMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch, nil
}

// notifyClipChangeForClip resolves a clip's week then notifies
func (r *Repository) notifyClipChangeForClip(ctx context.Context, clipID string) {
	var weekID string
	if err := r.db.QueryRowContext(ctx,
		`SELECT week_id FROM clips WHERE id = ?`, clipID).Scan(&weekID); err != nil {
		return
	}
	r.notifyClipChange(weekID)
}

// notifyClipChange pushes the latest snapshot to matching subscribers.
// The buffered channel is drained first so a slow consumer gets the
// newest snapshot instead of a backlog.
func (r *Repository) notifyClipChange(weekID string) {
	r.subMu.Lock()
	var targets []*clipSubscription
	for sub := range r.subs {
		if sub.weekID == weekID {
			targets = append(targets, sub)
		}
	}
	r.subMu.Unlock()

	if len(targets) == 0 {
		return
	}

	clips, err := r.ListClips(context.Background(), weekID)
	if err != nil {
		return
	}

	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, sub := range targets {
		if _, still := r.subs[sub]; !still {
			continue
		}
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- clips:
		default:
		}
	}
}
