package models

import "time"

// ClipStatus tracks a clip through the weekly cycle
type ClipStatus string

const (
	ClipStatusPending  ClipStatus = "pending"
	ClipStatusApproved ClipStatus = "approved"
	ClipStatusRejected ClipStatus = "rejected"
	ClipStatusFinalist ClipStatus = "finalist"
	ClipStatusWinner   ClipStatus = "winner"
)

// VoteRound tags which voting window a vote was cast in
type VoteRound string

const (
	VoteRoundPreliminary VoteRound = "preliminary"
	VoteRoundFinal       VoteRound = "final"
)

// BeastWeek represents one competition cycle
type BeastWeek struct {
	ID                 string    `json:"id"`
	Number             int       `json:"number"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Theme              string    `json:"theme"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	SubmissionDeadline time.Time `json:"submission_deadline"`
	VotingDeadline     time.Time `json:"voting_deadline"`
	FinaleTime         time.Time `json:"finale_time"`
	PrizeCash          int       `json:"prize_cash"`
	SponsorOffers      []string  `json:"sponsor_offers,omitempty"`
	MaxClipSeconds     int       `json:"max_clip_seconds"`
	Active             bool      `json:"active"`
}

// BeastClip represents a user's single video submission for a week
type BeastClip struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	WeekID          string     `json:"week_id"`
	MediaURL        string     `json:"media_url"`
	Caption         string     `json:"caption"`
	DurationSeconds int        `json:"duration_seconds"`
	Finalist        bool       `json:"finalist"`
	VoteCount       int        `json:"vote_count"`
	Status          ClipStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ShowUsername    bool       `json:"show_username"`
	Anonymous       bool       `json:"anonymous"`
}

// BeastVote records one (user, week) vote
type BeastVote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClipID    string    `json:"clip_id"`
	WeekID    string    `json:"week_id"`
	CreatedAt time.Time `json:"created_at"`
	Round     VoteRound `json:"round"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
