package handlers

import (
	"time"

	"github.com/campusbeast/beastweek/internal/models"
)

// ClipResponse is the public view of a clip. Anonymous clips never reveal
// the submitter's id.
type ClipResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id,omitempty"`
	WeekID          string    `json:"week_id"`
	MediaURL        string    `json:"media_url"`
	Caption         string    `json:"caption"`
	DurationSeconds int       `json:"duration_seconds"`
	Finalist        bool      `json:"finalist"`
	VoteCount       int       `json:"vote_count"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	Anonymous       bool      `json:"anonymous"`
}

// toClipResponse masks submitter identity on anonymous clips
func toClipResponse(clip models.BeastClip) ClipResponse {
	resp := ClipResponse{
		ID:              clip.ID,
		UserID:          clip.UserID,
		WeekID:          clip.WeekID,
		MediaURL:        clip.MediaURL,
		Caption:         clip.Caption,
		DurationSeconds: clip.DurationSeconds,
		Finalist:        clip.Finalist,
		VoteCount:       clip.VoteCount,
		Status:          string(clip.Status),
		CreatedAt:       clip.CreatedAt,
		Anonymous:       clip.Anonymous,
	}
	if clip.Anonymous || !clip.ShowUsername {
		resp.UserID = ""
	}
	return resp
}

func toClipResponses(clips []models.BeastClip) []ClipResponse {
	out := make([]ClipResponse, 0, len(clips))
	for _, c := range clips {
		out = append(out, toClipResponse(c))
	}
	return out
}

// StatusResponse is the per-user engine state for GET /api/status
type StatusResponse struct {
	Phase          string    `json:"phase"`
	Countdown      string    `json:"countdown"`
	NextTransition time.Time `json:"next_transition"`
	WeekNumber     int       `json:"week_number"`
	Theme          string    `json:"theme"`
	CanSubmit      bool      `json:"can_submit"`
	CanVote        bool      `json:"can_vote"`
}

// WinnerResponse is the frozen finale result
type WinnerResponse struct {
	Winner   *ClipResponse  `json:"winner"`
	TopThree []ClipResponse `json:"top_three"`
}
