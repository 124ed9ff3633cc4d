package handlers

// ClipSubmitRequest represents a request to submit a clip
type ClipSubmitRequest struct {
	MediaURL        string `json:"media_url"`
	Caption         string `json:"caption"`
	DurationSeconds int    `json:"duration_seconds"`
	ShowUsername    bool   `json:"show_username"`
	Anonymous       bool   `json:"anonymous"`
}

// VoteSubmitRequest represents a request to cast a vote
type VoteSubmitRequest struct {
	ClipID string `json:"clip_id"`
}

// AdminLoginRequest represents an admin login attempt
type AdminLoginRequest struct {
	Password string `json:"password"`
}
