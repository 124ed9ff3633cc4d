package handlers

import (
	"net/http"

	"github.com/campusbeast/beastweek/internal/identity"
)

// handleVote casts the caller's vote for a clip
func (h *Handlers) handleVote(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.FromContext(r.Context())

	var req VoteSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ClipID == "" {
		respondError(w, BadRequest("Missing clip_id"))
		return
	}

	vote, err := h.Engine.Vote(r.Context(), user.ID, req.ClipID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, vote)
}
