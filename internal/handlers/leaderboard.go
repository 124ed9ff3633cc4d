package handlers

import (
	"net/http"
)

// handleLeaderboard returns the live ranked leaderboard for the current week
func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	week, err := h.Weeks.CurrentWeek(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	ranked, err := h.Leaderboard.Leaderboard(r.Context(), week.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, toClipResponses(ranked))
}

// handleWinner returns the frozen finale results. Before the finale there is
// nothing to show.
func (h *Handlers) handleWinner(w http.ResponseWriter, r *http.Request) {
	winner := h.Engine.Winner()
	top := h.Engine.TopThree()
	if winner == nil && top == nil {
		respondError(w, NotFound("No finale results yet"))
		return
	}

	resp := WinnerResponse{TopThree: toClipResponses(top)}
	if winner != nil {
		masked := toClipResponse(*winner)
		resp.Winner = &masked
	}
	respondOK(w, resp)
}

// handleReel returns the frozen cooldown-day highlight reel
func (h *Handlers) handleReel(w http.ResponseWriter, r *http.Request) {
	reel := h.Engine.Reel()
	if reel == nil {
		respondError(w, NotFound("The beast reel is not out yet"))
		return
	}
	respondOK(w, toClipResponses(reel))
}
