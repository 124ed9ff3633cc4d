package handlers

import (
	"net/http"

	"github.com/campusbeast/beastweek/internal/identity"
)

// handleGetWeek returns the active competition week
func (h *Handlers) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.Weeks.CurrentWeek(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, week)
}

// handleGetStatus returns the engine state plus the caller's gate status
func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := identity.FromContext(ctx)

	snapshot, err := h.Engine.Snapshot(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	canSubmit, err := h.Engine.CanSubmit(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	canVote, err := h.Engine.CanVote(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, StatusResponse{
		Phase:          snapshot.Phase,
		Countdown:      snapshot.Countdown,
		NextTransition: snapshot.NextTransition,
		WeekNumber:     snapshot.Week.Number,
		Theme:          snapshot.Week.Theme,
		CanSubmit:      canSubmit,
		CanVote:        canVote,
	})
}
