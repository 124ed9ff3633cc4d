package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campusbeast/beastweek/internal/identity"
	"github.com/campusbeast/beastweek/internal/services"
)

// handleListClips returns the current week's clips in submission order
func (h *Handlers) handleListClips(w http.ResponseWriter, r *http.Request) {
	clips, err := h.Submissions.ListClips(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toClipResponses(clips))
}

// handleSubmitClip submits the caller's clip for the current week
func (h *Handlers) handleSubmitClip(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.FromContext(r.Context())

	var req ClipSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	clip, err := h.Engine.Submit(r.Context(), user.ID, services.ClipSubmission{
		MediaURL:        req.MediaURL,
		Caption:         req.Caption,
		DurationSeconds: req.DurationSeconds,
		ShowUsername:    req.ShowUsername,
		Anonymous:       req.Anonymous,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, toClipResponse(*clip))
}

// handleClipShareQR returns a QR code PNG linking to the clip's share page
func (h *Handlers) handleClipShareQR(w http.ResponseWriter, r *http.Request) {
	clipID := chi.URLParam(r, "id")
	if clipID == "" {
		respondError(w, BadRequest("Missing clip id"))
		return
	}

	png, err := h.Share.ClipShareQR(r.Context(), clipID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
