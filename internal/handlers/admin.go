package handlers

import (
	"net/http"

	"github.com/campusbeast/beastweek/internal/identity"
)

// handleAdminLogin validates the admin password and sets a session cookie
func (h *Handlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	identity.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

// handleAdminLogout clears the admin session
func (h *Handlers) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(identity.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	identity.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleAdminStats returns aggregate counts for the current week
func (h *Handlers) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	week, err := h.Weeks.CurrentWeek(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := h.Stats.GetWeekStats(r.Context(), week.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	stats["week_number"] = week.Number
	stats["theme"] = week.Theme
	respondOK(w, stats)
}

// handleResetWeek forces a fresh competition cycle
func (h *Handlers) handleResetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.Engine.ResetWeek(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, week)
}
