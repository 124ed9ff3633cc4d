package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health
	r.Get("/api/health", h.handleHealth)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Admin auth (public)
	r.Post("/api/admin/login", h.handleAdminLogin)
	r.Post("/api/admin/logout", h.handleAdminLogout)

	// Student API (campus identity required)
	r.Group(func(r chi.Router) {
		r.Use(h.Identity.Require)

		r.Get("/api/week", h.handleGetWeek)
		r.Get("/api/status", h.handleGetStatus)

		r.Get("/api/clips", h.handleListClips)
		r.Post("/api/clips", h.handleSubmitClip)
		r.Get("/api/clips/{id}/share-qr", h.handleClipShareQR)

		r.Post("/api/votes", h.handleVote)

		r.Get("/api/leaderboard", h.handleLeaderboard)
		r.Get("/api/winner", h.handleWinner)
		r.Get("/api/reel", h.handleReel)
	})

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)

		r.Get("/api/admin/stats", h.handleAdminStats)
		r.Post("/api/admin/reset-week", h.handleResetWeek)
	})

	return r
}

// handleHealth reports service liveness
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}
