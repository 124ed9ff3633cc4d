package handlers

import (
	"github.com/campusbeast/beastweek/internal/identity"
	"github.com/campusbeast/beastweek/internal/repository"
	"github.com/campusbeast/beastweek/internal/services"
	"github.com/campusbeast/beastweek/internal/websocket"
)

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Engine      services.CycleServicer
	Weeks       services.WeekServicer
	Submissions services.SubmissionServicer
	Leaderboard services.LeaderboardServicer
	Share       services.ShareServicer
	Stats       repository.StatsRepository
	Identity    *identity.Middleware
	Auth        *identity.AdminAuth
	Hub         *websocket.Hub
	Log         HTTPLogger
}

// New creates a new Handlers instance with all dependencies
func New(
	engine services.CycleServicer,
	weeks services.WeekServicer,
	submissions services.SubmissionServicer,
	leaderboard services.LeaderboardServicer,
	share services.ShareServicer,
	stats repository.StatsRepository,
	ident *identity.Middleware,
	adminAuth *identity.AdminAuth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Engine:      engine,
		Weeks:       weeks,
		Submissions: submissions,
		Leaderboard: leaderboard,
		Share:       share,
		Stats:       stats,
		Identity:    ident,
		Auth:        adminAuth,
		Hub:         hub,
		Log:         log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with open identity and a known
// admin password
func NewForTesting(
	engine services.CycleServicer,
	weeks services.WeekServicer,
	submissions services.SubmissionServicer,
	leaderboard services.LeaderboardServicer,
	share services.ShareServicer,
	stats repository.StatsRepository,
) *Handlers {
	return &Handlers{
		Engine:      engine,
		Weeks:       weeks,
		Submissions: submissions,
		Leaderboard: leaderboard,
		Share:       share,
		Stats:       stats,
		Identity:    identity.NewMiddleware(""),
		Auth:        identity.NewAdminAuth("test-password"),
		Log:         NoopHTTPLogger{},
	}
}
