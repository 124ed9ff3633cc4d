package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusbeast/beastweek/internal/handlers"
	"github.com/campusbeast/beastweek/internal/identity"
	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/repository"
	"github.com/campusbeast/beastweek/internal/services"
	"github.com/campusbeast/beastweek/internal/websocket"
	"github.com/campusbeast/beastweek/pkg/docstore"
)

// Config holds application configuration
type Config struct {
	Port         int
	DBPath       string
	DocstoreURL  string
	EmailDomain  string
	ShareBaseURL string
}

// App holds all application dependencies
type App struct {
	log         logger.Logger
	handlers    *handlers.Handlers
	repo        repository.FullRepository
	cancelCycle context.CancelFunc
}

// New creates and initializes a new application instance. The hosted
// document store is preferred; when it is not configured or not reachable
// the app falls back to the local SQLite store so a single laptop can run
// the whole event.
func New(log logger.Logger, cfg Config, adminAuth *identity.AdminAuth) (*App, error) {
	repo, err := openRepository(log, cfg)
	if err != nil {
		return nil, err
	}

	// QR codes must carry an address other phones can reach
	if cfg.ShareBaseURL == "" {
		ip := getPreferredIP(realNetworkProvider{})
		cfg.ShareBaseURL = fmt.Sprintf("http://%s:%d", ip, cfg.Port)
		log.Info("Share base URL defaulted", "url", cfg.ShareBaseURL)
	}

	// Initialize services
	weekService := services.NewWeekService(log, repo)
	submissionService := services.NewSubmissionService(log, repo, weekService)
	votingService := services.NewVotingService(log, repo, weekService)
	leaderboardService := services.NewLeaderboardService(log, repo)
	shareService := services.NewShareService(log, repo, cfg.ShareBaseURL)
	engine := services.NewCycleController(log, weekService, submissionService, votingService, repo)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, engine)
	hub.Start()
	engine.SetBroadcaster(hub)

	// Start the cycle with context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	if err := engine.Start(ctx); err != nil {
		cancel()
		repo.Close()
		return nil, fmt.Errorf("failed to start cycle controller: %w", err)
	}

	ident := identity.NewMiddleware(cfg.EmailDomain)

	h := handlers.New(
		engine,
		weekService,
		submissionService,
		leaderboardService,
		shareService,
		repo,
		ident,
		adminAuth,
		hub,
		log,
	)

	return &App{
		log:         log,
		handlers:    h,
		repo:        repo,
		cancelCycle: cancel,
	}, nil
}

// openRepository picks the storage backend for this run
func openRepository(log logger.Logger, cfg Config) (repository.FullRepository, error) {
	if cfg.DocstoreURL != "" {
		client := docstore.NewHTTPClient(cfg.DocstoreURL, log)
		ds := repository.NewDocstoreRepository(client, log)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ds.Ping(ctx); err == nil {
			log.Info("Using hosted document store", "url", cfg.DocstoreURL)
			return ds, nil
		}
		log.Warn("Document store unreachable, falling back to local store", "url", cfg.DocstoreURL)
	}

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	log.Info("Using local store", "path", cfg.DBPath)
	return repo, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelCycle != nil {
		a.cancelCycle()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	ip := getPreferredIP(realNetworkProvider{})
	a.log.Info("Server starting", "url", fmt.Sprintf("http://%s%s", ip, addr))
	return http.ListenAndServe(addr, a.Router())
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
