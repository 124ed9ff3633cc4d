package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/campusbeast/beastweek/internal/app"
	"github.com/campusbeast/beastweek/internal/identity"
	"github.com/campusbeast/beastweek/internal/logger"
)

var (
	version = "dev"
)

func main() {
	port := flag.Int("port", 8081, "HTTP server port")
	dbPath := flag.String("db", "beastweek.db", "SQLite database path for the local fallback store")
	docstoreURL := flag.String("docstore", "", "Hosted document store base URL (local store used if empty or unreachable)")
	emailDomain := flag.String("domain", "", "Campus email domain required for student accounts (any if empty)")
	shareBase := flag.String("sharebase", "", "Public base URL encoded into share QR codes (LAN address detected if empty)")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `BeastWeek - Campus Weekly Challenge Engine

Usage:
  beastweek [options]

Options:
  -port int       HTTP server port (default 8081)
  -db string      SQLite database path (default "beastweek.db")
  -docstore str   Hosted document store base URL
  -domain str     Campus email domain for student accounts
  -sharebase str  Public base URL for share QR codes
  -adminpw str    Admin password (auto-generated if not set)
  -loglevel str   Log level: debug, info, warn, error (default "info")
  -version        Show version and exit
  -help           Show this help message

Examples:
  beastweek                                    # Run on port 8081 with beastweek.db
  beastweek -port 8080                         # Run on port 8080
  beastweek -docstore https://store.campus.io  # Use the hosted store
  beastweek -domain state.edu                  # Require state.edu accounts
  beastweek -adminpw secret123                 # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("beastweek %s\n", version)
		os.Exit(0)
	}

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = identity.GeneratePassword()
	}
	adminAuth := identity.NewAdminAuth(password)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	a, err := app.New(appLog, app.Config{
		Port:         *port,
		DBPath:       *dbPath,
		DocstoreURL:  *docstoreURL,
		EmailDomain:  *emailDomain,
		ShareBaseURL: *shareBase,
	}, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	addr := fmt.Sprintf(":%d", *port)
	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
