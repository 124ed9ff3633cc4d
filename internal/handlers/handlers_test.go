package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/campusbeast/beastweek/internal/identity"
	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/phase"
	"github.com/campusbeast/beastweek/internal/services"
	"github.com/campusbeast/beastweek/internal/testutil"
)

// monday is a known Monday 00:00 used as the base of test weeks
var monday = time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)

func at(d, hour int) time.Time {
	day := phase.DayAt(monday, d, 0)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type testServer struct {
	handlers *Handlers
	engine   *services.CycleController
	router   http.Handler
	clock    *testClock
}

// newTestServer wires the full stack over an in-memory store with a settable
// clock and a started engine
func newTestServer(t *testing.T, now time.Time) *testServer {
	t.Helper()

	log := logger.NewWithLevel(slog.LevelError)
	repo := testutil.NewTestRepository(t)
	clock := &testClock{t: now}

	weeks := services.NewWeekService(log, repo)
	submissions := services.NewSubmissionService(log, repo, weeks)
	voting := services.NewVotingService(log, repo, weeks)
	engine := services.NewCycleController(log, weeks, submissions, voting, repo)
	engine.SetClock(clock.Now)

	leaderboard := services.NewLeaderboardService(log, repo)
	share := services.NewShareService(log, repo, "https://beast.example.edu")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := engine.Start(ctx); err != nil {
		t.Fatalf("engine start failed: %v", err)
	}

	h := NewForTesting(engine, weeks, submissions, leaderboard, share, repo)
	return &testServer{
		handlers: h,
		engine:   engine,
		router:   h.Router(),
		clock:    clock,
	}
}

// request performs an authenticated API request as the given user
func (s *testServer) request(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set(identity.UserIDHeader, userID)
		req.Header.Set(identity.UserEmailHeader, userID+"@example.edu")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var apiErr APIError
	decodeBody(t, w, &apiErr)
	return apiErr.Code
}

func TestGetWeek_ReturnsActiveWeek(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "GET", "/api/week", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var week struct {
		Number int    `json:"number"`
		Theme  string `json:"theme"`
		Active bool   `json:"active"`
	}
	decodeBody(t, w, &week)
	if !week.Active || week.Theme == "" {
		t.Errorf("expected an active themed week, got %+v", week)
	}
}

func TestAPI_RequiresIdentity(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "GET", "/api/week", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", w.Code)
	}
}

func TestGetStatus_ReflectsGates(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "GET", "/api/status", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var status StatusResponse
	decodeBody(t, w, &status)
	if status.Phase != "submissions_open" {
		t.Errorf("expected submissions_open on Tuesday, got %s", status.Phase)
	}
	if !status.CanSubmit {
		t.Error("expected can_submit true on Tuesday")
	}
	if status.CanVote {
		t.Error("expected can_vote false on Tuesday")
	}
	if status.Countdown == "" {
		t.Error("expected a countdown string")
	}
}

func TestSubmitClip_CreatesAndGates(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	body := ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		Caption:         "quad parkour",
		DurationSeconds: 30,
		ShowUsername:    true,
	}

	w := s.request(t, "POST", "/api/clips", "alice", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var clip ClipResponse
	decodeBody(t, w, &clip)
	if clip.UserID != "alice" {
		t.Errorf("expected visible user id, got %q", clip.UserID)
	}

	// Duplicate
	w = s.request(t, "POST", "/api/clips", "alice", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", w.Code)
	}
	if code := errorCode(t, w); code != ErrCodeDuplicateSubmission {
		t.Errorf("expected DUPLICATE_SUBMISSION, got %s", code)
	}
}

func TestSubmitClip_ClosedPhase(t *testing.T) {
	s := newTestServer(t, at(3, 10)) // Thursday

	w := s.request(t, "POST", "/api/clips", "alice", ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		DurationSeconds: 30,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 outside window, got %d", w.Code)
	}
	if code := errorCode(t, w); code != ErrCodePhaseClosed {
		t.Errorf("expected PHASE_CLOSED, got %s", code)
	}
}

func TestSubmitClip_AnonymousMasksUser(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "POST", "/api/clips", "alice", ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		DurationSeconds: 30,
		Anonymous:       true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var clip ClipResponse
	decodeBody(t, w, &clip)
	if clip.UserID != "" {
		t.Errorf("anonymous clip leaked user id %q", clip.UserID)
	}

	// The listing masks it too
	w = s.request(t, "GET", "/api/clips", "bob", nil)
	var clips []ClipResponse
	decodeBody(t, w, &clips)
	if len(clips) != 1 || clips[0].UserID != "" {
		t.Errorf("expected masked clip in listing, got %+v", clips)
	}
}

func TestVote_FullFlow(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "POST", "/api/clips", "alice", ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		DurationSeconds: 30,
	})
	var clip ClipResponse
	decodeBody(t, w, &clip)

	// Voting not open yet
	w = s.request(t, "POST", "/api/votes", "bob", VoteSubmitRequest{ClipID: clip.ID})
	if code := errorCode(t, w); code != ErrCodePhaseClosed {
		t.Errorf("expected PHASE_CLOSED on Tuesday, got %s", code)
	}

	s.clock.Set(at(3, 10)) // Thursday

	w = s.request(t, "POST", "/api/votes", "bob", VoteSubmitRequest{ClipID: clip.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// One vote per user per week
	w = s.request(t, "POST", "/api/votes", "bob", VoteSubmitRequest{ClipID: clip.ID})
	if code := errorCode(t, w); code != ErrCodeAlreadyVoted {
		t.Errorf("expected ALREADY_VOTED, got %s", code)
	}

	// Unknown clip
	w = s.request(t, "POST", "/api/votes", "carol", VoteSubmitRequest{ClipID: "nope"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown clip, got %d", w.Code)
	}

	// Leaderboard reflects the vote
	w = s.request(t, "GET", "/api/leaderboard", "bob", nil)
	var board []ClipResponse
	decodeBody(t, w, &board)
	if len(board) != 1 || board[0].VoteCount != 1 {
		t.Errorf("expected leaderboard with 1 vote, got %+v", board)
	}
}

func TestWinnerAndReel_NotAvailableBeforeFreeze(t *testing.T) {
	s := newTestServer(t, at(3, 10))

	w := s.request(t, "GET", "/api/winner", "alice", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before finale, got %d", w.Code)
	}

	w = s.request(t, "GET", "/api/reel", "alice", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before cooldown, got %d", w.Code)
	}
}

func TestWinner_AvailableAfterFinaleFreeze(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "POST", "/api/clips", "alice", ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		DurationSeconds: 30,
	})
	var clip ClipResponse
	decodeBody(t, w, &clip)

	s.clock.Set(at(3, 10))
	s.request(t, "POST", "/api/votes", "bob", VoteSubmitRequest{ClipID: clip.ID})

	s.clock.Set(at(5, 19)) // past the finale boundary
	s.engine.Tick(context.Background())

	w = s.request(t, "GET", "/api/winner", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after freeze, got %d: %s", w.Code, w.Body.String())
	}
	var result WinnerResponse
	decodeBody(t, w, &result)
	if result.Winner == nil || result.Winner.ID != clip.ID {
		t.Errorf("expected frozen winner %s, got %+v", clip.ID, result.Winner)
	}
}

func TestClipShareQR_ReturnsPNG(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	w := s.request(t, "POST", "/api/clips", "alice", ClipSubmitRequest{
		MediaURL:        "https://clips.example.edu/raw/a.mp4",
		DurationSeconds: 30,
	})
	var clip ClipResponse
	decodeBody(t, w, &clip)

	w = s.request(t, "GET", "/api/clips/"+clip.ID+"/share-qr", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("expected PNG bytes")
	}

	w = s.request(t, "GET", "/api/clips/no-such-clip/share-qr", "alice", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown clip, got %d", w.Code)
	}
}

func TestAdmin_LoginStatsReset(t *testing.T) {
	s := newTestServer(t, at(1, 10))

	// Stats without session
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}

	// Wrong password
	wr := s.request(t, "POST", "/api/admin/login", "", AdminLoginRequest{Password: "wrong"})
	if wr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", wr.Code)
	}

	// Login
	wr = s.request(t, "POST", "/api/admin/login", "", AdminLoginRequest{Password: "test-password"})
	if wr.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d: %s", wr.Code, wr.Body.String())
	}
	cookies := wr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Stats with session
	req = httptest.NewRequest("GET", "/api/admin/stats", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 stats, got %d: %s", w.Code, w.Body.String())
	}
	var stats map[string]interface{}
	decodeBody(t, w, &stats)
	if _, ok := stats["total_clips"]; !ok {
		t.Errorf("expected total_clips in stats, got %v", stats)
	}

	// Reset week
	req = httptest.NewRequest("POST", "/api/admin/reset-week", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 reset, got %d: %s", w.Code, w.Body.String())
	}
}
