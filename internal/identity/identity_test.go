package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(captured *User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := FromContext(r.Context()); ok && captured != nil {
			*captured = u
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequire_AttachesIdentity(t *testing.T) {
	var got User
	mw := NewMiddleware("state.edu")

	req := httptest.NewRequest("GET", "/api/week", nil)
	req.Header.Set(UserIDHeader, "user-42")
	req.Header.Set(UserEmailHeader, "Sam@State.edu")
	w := httptest.NewRecorder()

	mw.Require(okHandler(&got)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.ID != "user-42" {
		t.Errorf("expected user-42, got %s", got.ID)
	}
	if got.Email != "sam@state.edu" {
		t.Errorf("expected lowercased email, got %s", got.Email)
	}
}

func TestRequire_RejectsMissingIdentity(t *testing.T) {
	mw := NewMiddleware("state.edu")

	req := httptest.NewRequest("GET", "/api/week", nil)
	w := httptest.NewRecorder()

	mw.Require(okHandler(nil)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequire_RejectsWrongDomain(t *testing.T) {
	mw := NewMiddleware("state.edu")

	req := httptest.NewRequest("GET", "/api/week", nil)
	req.Header.Set(UserIDHeader, "user-42")
	req.Header.Set(UserEmailHeader, "sam@rival.edu")
	w := httptest.NewRecorder()

	mw.Require(okHandler(nil)).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRequire_EmptyDomainAcceptsAnyone(t *testing.T) {
	mw := NewMiddleware("")

	req := httptest.NewRequest("GET", "/api/week", nil)
	req.Header.Set(UserIDHeader, "user-42")
	w := httptest.NewRecorder()

	mw.Require(okHandler(nil)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with no domain restriction, got %d", w.Code)
	}
}

func TestAdminAuth_LoginAndValidate(t *testing.T) {
	auth := NewAdminAuth("correct-password")

	if _, ok := auth.Login("wrong"); ok {
		t.Error("expected login to fail with wrong password")
	}

	token, ok := auth.Login("correct-password")
	if !ok {
		t.Fatal("expected login to succeed")
	}
	if !auth.ValidateSession(token) {
		t.Error("expected fresh session to validate")
	}

	auth.Logout(token)
	if auth.ValidateSession(token) {
		t.Error("expected session to be invalid after logout")
	}
}

func TestAdminAuth_RequireAdmin(t *testing.T) {
	auth := NewAdminAuth("pw")
	token, _ := auth.Login("pw")

	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Without cookie
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", w.Code)
	}

	// With cookie
	req = httptest.NewRequest("GET", "/api/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with session, got %d", w.Code)
	}
}

func TestGeneratePassword_ThreeWords(t *testing.T) {
	pw := GeneratePassword()
	parts := 1
	for _, c := range pw {
		if c == '-' {
			parts++
		}
	}
	if parts != 3 {
		t.Errorf("expected 3 words, got %d in %q", parts, pw)
	}
}
