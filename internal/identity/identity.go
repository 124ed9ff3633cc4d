package identity

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userKey contextKey = "beastweek_user"

// Header names set by the campus SSO proxy in front of this service
const (
	UserIDHeader    = "X-User-ID"
	UserEmailHeader = "X-User-Email"
)

// User is the authenticated campus identity attached to a request
type User struct {
	ID    string
	Email string
}

// Middleware extracts the campus identity forwarded by the SSO proxy. When
// emailDomain is non-empty, requests from other domains are rejected; an
// empty domain accepts any identity, which is what local development uses.
type Middleware struct {
	emailDomain string
}

// NewMiddleware creates identity middleware restricted to emailDomain
func NewMiddleware(emailDomain string) *Middleware {
	return &Middleware{emailDomain: strings.ToLower(strings.TrimPrefix(emailDomain, "@"))}
}

// Require rejects requests without a forwarded identity
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(UserIDHeader)
		email := strings.ToLower(r.Header.Get(UserEmailHeader))

		if id == "" {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in with your campus account")
			return
		}
		if m.emailDomain != "" && !strings.HasSuffix(email, "@"+m.emailDomain) {
			writeJSONError(w, http.StatusForbidden, "WRONG_CAMPUS", "A "+m.emailDomain+" account is required")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, User{ID: id, Email: email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the identity attached by Require
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"code":"` + code + `","error":"` + msg + `"}`))
}
