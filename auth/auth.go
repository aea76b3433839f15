package auth

import (
	"context"
	"encoding/gob"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type ctxKey string

const (
	sessionName     = "session"
	adminIDKey      = "admin_id"
	adminIDCtxKey   = ctxKey("adminID")
	defaultSecret   = "devsessionsecret"
	sessionLifetime = 14 * 24 * 60 * 60
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// AdminVerifier is an optional callback to validate that a session's admin still exists.
// Set it during app bootstrap via SetAdminVerifier. If nil, no extra verification is performed.
// An error means the answer is unknown, not that the admin is gone.
type AdminVerifier func(ctx context.Context, adminID uint) (bool, error)

var (
	verifier AdminVerifier
	store    = newStore(defaultSecret, false)
)

// SetAdminVerifier configures the global verifier used by RequireAuth.
func SetAdminVerifier(v AdminVerifier) { verifier = v }

func newStore(secret string, secure bool) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionLifetime,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

// Init replaces the cookie store. An empty secret keeps the development default.
func Init(secret string, secure bool) {
	if secret == "" {
		zap.L().Warn("SESSION_SECRET not set, using development secret")
		secret = defaultSecret
	}
	store = newStore(secret, secure)
}

func session(r *http.Request) *sessions.Session {
	s, err := store.Get(r, sessionName)
	if err != nil {
		// Undecodable cookie (rotated secret, tampering): start over with a fresh session.
		s, _ = store.New(r, sessionName)
	}
	return s
}

// CreateSession records adminID in the session cookie.
func CreateSession(w http.ResponseWriter, r *http.Request, adminID uint) error {
	s := session(r)
	s.Values[adminIDKey] = adminID
	s.Options.MaxAge = sessionLifetime
	return s.Save(r, w)
}

// ClearSession forgets the admin and expires the cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) error {
	s := session(r)
	delete(s.Values, adminIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// ParseSession returns the admin id stored in the request's session cookie.
func ParseSession(r *http.Request) (uint, bool) {
	id, ok := session(r).Values[adminIDKey].(uint)
	return id, ok && id != 0
}

// AddFlash queues a message for the next page render.
func AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	s := session(r)
	s.AddFlash(Flash{Category: category, Message: message})
	if err := s.Save(r, w); err != nil {
		zap.L().Warn("save flash", zap.Error(err))
	}
}

// Flashes pops every queued message. Call it before the response body is written.
func Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		zap.L().Warn("clear flashes", zap.Error(err))
	}
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}

// WithAdminID stores admin id in context.
func WithAdminID(ctx context.Context, adminID uint) context.Context {
	return context.WithValue(ctx, adminIDCtxKey, adminID)
}

// AdminIDFromContext extracts admin id.
func AdminIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(adminIDCtxKey).(uint)
	return id, ok && id != 0
}

// Middleware attaches admin id to request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := ParseSession(r); ok {
			r = r.WithContext(WithAdminID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// Deny answers an unauthenticated request: 401 JSON for API clients, otherwise a redirect to /login.
func Deny(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}
	AddFlash(w, r, "warning", "login_required")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AdminIDFromContext(r.Context())
		if !ok {
			Deny(w, r)
			return
		}
		if verifier != nil {
			exists, err := verifier(r.Context(), id)
			if err != nil {
				zap.L().Error("verify session admin", zap.Uint("admin_id", id), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !exists {
				forget(w, r)
				Deny(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// forget drops the admin from a session that refers to a deleted account.
// HTML requests save the session once, together with the login_required flash in Deny.
func forget(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	delete(s.Values, adminIDKey)
	if !wantsJSON(r) {
		return
	}
	if err := s.Save(r, w); err != nil {
		zap.L().Warn("forget session admin", zap.Error(err))
	}
}
