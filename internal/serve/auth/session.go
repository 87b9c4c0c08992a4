// Package auth holds the browser session layer: a signed client-side token
// carrying the authenticated account address and the pending flash messages.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookieName is the cookie the signed session token travels in.
	SessionCookieName = "estate_session"

	// DefaultSessionTTL bounds how long a login survives without activity.
	DefaultSessionTTL = 12 * time.Hour
)

// Flash levels, named after the alert classes the templates map them to.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-request-lifetime message attached to the session. It is
// consumed and cleared on the next page render.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the per-browser state: the authenticated account address (empty
// when signed out) and flashes queued for the next render. Handlers mutate it
// and persist it through SessionManager.Save before writing the response.
type Session struct {
	Account string

	flashes []Flash
}

// LoggedIn reports whether the session holds an authenticated account.
func (s *Session) LoggedIn() bool {
	return s.Account != ""
}

// Flash queues a message for the next rendered page.
func (s *Session) Flash(level, message string) {
	s.flashes = append(s.flashes, Flash{Level: level, Message: message})
}

// ConsumeFlashes returns the queued flashes and clears them.
func (s *Session) ConsumeFlashes() []Flash {
	flashes := s.flashes
	s.flashes = nil
	return flashes
}

type sessionClaims struct {
	Account string  `json:"acct,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager signs, loads and clears session tokens. State lives entirely
// in the cookie, so a process restart only invalidates sessions if the secret
// changes.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Load reconstructs the session from the request cookie. A missing, expired
// or tampered token yields a fresh anonymous session, never an error: the
// caller treats all of those as "not signed in".
func (m *SessionManager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return &Session{}
	}

	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return &Session{}
	}

	return &Session{Account: claims.Account, flashes: claims.Flashes}
}

// Save persists the session into the response cookie. An empty session
// (signed out, no flashes) drops the cookie instead. Must be called before
// the response body is written.
func (m *SessionManager) Save(w http.ResponseWriter, s *Session) error {
	if s.Account == "" && len(s.flashes) == 0 {
		m.Clear(w)
		return nil
	}

	now := time.Now()
	claims := sessionClaims{
		Account: s.Account,
		Flashes: s.flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear drops the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey struct{}

// WithSession attaches the session to the request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// SessionFromContext returns the session placed by the session middleware.
// Requests that bypass the middleware get an anonymous session.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return &Session{}
}
