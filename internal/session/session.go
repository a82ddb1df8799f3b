// Package session implements the opaque cookie-backed server-side session.
// A session holds at most the public view of the logged-in user.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fluffle/apiserver/types"
	"github.com/google/uuid"
)

// ErrNoSession is returned by stores when no live session exists for an id.
var ErrNoSession = errors.New("no session")

const (
	DefaultCookieName = "fluffle_session"
	DefaultTTL        = 10 * time.Minute
)

// Store persists session records keyed by opaque id.
type Store interface {
	Save(ctx context.Context, id string, user types.PublicUser, ttl time.Duration) error
	Load(ctx context.Context, id string) (types.PublicUser, error)
	Delete(ctx context.Context, id string) error
}

// Manager issues, resolves, and clears sessions via an HTTP cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
}

func NewManager(store Store, cookieName string, ttl time.Duration) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, cookieName: cookieName, ttl: ttl}
}

// Issue starts a new session for the user and sets the session cookie.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, user types.PublicUser) error {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, user, m.ttl); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear destroys the request's session, if any, and expires the cookie.
// Clearing an absent session is not an error.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		_ = m.store.Delete(ctx, cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the session cookie and injects the user into the
// request context. Requests without a live session pass through anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := m.store.Load(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user types.PublicUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFrom returns the authenticated user from the context, if any.
func UserFrom(ctx context.Context) (types.PublicUser, bool) {
	user, ok := ctx.Value(contextKey{}).(types.PublicUser)
	return user, ok
}
