package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/state"
)

// Manager binds one visitor's auth slice to durable storage. It is the
// TokenSource handed to that visitor's API client.
type Manager struct {
	// mu orders Commit against Hydrate and Logout so storage never holds a
	// session the auth slice has dropped.
	mu    sync.Mutex
	key   string
	store Store
	auth  *state.Auth
	now   func() time.Time
}

func NewManager(store Store, key string, auth *state.Auth) *Manager {
	return &Manager{key: key, store: store, auth: auth, now: time.Now}
}

// Hydrate restores the persisted session into the auth slice. A session whose
// token has expired is deleted instead.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.store.Load(ctx, m.key)
	if errors.Is(err, ErrNotFound) {
		m.auth.Reset(nil)
		return nil
	}
	if err != nil {
		return err
	}
	if exp, ok := tokenExpiry(sess.Token); ok && !m.now().Before(exp) {
		applog.Op("session.expired", nil, map[string]any{"user_id": sess.User.ID})
		m.auth.Reset(nil)
		return m.store.Delete(ctx, m.key)
	}
	m.auth.Reset(sess)
	return nil
}

// Commit completes ticket tk with sess and saves it. A superseded ticket
// leaves both the slice and storage untouched and reports false.
func (m *Manager) Commit(ctx context.Context, tk state.Ticket, sess *domain.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.auth.Succeed(tk, sess) {
		return false, nil
	}
	return true, m.store.Save(ctx, m.key, sess)
}

// Logout removes the stored session and empties the auth slice. Any login
// still in flight is superseded.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth.Reset(nil)
	return m.store.Delete(ctx, m.key)
}

func (m *Manager) Token() string {
	if s := m.auth.Snapshot().Data; s != nil {
		return s.Token
	}
	return ""
}

// User returns the signed-in user, or nil.
func (m *Manager) User() *domain.User {
	if s := m.auth.Snapshot().Data; s != nil {
		u := s.User
		return &u
	}
	return nil
}

func (m *Manager) Auth() *state.Auth { return m.auth }

// tokenExpiry reads "exp" from a JWT without verifying it; the backend stays
// the authority on validity. Opaque tokens report ok=false.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
