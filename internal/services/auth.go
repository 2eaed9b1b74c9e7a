package services

import (
	"context"
	"time"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/metrics"
	"stridecart/internal/session"
	"stridecart/internal/state"
)

type AuthService struct {
	API     API
	Session *session.Manager
	Cart    *state.Cart
	Metrics *metrics.Metrics
}

func NewAuthService(api API, sess *session.Manager, cart *state.Cart, m *metrics.Metrics) *AuthService {
	return &AuthService{API: api, Session: sess, Cart: cart, Metrics: m}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) error {
	return s.authenticate(ctx, "auth.login", "Login failed", func(ctx context.Context) (*domain.Session, error) {
		return s.API.Login(ctx, creds)
	})
}

// Register creates an account and signs it in. A confirmation that does not
// match the password fails the auth slice without contacting the backend.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration, confirm string) error {
	if reg.Password != confirm {
		tk := s.Session.Auth().Start()
		s.Session.Auth().Fail(tk, "Passwords do not match")
		return &Failure{Op: "auth.register", Message: "Passwords do not match", Err: ErrPasswordMismatch}
	}
	return s.authenticate(ctx, "auth.register", "Registration failed", func(ctx context.Context) (*domain.Session, error) {
		return s.API.Register(ctx, reg)
	})
}

func (s *AuthService) authenticate(ctx context.Context, op, fallback string, call func(context.Context) (*domain.Session, error)) error {
	auth := s.Session.Auth()
	tk := auth.Start()
	start := time.Now()
	sess, err := call(ctx)
	s.Metrics.Observe(op, start, err)
	if err != nil {
		f := fail(op, fallback, err)
		auth.Fail(tk, f.Message)
		return f
	}
	ok, err := s.Session.Commit(ctx, tk, sess)
	if err != nil {
		// the visitor is still signed in for this process
		applog.Op("session.persist", err, map[string]any{"user_id": sess.User.ID})
	}
	if ok {
		applog.Op(op, nil, map[string]any{"user_id": sess.User.ID})
	}
	return nil
}

// Logout forgets the session and empties the local cart.
func (s *AuthService) Logout(ctx context.Context) error {
	s.Cart.Reset([]domain.CartItem{})
	return s.Session.Logout(ctx)
}

func (s *AuthService) ClearError() { s.Session.Auth().ClearError() }
