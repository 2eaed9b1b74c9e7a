// Package session owns the signed-in user of one storefront visitor: it
// hydrates the session from durable storage, persists it after login and
// removes it on logout.
package session

import (
	"context"
	"errors"

	"stridecart/internal/domain"
)

// ErrNotFound is returned by Store.Load when nothing is persisted under key.
var ErrNotFound = errors.New("session not found")

// Store persists sessions keyed by visitor.
type Store interface {
	Load(ctx context.Context, key string) (*domain.Session, error)
	Save(ctx context.Context, key string, s *domain.Session) error
	Delete(ctx context.Context, key string) error
}
