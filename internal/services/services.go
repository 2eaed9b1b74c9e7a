// Package services holds the storefront's synchronization operations. Each
// operation drives one slice through start and then success or failure
// while it talks to the backend through the API client.
package services

import (
	"context"
	"errors"
	"time"

	"stridecart/internal/apiclient"
	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/metrics"
	"stridecart/internal/state"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrSizeRequired     = errors.New("please select a size")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// API is the part of the backend client the services depend on.
type API interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)

	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SaveProduct(ctx context.Context, form domain.ProductForm) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	GetCart(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, in domain.AddToCart) ([]domain.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) ([]domain.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID string) ([]domain.CartItem, error)

	ListCustomers(ctx context.Context) ([]domain.User, error)
	UpdateCustomer(ctx context.Context, id string, upd domain.CustomerUpdate) error
	DeleteCustomer(ctx context.Context, id string) error

	SendChat(ctx context.Context, message string) (string, error)
}

var _ API = (*apiclient.Client)(nil)

// Failure is what an operation returns after it has already recorded the
// failure on its slice. Message is the text the slice stores.
type Failure struct {
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Err }

func fail(op, fallback string, err error) *Failure {
	applog.Op(op+".fail", err, nil)
	return &Failure{Op: op, Message: apiclient.Message(err, fallback), Err: err}
}

// run calls call between Start and Succeed/Fail on s. The error is returned
// for inline display; the slice is updated either way.
func run[T any](ctx context.Context, m *metrics.Metrics, op string, s *state.Slice[T], fallback string, call func(context.Context) (T, error)) error {
	tk := s.Start()
	start := time.Now()
	data, err := call(ctx)
	m.Observe(op, start, err)
	if err != nil {
		f := fail(op, fallback, err)
		s.Fail(tk, f.Message)
		return f
	}
	s.Succeed(tk, data)
	return nil
}

// mutate runs an operation that has no slice of its own, such as saving a
// product, and reports a Failure for the page to show inline.
func mutate(ctx context.Context, m *metrics.Metrics, op, fallback string, call func(context.Context) error) error {
	start := time.Now()
	err := call(ctx)
	m.Observe(op, start, err)
	if err != nil {
		return fail(op, fallback, err)
	}
	return nil
}
