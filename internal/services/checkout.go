package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
	"stridecart/internal/metrics"
	"stridecart/internal/validate"
	"stridecart/internal/view"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrCardDetails = errors.New("invalid card details")
)

// Payment is what the checkout form collects, already masked by the view
// helpers.
type Payment struct {
	Name   string
	Number string
	Expiry string
	CVV    string
}

type Receipt struct {
	ID    string
	Total decimal.Decimal
	Last4 string
	At    time.Time
}

// CheckoutService simulates payment. Nothing is charged and the backend is
// never contacted; the cart is left as it is.
type CheckoutService struct {
	Delay   time.Duration
	Metrics *metrics.Metrics
	now     func() time.Time
}

func NewCheckoutService(delay time.Duration, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{Delay: delay, Metrics: m, now: time.Now}
}

// Pay checks the card fields, waits out the processing delay and returns a
// receipt for the cart total. Field problems come back as a FieldErrors.
func (s *CheckoutService) Pay(ctx context.Context, items []domain.CartItem, p Payment) (*Receipt, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if fe := s.check(p); len(fe) > 0 {
		return nil, fe
	}
	start := time.Now()
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		s.Metrics.Observe("checkout.pay", start, ctx.Err())
		return nil, ctx.Err()
	}
	s.Metrics.Observe("checkout.pay", start, nil)

	digits := strings.ReplaceAll(p.Number, " ", "")
	r := &Receipt{
		ID:    uuid.NewString(),
		Total: view.CartTotals(items).Total,
		Last4: digits[len(digits)-4:],
		At:    s.now(),
	}
	applog.Op("checkout.pay", nil, map[string]any{"receipt": r.ID, "total": r.Total.StringFixed(2)})
	return r, nil
}

// FieldErrors maps form field names to a message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string { return ErrCardDetails.Error() }
func (fe FieldErrors) Unwrap() error { return ErrCardDetails }

func (s *CheckoutService) check(p Payment) FieldErrors {
	fe := FieldErrors{}
	if _, ok := validate.Name(p.Name); !ok {
		fe["name"] = "Enter the name on the card"
	}
	if !validate.CardNumber(p.Number) {
		fe["number"] = "Enter a 16 digit card number"
	}
	if !validate.Expiry(p.Expiry, s.now()) {
		fe["expiry"] = "Enter a valid expiry date (MM/YY)"
	}
	if !validate.CVV(p.CVV) {
		fe["cvv"] = "Enter the 3 digit security code"
	}
	return fe
}
