// Package view derives presentation values from slice snapshots. Everything
// here is pure and cheap enough to recompute on every render.
package view

import (
	"github.com/shopspring/decimal"

	"stridecart/internal/domain"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShipping          = decimal.NewFromInt(10)
)

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	// Gap is how much more the customer has to add for free shipping; zero
	// once the threshold is reached.
	Gap decimal.Decimal
}

func (t Totals) FreeShipping() bool { return t.Shipping.IsZero() }

// CartTotals sums price times quantity over every line. Shipping is free from
// FreeShippingThreshold up and FlatShipping below it.
func CartTotals(items []domain.CartItem) Totals {
	sub := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sub = sub.Add(line)
	}
	t := Totals{Subtotal: sub, Shipping: FlatShipping, Gap: FreeShippingThreshold.Sub(sub)}
	if sub.GreaterThanOrEqual(FreeShippingThreshold) {
		t.Shipping = decimal.Zero
		t.Gap = decimal.Zero
	}
	t.Total = t.Subtotal.Add(t.Shipping)
	return t
}

// Money formats d with two decimals and a dollar sign.
func Money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

// LineTotal is the display total of one cart line.
func LineTotal(it domain.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}
