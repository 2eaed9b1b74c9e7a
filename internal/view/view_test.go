package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stridecart/internal/domain"
)

func line(price float64, qty int) domain.CartItem {
	return domain.CartItem{Product: domain.Product{Price: price}, Quantity: qty}
}

func TestCartTotalsScenarios(t *testing.T) {
	tests := []struct {
		name                      string
		items                     []domain.CartItem
		subtotal, shipping, total string
	}{
		{"free shipping", []domain.CartItem{line(60, 2)}, "120.00", "0.00", "120.00"},
		{"flat shipping", []domain.CartItem{line(20, 1)}, "20.00", "10.00", "30.00"},
		{"threshold is inclusive", []domain.CartItem{line(50, 2)}, "100.00", "0.00", "100.00"},
		{"just below", []domain.CartItem{line(99.99, 1)}, "99.99", "10.00", "109.99"},
		{"empty", nil, "0.00", "10.00", "10.00"},
		{"cents add up exactly", []domain.CartItem{line(0.1, 3), line(0.2, 1)}, "0.50", "10.00", "10.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CartTotals(tt.items)
			assert.Equal(t, tt.subtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.shipping, got.Shipping.StringFixed(2))
			assert.Equal(t, tt.total, got.Total.StringFixed(2))
		})
	}
}

func TestCartTotalsSumOfLines(t *testing.T) {
	items := []domain.CartItem{line(19.99, 3), line(5.25, 4), line(0, 7)}
	got := CartTotals(items)
	want := decimal.Zero
	for _, it := range items {
		want = want.Add(LineTotal(it))
	}
	assert.True(t, want.Equal(got.Subtotal))
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Shipping)))
	assert.Equal(t, "$80.97", Money(got.Subtotal))
}

func TestFreeShippingGap(t *testing.T) {
	got := CartTotals([]domain.CartItem{line(30, 1)})
	assert.Equal(t, "70.00", got.Gap.StringFixed(2))
	assert.False(t, got.FreeShipping())
	got = CartTotals([]domain.CartItem{line(130, 1)})
	assert.True(t, got.Gap.IsZero())
	assert.True(t, got.FreeShipping())
}

func catalog() []domain.Product {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Product{
		{ID: "a", Category: "running", Price: 80, CreatedAt: base},
		{ID: "b", Category: "basketball", Price: 150, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Category: "running", Price: 120, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Category: "casual", Price: 45, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func fp(v float64) *float64 { return &v }

func TestFilter(t *testing.T) {
	ps := catalog()
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Filter{}.Apply(ps)))
	assert.Equal(t, []string{"a", "c"}, ids(Filter{Categories: []string{"running"}}.Apply(ps)))
	assert.Empty(t, Filter{Categories: []string{"hiking"}}.Apply(ps))
	assert.Equal(t, []string{"a", "c"}, ids(Filter{Min: fp(80), Max: fp(120)}.Apply(ps)))
	assert.Equal(t, []string{"c"}, ids(Filter{Categories: []string{"running", "casual"}, Min: fp(100)}.Apply(ps)))
	assert.Len(t, ps, 4, "input untouched")
}

func TestParseBound(t *testing.T) {
	assert.Nil(t, ParseBound(""))
	assert.Nil(t, ParseBound("0"))
	assert.Nil(t, ParseBound("abc"))
	assert.Equal(t, 12.5, *ParseBound(" 12.5 "))
}

func TestSort(t *testing.T) {
	ps := catalog()
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(Sort(ps, SortNewest)))
	asc := Sort(ps, SortPriceAsc)
	desc := Sort(ps, SortPriceDesc)
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
	assert.Equal(t, "a", ps[0].ID, "input untouched")
}

func TestSortStableOnEqualPrices(t *testing.T) {
	ps := []domain.Product{{ID: "x", Price: 10}, {ID: "y", Price: 10}, {ID: "z", Price: 5}}
	assert.Equal(t, []string{"z", "x", "y"}, ids(Sort(ps, SortPriceAsc)))
	assert.Equal(t, []string{"x", "y", "z"}, ids(Sort(ps, SortPriceDesc)))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
	assert.Equal(t, SortPriceDesc, ParseSort("price_desc"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"running", "basketball", "casual"}, Categories(catalog()))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "http://x/shoe.png", ImageURL("http://x/", "shoe.png"))
	assert.Equal(t, "http://x/shoe.png", ImageURL("http://x", "/shoe.png"))
	assert.Equal(t, "http://x/shoe.png", ImageURL("http://x/", "/shoe.png"))
	assert.Equal(t, "http://cdn/shoe.png", ImageURL("http://x/", "http://cdn/shoe.png"))
	assert.Equal(t, "https://cdn/shoe.png", ImageURL("http://x/", "https://cdn/shoe.png"))
	assert.Equal(t, "", ImageURL("http://x/", ""))
	assert.Equal(t, "http://x/a.png", PrimaryImage("http://x", domain.Product{Images: []string{"a.png", "b.png"}}))
	assert.Equal(t, "", PrimaryImage("http://x", domain.Product{}))
}

func TestCardMasking(t *testing.T) {
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("4242424242424242"))
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("4242 4242 4242 42429999"))
	assert.Equal(t, "4242 42", FormatCardNumber("424242"))
	assert.Equal(t, "12/28", FormatExpiry("1228"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/28", FormatExpiry("12/2899"))
	assert.Equal(t, "123", FormatCVV("12345"))
}
