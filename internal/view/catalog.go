package view

import (
	"sort"
	"strconv"
	"strings"

	"stridecart/internal/domain"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSort falls back to SortNewest for anything it does not know.
func ParseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	}
	return SortNewest
}

// Filter selects products by category membership and an inclusive price
// range. A nil bound and an empty category set both mean "no constraint".
type Filter struct {
	Categories []string
	Min, Max   *float64
}

func (f Filter) match(p domain.Product) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == p.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Min != nil && p.Price < *f.Min {
		return false
	}
	if f.Max != nil && p.Price > *f.Max {
		return false
	}
	return true
}

// Apply returns a new slice; products is not modified.
func (f Filter) Apply(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ParseBound reads a price bound from a form field. Blank, zero and
// unparsable input mean no bound.
func ParseBound(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// Sort orders a copy of products. Equal keys keep their relative order.
func Sort(products []domain.Product, order SortOrder) []domain.Product {
	out := append([]domain.Product(nil), products...)
	var less func(i, j int) bool
	switch order {
	case SortPriceAsc:
		less = func(i, j int) bool { return out[i].Price < out[j].Price }
	case SortPriceDesc:
		less = func(i, j int) bool { return out[i].Price > out[j].Price }
	default:
		less = func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) }
	}
	sort.SliceStable(out, less)
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
