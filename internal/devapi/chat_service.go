package devapi

import (
	"fmt"
	"strings"

	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
)

// Assistant answers shopper questions from a few canned topics and the
// live catalog. It stands in for a hosted model during development.
type Assistant struct {
	Products *repos.ProductRepo
}

var topics = []struct {
	keys  []string
	reply string
}{
	{[]string{"ship", "delivery"}, "Shipping is a flat $10, and free on orders of $100 or more."},
	{[]string{"return", "refund", "exchange"}, "Unworn shoes can be returned within 30 days for a full refund or an exchange."},
	{[]string{"size", "fit"}, "Most of our shoes run true to size. If you are between sizes, go half a size up for running shoes."},
	{[]string{"hello", "hi", "hey"}, "Hello! Tell me what kind of shoe you are looking for and I will suggest a few."},
}

func (a *Assistant) Reply(message string) (string, error) {
	msg := strings.ToLower(message)
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, t := range topics {
		for _, k := range t.keys {
			for _, w := range words {
				if w == k || len(k) >= 4 && strings.HasPrefix(w, k) {
					return t.reply, nil
				}
			}
		}
	}

	products, err := a.Products.List("")
	if err != nil {
		return "", err
	}
	var picks []domain.Product
	for _, p := range products {
		if !p.InStock() {
			continue
		}
		hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category)
		for _, w := range words {
			if len(w) > 2 && strings.Contains(hay, w) {
				picks = append(picks, p)
				break
			}
		}
		if len(picks) == 3 {
			break
		}
	}
	if len(picks) == 0 {
		return "I can help with sizing, shipping, returns, or finding a shoe. Try asking for running or trail shoes.", nil
	}
	names := make([]string, 0, len(picks))
	for _, p := range picks {
		names = append(names, fmt.Sprintf("%s by %s ($%.2f)", p.Name, p.Brand, p.Price))
	}
	return "You might like: " + strings.Join(names, ", ") + ".", nil
}
