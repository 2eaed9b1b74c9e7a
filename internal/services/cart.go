package services

import (
	"context"

	"stridecart/internal/domain"
	"stridecart/internal/metrics"
	"stridecart/internal/state"
)

// CartService assumes a signed-in session; pages redirect to login before
// calling it.
type CartService struct {
	API     API
	Cart    *state.Cart
	Metrics *metrics.Metrics
}

func NewCartService(api API, cart *state.Cart, m *metrics.Metrics) *CartService {
	return &CartService{API: api, Cart: cart, Metrics: m}
}

func (s *CartService) Fetch(ctx context.Context) error {
	return run(ctx, s.Metrics, "cart.fetch", s.Cart, "Failed to fetch cart", s.API.GetCart)
}

// Add puts quantity pairs of the given size in the cart. A missing size or
// a quantity below 1 is rejected before any request is made.
func (s *CartService) Add(ctx context.Context, productID string, quantity int, size float64) error {
	if size <= 0 {
		return ErrSizeRequired
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	in := domain.AddToCart{ProductID: productID, Quantity: quantity, Size: size}
	return run(ctx, s.Metrics, "cart.add", s.Cart, "Failed to add to cart",
		func(ctx context.Context) ([]domain.CartItem, error) {
			return s.API.AddToCart(ctx, in)
		})
}

// AddProduct is Add for a product the page already holds. An out-of-stock
// product is refused locally.
func (s *CartService) AddProduct(ctx context.Context, p domain.Product, quantity int, size float64) error {
	if !p.InStock() {
		return ErrOutOfStock
	}
	return s.Add(ctx, p.ID, quantity, size)
}

// Update sets the quantity of one line. Quantities below 1 are a local no-op
// returning ErrInvalidQuantity; stock limits are left to the backend.
func (s *CartService) Update(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return run(ctx, s.Metrics, "cart.update", s.Cart, "Failed to update cart",
		func(ctx context.Context) ([]domain.CartItem, error) {
			return s.API.UpdateCartItem(ctx, itemID, quantity)
		})
}

func (s *CartService) Remove(ctx context.Context, itemID string) error {
	return run(ctx, s.Metrics, "cart.remove", s.Cart, "Failed to remove item",
		func(ctx context.Context) ([]domain.CartItem, error) {
			return s.API.RemoveCartItem(ctx, itemID)
		})
}
