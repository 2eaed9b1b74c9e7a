package devapi

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
)

var (
	ErrQuantity     = apiError(fiber.StatusBadRequest, "Quantity must be at least 1")
	ErrSize         = apiError(fiber.StatusBadRequest, "Please select an available size")
	ErrNotEnough    = apiError(fiber.StatusBadRequest, "Not enough stock")
	ErrItemNotFound = apiError(fiber.StatusNotFound, "Cart item not found")
)

type CartService struct {
	Carts    *repos.CartRepo
	Products *repos.ProductRepo
}

func (s *CartService) View(userID string) ([]domain.CartItem, error) {
	return s.Carts.Items(userID)
}

// Add puts qty pairs of the product in the given size in the cart. The line
// total may not exceed the product's stock.
func (s *CartService) Add(userID string, in domain.AddToCart) ([]domain.CartItem, error) {
	if in.Quantity < 1 {
		return nil, ErrQuantity
	}
	p, err := s.Products.Get(in.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(p.Sizes) > 0 && !p.HasSize(in.Size) {
		return nil, ErrSize
	}
	have, err := s.Carts.Line(userID, p.ID, in.Size)
	if err != nil {
		return nil, err
	}
	if have+in.Quantity > p.Stock {
		return nil, ErrNotEnough
	}
	if err := s.Carts.Add(uuid.NewString(), userID, p.ID, in.Size, in.Quantity); err != nil {
		return nil, err
	}
	return s.View(userID)
}

func (s *CartService) Update(userID, itemID string, qty int) ([]domain.CartItem, error) {
	if qty < 1 {
		return nil, ErrQuantity
	}
	productID, _, err := s.Carts.Item(userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := s.Products.Get(productID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, ErrNotEnough
	}
	if _, err := s.Carts.SetQty(userID, itemID, qty); err != nil {
		return nil, err
	}
	return s.View(userID)
}

func (s *CartService) Remove(userID, itemID string) ([]domain.CartItem, error) {
	ok, err := s.Carts.Remove(userID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrItemNotFound
	}
	return s.View(userID)
}
