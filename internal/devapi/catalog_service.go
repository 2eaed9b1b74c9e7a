package devapi

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stridecart/internal/devapi/repos"
	"stridecart/internal/domain"
)

var (
	ErrProductName  = apiError(fiber.StatusBadRequest, "Product name is required")
	ErrProductPrice = apiError(fiber.StatusBadRequest, "Price must be zero or more")
	ErrProductStock = apiError(fiber.StatusBadRequest, "Stock must be zero or more")
)

type CatalogService struct {
	Products *repos.ProductRepo
	now      func() time.Time
}

func NewCatalogService(products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Products: products, now: time.Now}
}

func (s *CatalogService) List(search string) ([]domain.Product, error) {
	return s.Products.List(search)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

func checkProduct(p domain.Product) error {
	switch {
	case p.Name == "":
		return ErrProductName
	case p.Price < 0:
		return ErrProductPrice
	case p.Stock < 0:
		return ErrProductStock
	}
	return nil
}

func (s *CatalogService) Create(p domain.Product) (domain.Product, error) {
	if err := checkProduct(p); err != nil {
		return domain.Product{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	if err := s.Products.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Get(p.ID)
}

// Update replaces the product's fields. A nil Images keeps the stored
// images.
func (s *CatalogService) Update(p domain.Product) (domain.Product, error) {
	if err := checkProduct(p); err != nil {
		return domain.Product{}, err
	}
	cur, err := s.Get(p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Images == nil {
		p.Images = cur.Images
	}
	ok, err := s.Products.Update(p)
	if err != nil {
		return domain.Product{}, err
	}
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return s.Get(p.ID)
}

func (s *CatalogService) Delete(id string) error {
	ok, err := s.Products.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
