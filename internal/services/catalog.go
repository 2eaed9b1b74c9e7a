package services

import (
	"context"

	"stridecart/internal/domain"
	"stridecart/internal/metrics"
	"stridecart/internal/state"
)

type CatalogService struct {
	API     API
	Catalog *state.Catalog
	Metrics *metrics.Metrics
}

func NewCatalogService(api API, catalog *state.Catalog, m *metrics.Metrics) *CatalogService {
	return &CatalogService{API: api, Catalog: catalog, Metrics: m}
}

// List fetches the products matching search ("" for all).
func (s *CatalogService) List(ctx context.Context, search string) error {
	return run(ctx, s.Metrics, "products.list", s.Catalog.List, "Failed to fetch products",
		func(ctx context.Context) ([]domain.Product, error) {
			return s.API.ListProducts(ctx, search)
		})
}

// Get loads one product into the focused lane.
func (s *CatalogService) Get(ctx context.Context, id string) error {
	return run(ctx, s.Metrics, "products.get", s.Catalog.Focused, "Failed to fetch product",
		func(ctx context.Context) (*domain.Product, error) {
			return s.API.GetProduct(ctx, id)
		})
}

func (s *CatalogService) ClearFocused() { s.Catalog.ClearFocused() }
