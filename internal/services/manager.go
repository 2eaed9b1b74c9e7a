package services

import (
	"context"

	"stridecart/internal/domain"
	"stridecart/internal/metrics"
	"stridecart/internal/state"
)

// ManagerService backs the dashboard: product and customer maintenance.
// Mutations have no slice of their own; after a successful one the affected
// list is fetched again so the slices keep mirroring the backend.
type ManagerService struct {
	API       API
	Catalog   *CatalogService
	Customers *state.Customers
	Metrics   *metrics.Metrics
}

func NewManagerService(api API, catalog *CatalogService, customers *state.Customers, m *metrics.Metrics) *ManagerService {
	return &ManagerService{API: api, Catalog: catalog, Customers: customers, Metrics: m}
}

// SaveProduct creates the product when form.ID is empty, updates it otherwise.
func (s *ManagerService) SaveProduct(ctx context.Context, form domain.ProductForm) error {
	op := "products.create"
	if form.ID != "" {
		op = "products.update"
	}
	err := mutate(ctx, s.Metrics, op, "Failed to save product", func(ctx context.Context) error {
		_, err := s.API.SaveProduct(ctx, form)
		return err
	})
	if err != nil {
		return err
	}
	return s.Catalog.List(ctx, "")
}

func (s *ManagerService) DeleteProduct(ctx context.Context, id string) error {
	err := mutate(ctx, s.Metrics, "products.delete", "Failed to delete product", func(ctx context.Context) error {
		return s.API.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	return s.Catalog.List(ctx, "")
}

func (s *ManagerService) ListCustomers(ctx context.Context) error {
	return run(ctx, s.Metrics, "users.list", s.Customers, "Failed to fetch customers", s.API.ListCustomers)
}

func (s *ManagerService) UpdateCustomer(ctx context.Context, id string, upd domain.CustomerUpdate) error {
	err := mutate(ctx, s.Metrics, "users.update", "Failed to update customer", func(ctx context.Context) error {
		return s.API.UpdateCustomer(ctx, id, upd)
	})
	if err != nil {
		return err
	}
	return s.ListCustomers(ctx)
}

func (s *ManagerService) DeleteCustomer(ctx context.Context, id string) error {
	err := mutate(ctx, s.Metrics, "users.delete", "Failed to delete customer", func(ctx context.Context) error {
		return s.API.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return err
	}
	return s.ListCustomers(ctx)
}
