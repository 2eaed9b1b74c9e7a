package state

import "stridecart/internal/domain"

type Cart = Slice[[]domain.CartItem]

func NewCart() *Cart { return NewSlice[[]domain.CartItem]("cart", []domain.CartItem{}) }

// Catalog keeps the product list and the focused product on separate lanes,
// so a detail fetch never supersedes a list fetch or the other way round.
type Catalog struct {
	List    *Slice[[]domain.Product]
	Focused *Slice[*domain.Product]
}

func NewCatalog() *Catalog {
	return &Catalog{
		List:    NewSlice[[]domain.Product]("catalog.list", []domain.Product{}),
		Focused: NewSlice[*domain.Product]("catalog.focused", nil),
	}
}

// ClearFocused drops the focused product, as when leaving the detail view.
func (c *Catalog) ClearFocused() { c.Focused.Reset(nil) }

type Customers = Slice[[]domain.User]

func NewCustomers() *Customers { return NewSlice[[]domain.User]("customers", []domain.User{}) }

type Auth = Slice[*domain.Session]

func NewAuth() *Auth { return NewSlice[*domain.Session]("auth", nil) }

// Store groups every slice the storefront renders from.
type Store struct {
	Cart      *Cart
	Catalog   *Catalog
	Customers *Customers
	Auth      *Auth
}

func NewStore() *Store {
	return &Store{
		Cart:      NewCart(),
		Catalog:   NewCatalog(),
		Customers: NewCustomers(),
		Auth:      NewAuth(),
	}
}

// OnStale installs fn on every slice in the store.
func (s *Store) OnStale(fn func(name string)) {
	s.Cart.OnStale(fn)
	s.Catalog.List.OnStale(fn)
	s.Catalog.Focused.OnStale(fn)
	s.Customers.OnStale(fn)
	s.Auth.OnStale(fn)
}
