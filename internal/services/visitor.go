package services

import (
	"context"
	"sync"
	"time"

	"stridecart/internal/apiclient"
	"stridecart/internal/domain"
	"stridecart/internal/metrics"
	"stridecart/internal/session"
	"stridecart/internal/state"
)

// Visitor is everything the storefront holds for one browser session: its
// slices, its session, a client carrying its token, and the operations
// wired to them.
type Visitor struct {
	Key     string
	Store   *state.Store
	Session *session.Manager

	Catalog  *CatalogService
	Cart     *CartService
	Manager  *ManagerService
	Auth     *AuthService
	Chat     *ChatService
	Checkout *CheckoutService

	lastSeen time.Time
}

// Registry hands out Visitors by session key, creating and hydrating them on
// first use.
type Registry struct {
	client        *apiclient.Client
	sessions      session.Store
	metrics       *metrics.Metrics
	checkoutDelay time.Duration
	now           func() time.Time

	mu       sync.Mutex
	visitors map[string]*Visitor
}

func NewRegistry(client *apiclient.Client, sessions session.Store, m *metrics.Metrics, checkoutDelay time.Duration) *Registry {
	return &Registry{
		client:        client,
		sessions:      sessions,
		metrics:       m,
		checkoutDelay: checkoutDelay,
		now:           time.Now,
		visitors:      map[string]*Visitor{},
	}
}

// Get hydrates outside the registry lock, so a slow session store only
// delays the visitor being created. When two requests race on a new key the
// first one registered wins.
func (r *Registry) Get(ctx context.Context, key string) (*Visitor, error) {
	if v := r.lookup(key); v != nil {
		return v, nil
	}
	v := r.build(key)
	if err := v.Session.Hydrate(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.visitors[key]; ok {
		existing.lastSeen = r.now()
		return existing, nil
	}
	r.visitors[key] = v
	return v, nil
}

func (r *Registry) lookup(key string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[key]
	if !ok {
		return nil
	}
	v.lastSeen = r.now()
	return v
}

func (r *Registry) build(key string) *Visitor {
	st := state.NewStore()
	st.OnStale(r.metrics.StaleDropped)
	// customer data fetched by a manager does not outlive the sign-in
	st.Auth.Subscribe(func(s state.Snapshot[*domain.Session]) {
		if s.Data == nil && !s.Loading {
			st.Customers.Reset([]domain.User{})
		}
	})
	sess := session.NewManager(r.sessions, key, st.Auth)
	api := r.client.WithTokens(sess)

	catalog := NewCatalogService(api, st.Catalog, r.metrics)
	return &Visitor{
		Key:      key,
		Store:    st,
		Session:  sess,
		Catalog:  catalog,
		Cart:     NewCartService(api, st.Cart, r.metrics),
		Manager:  NewManagerService(api, catalog, st.Customers, r.metrics),
		Auth:     NewAuthService(api, sess, st.Cart, r.metrics),
		Chat:     NewChatService(api, r.metrics),
		Checkout: NewCheckoutService(r.checkoutDelay, r.metrics),
		lastSeen: r.now(),
	}
}

// Sweep drops visitors idle for longer than maxIdle. Their persisted
// sessions stay in the store and are hydrated again on return.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for k, v := range r.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(r.visitors, k)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}
