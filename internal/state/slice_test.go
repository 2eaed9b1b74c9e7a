package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stridecart/internal/domain"
)

func items(ids ...string) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CartItem{ID: id, Quantity: 1})
	}
	return out
}

func TestSucceedReplacesDataAndClearsError(t *testing.T) {
	c := NewCart()
	tk := c.Start()
	require.True(t, c.Fail(tk, "Failed to fetch cart"))

	tk = c.Start()
	snap := c.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Err, "start clears the error")

	require.True(t, c.Succeed(tk, items("a", "b")))
	tk = c.Start()
	require.True(t, c.Succeed(tk, items("c")))

	snap = c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	assert.Equal(t, items("c"), snap.Data, "no merge with old entries")
}

func TestFailKeepsData(t *testing.T) {
	c := NewCart()
	require.True(t, c.Succeed(c.Start(), items("a")))

	require.True(t, c.Fail(c.Start(), "Failed to update cart"))
	snap := c.Snapshot()
	assert.Equal(t, items("a"), snap.Data)
	assert.Equal(t, "Failed to update cart", snap.Err)
	assert.False(t, snap.Loading)
}

func TestStaleCompletionDropped(t *testing.T) {
	c := NewCart()
	var dropped []string
	c.OnStale(func(name string) { dropped = append(dropped, name) })

	first := c.Start()
	second := c.Start()

	require.True(t, c.Succeed(second, items("fresh")))
	assert.False(t, c.Succeed(first, items("stale")))
	assert.False(t, c.Fail(first, "late failure"))

	snap := c.Snapshot()
	assert.Equal(t, items("fresh"), snap.Data)
	assert.Empty(t, snap.Err)
	assert.Equal(t, []string{"cart", "cart"}, dropped)
}

func TestStaleCompletionKeepsLoadingForLatest(t *testing.T) {
	c := NewCart()
	first := c.Start()
	_ = c.Start()
	c.Succeed(first, items("stale"))
	assert.True(t, c.Snapshot().Loading, "latest request still outstanding")
}

func TestResetSupersedesInFlight(t *testing.T) {
	c := NewCart()
	require.True(t, c.Succeed(c.Start(), items("a")))
	tk := c.Start()
	c.Reset([]domain.CartItem{})
	assert.False(t, c.Succeed(tk, items("b")))
	assert.Empty(t, c.Snapshot().Data)
}

func TestCatalogLanesIndependent(t *testing.T) {
	cat := NewCatalog()
	listTk := cat.List.Start()
	focusTk := cat.Focused.Start()

	p := &domain.Product{ID: "p1"}
	require.True(t, cat.Focused.Succeed(focusTk, p))
	require.True(t, cat.List.Succeed(listTk, []domain.Product{*p}))

	require.True(t, cat.Focused.Fail(cat.Focused.Start(), "Failed to fetch product"))
	assert.Equal(t, p, cat.Focused.Snapshot().Data)

	cat.ClearFocused()
	assert.Nil(t, cat.Focused.Snapshot().Data)
	assert.Len(t, cat.List.Snapshot().Data, 1)
}

func TestSubscribeSeesTransitions(t *testing.T) {
	c := NewCart()
	var mu sync.Mutex
	var seen []Snapshot[[]domain.CartItem]
	c.Subscribe(func(s Snapshot[[]domain.CartItem]) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	c.Succeed(c.Start(), items("a"))
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
}

func TestConcurrentOperationsSettleOnLatest(t *testing.T) {
	c := NewCart()
	var wg sync.WaitGroup
	tickets := make([]Ticket, 50)
	for i := range tickets {
		tickets[i] = c.Start()
	}
	for i, tk := range tickets {
		wg.Add(1)
		go func(i int, tk Ticket) {
			defer wg.Done()
			c.Succeed(tk, items(string(rune('a'+i%26))))
		}(i, tk)
	}
	wg.Wait()
	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, items(string(rune('a'+49%26))), snap.Data)
}
