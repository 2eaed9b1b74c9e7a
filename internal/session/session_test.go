package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stridecart/internal/domain"
	"stridecart/internal/state"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func ann(token string) *domain.Session {
	return &domain.Session{
		User:  domain.User{ID: "u1", Name: "Ann", Email: "ann@stride.test", Role: domain.RoleCustomer},
		Token: token,
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]Store{"sqlite": sqlStore, "redis": NewRedisStore(rdb)}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Load(ctx, "visitor-1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Save(ctx, "visitor-1", ann("opaque")))
			got, err := st.Load(ctx, "visitor-1")
			require.NoError(t, err)
			assert.Equal(t, ann("opaque"), got)

			require.NoError(t, st.Delete(ctx, "visitor-1"))
			_, err = st.Load(ctx, "visitor-1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOpenSQLStoreBadPath(t *testing.T) {
	st, err := OpenSQLStore(filepath.Join(t.TempDir(), "missing", "sessions.db"))
	require.Error(t, err)
	assert.Nil(t, st)
}

func TestRedisStoreTTLFollowsToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	st := NewRedisStore(rdb)

	require.NoError(t, st.Save(context.Background(), "v", ann(signed(t, time.Now().Add(time.Hour)))))
	ttl := mr.TTL(redisPrefix + "v")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(2 * time.Hour)
	_, err := st.Load(context.Background(), "v")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	auth := state.NewAuth()
	m := NewManager(st, "visitor-1", auth)
	require.NoError(t, m.Hydrate(ctx))
	assert.Nil(t, m.User())
	assert.Empty(t, m.Token())

	tok := signed(t, time.Now().Add(time.Hour))
	ok, err := m.Commit(ctx, auth.Start(), ann(tok))
	require.NoError(t, err)
	assert.True(t, ok)

	// a fresh process hydrates from storage
	other := NewManager(st, "visitor-1", state.NewAuth())
	require.NoError(t, other.Hydrate(ctx))
	require.NotNil(t, other.User())
	assert.Equal(t, "Ann", other.User().Name)
	assert.Equal(t, tok, other.Token())

	require.NoError(t, other.Logout(ctx))
	assert.Nil(t, other.User())
	_, err = st.Load(ctx, "visitor-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommitAfterLogoutIsDropped(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	auth := state.NewAuth()
	m := NewManager(st, "visitor-1", auth)
	tk := auth.Start()
	require.NoError(t, m.Logout(ctx))

	ok, err := m.Commit(ctx, tk, ann(signed(t, time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m.User())
	_, err = st.Load(ctx, "visitor-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHydrateDropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Save(ctx, "v", ann(signed(t, time.Now().Add(-time.Minute)))))
	m := NewManager(st, "v", state.NewAuth())
	require.NoError(t, m.Hydrate(ctx))
	assert.Nil(t, m.User())
	_, err = st.Load(ctx, "v")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenExpiry(t *testing.T) {
	_, ok := tokenExpiry("not-a-jwt")
	assert.False(t, ok)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := tokenExpiry(signed(t, exp))
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}
