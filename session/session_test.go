package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Sessions) {
	ctx := context.Background()
	a, err := s.Create(ctx, "u1", "admin")
	require.NoError(t, err)
	b, err := s.Create(ctx, "u1", "admin")
	require.NoError(t, err)
	c, err := s.Create(ctx, "u2", "user")
	require.NoError(t, err)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, a.ID, got.ID)

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.RevokeAllForUser(ctx, "u1"))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, c.ID)
	assert.NoError(t, err)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpires(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }
	as, err := m.Create(context.Background(), "u1", "user")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(context.Background(), as.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRedisStore runs against a real server when REDIS_TEST_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	exercise(t, NewStore(rdb, time.Minute))
}
