package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocations_RevokeAndCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryRevocations()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocations_EmptyID(t *testing.T) {
	t.Parallel()

	err := NewMemoryRevocations().Revoke(context.Background(), "", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrEmptyTokenID)
}

func TestMemoryRevocations_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryRevocations()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "short", now.Add(time.Minute)))
	require.NoError(t, store.Revoke(ctx, "long", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "past", now.Add(-time.Minute)))
	assert.Equal(t, 2, store.Len())

	now = now.Add(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked, "expired entry must not count as revoked")

	revoked, err = store.IsRevoked(ctx, "long")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryRevocations_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryRevocations()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = store.Revoke(ctx, id, exp)
			_, _ = store.IsRevoked(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, store.Len())
}
