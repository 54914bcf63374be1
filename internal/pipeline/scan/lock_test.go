package scan

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnotifier/internal/common/logger"
)

func newTestLock(t *testing.T, ttl time.Duration) (*Lock, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLock(client, ttl, logger.NewTestLogger(t)), mr
}

func TestLock_AcquireAndRelease(t *testing.T) {
	lock, mr := newTestLock(t, 5*time.Minute)
	ctx := context.Background()

	release, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.True(t, mr.Exists(DefaultLockKey))

	// Second acquisition while held is refused without error
	rel2, acquired2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, acquired2)
	assert.Nil(t, rel2)

	release()
	assert.False(t, mr.Exists(DefaultLockKey))

	// Lock is reusable after release
	release3, acquired3, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired3)
	release3()
}

func TestLock_ExpiresAfterTTL(t *testing.T) {
	lock, mr := newTestLock(t, 2*time.Second)
	ctx := context.Background()

	_, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(3 * time.Second)

	// A crashed holder's lock vanishes after the TTL
	release, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
	release()
}

func TestLock_ReleaseIsOwnerScoped(t *testing.T) {
	lock, mr := newTestLock(t, 1*time.Second)
	ctx := context.Background()

	staleRelease, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	// The first holder's lock expires and a second holder takes over
	mr.FastForward(2 * time.Second)
	release, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	// The stale holder's release must not free the successor's lock
	staleRelease()
	assert.True(t, mr.Exists(DefaultLockKey))

	release()
	assert.False(t, mr.Exists(DefaultLockKey))
}

func TestLock_AcquireErrorWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	lock := NewLock(client, time.Minute, logger.NewTestLogger(t))

	mr.Close()

	_, acquired, err := lock.Acquire(context.Background())
	assert.Error(t, err)
	assert.False(t, acquired)
}
