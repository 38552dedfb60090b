package redislock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T, ttl time.Duration) (*Lock, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "assign:lock", ttl).WithRetryInterval(5 * time.Millisecond), mr, client
}

func TestLock_AcquireAndRelease(t *testing.T) {
	lock, mr, _ := newTestLock(t, time.Minute)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("assign:lock"))
	assert.Equal(t, time.Minute, mr.TTL("assign:lock"))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("assign:lock"))
}

func TestLock_BlocksUntilContextEnds(t *testing.T) {
	lock, _, client := newTestLock(t, time.Minute)

	release, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	other := New(client, "assign:lock", time.Minute).WithRetryInterval(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	_, err = other.Acquire(ctx)
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestLock_ReleaseDoesNotStealForeignLock(t *testing.T) {
	lock, mr, _ := newTestLock(t, time.Minute)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	// Simulate expiry followed by another holder taking over.
	require.NoError(t, mr.Set("assign:lock", "someone-else"))

	assert.ErrorIs(t, release(ctx), ErrLockLost)
	got, err := mr.Get("assign:lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestLock_HoldIsExtendedWhileHeld(t *testing.T) {
	lock, mr, _ := newTestLock(t, 300*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		mr.FastForward(250 * time.Millisecond)
		require.Eventually(t, func() bool {
			return mr.TTL("assign:lock") > 100*time.Millisecond
		}, 2*time.Second, 5*time.Millisecond, "hold was not extended")
	}
	assert.True(t, mr.Exists("assign:lock"))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("assign:lock"))

	// Nothing extends a key we no longer hold.
	require.NoError(t, mr.Set("assign:lock", "someone-else"))
	mr.SetTTL("assign:lock", 50*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, mr.TTL("assign:lock"))
}

func TestLock_ExpiredHoldCanBeRetaken(t *testing.T) {
	lock, mr, _ := newTestLock(t, time.Second)
	ctx := context.Background()

	_, err := lock.Acquire(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestLock_MutualExclusion(t *testing.T) {
	lock, _, client := newTestLock(t, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		l := lock
		if i%2 == 1 {
			l = New(client, "assign:lock", time.Minute).WithRetryInterval(2 * time.Millisecond)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx)
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			assert.NoError(t, release(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen.Load())
}
