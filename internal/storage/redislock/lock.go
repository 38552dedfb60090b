// Package redislock implements a single-holder lock on top of Redis so that
// only one service instance runs an assignment recompute at a time.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotAcquired is returned when the context ends before the lock is free.
	ErrNotAcquired = errors.New("redislock: lock not acquired")
	// ErrLockLost is returned on release when the key expired or changed hands.
	ErrLockLost = errors.New("redislock: lock lost before release")
)

const DefaultRetryInterval = 50 * time.Millisecond

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Resets the TTL only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Client is the subset of *redis.Client the lock needs.
type Client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Lock guards one Redis key.
type Lock struct {
	client Client
	key    string
	ttl    time.Duration
	retry  time.Duration
}

// New returns a lock on key whose hold expires after ttl.
func New(client Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl, retry: DefaultRetryInterval}
}

// WithRetryInterval changes how often a blocked Acquire polls.
func (l *Lock) WithRetryInterval(d time.Duration) *Lock {
	if d > 0 {
		l.retry = d
	}
	return l
}

// Key returns the Redis key the lock is held under.
func (l *Lock) Key() string { return l.key }

// Acquire blocks until the lock is taken or ctx ends. While held, the TTL is
// pushed back every third of its length so long recomputes keep the lock.
// The returned release function stops that and deletes the key; calling it
// again only repeats the delete attempt.
func (l *Lock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, l.key, ctx.Err())
			}
			return nil, fmt.Errorf("acquire %s: %w", l.key, err)
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go l.keepAlive(token, stop, done)

			var once sync.Once
			return func(ctx context.Context) error {
				once.Do(func() {
					close(stop)
					<-done
				})
				return l.release(ctx, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, l.key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// keepAlive extends the hold until stop is closed or the key is no longer ours.
func (l *Lock) keepAlive(token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := extendScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
			cancel()
			if (err == nil && n == 0) || errors.Is(err, redis.ErrClosed) {
				return
			}
		}
	}
}

func (l *Lock) release(ctx context.Context, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int()
	if err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}
