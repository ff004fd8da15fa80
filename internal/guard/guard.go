// Package guard serializes check-then-insert sequences per key.
//
// The document store has no uniqueness constraints, so "one account per
// email" and "one business per owner" are enforced by holding a claim on the
// key while the existence check and the insert run. With Redis the claim is
// shared by every process; the local guard only covers the current process.
package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrClaimed is returned when another caller currently holds the key.
var ErrClaimed = errors.New("key already claimed")

// Release gives a claim back. It is safe to call more than once.
type Release func()

// Guard hands out exclusive, short-lived claims on string keys.
type Guard interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// Local is an in-process Guard.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal returns an empty in-process guard.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Acquire(_ context.Context, key string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrClaimed
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is a Guard backed by SET NX with a TTL, so a crashed holder cannot
// keep a key forever.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis builds a Redis guard. Keys are namespaced with prefix.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClaimed
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err()
		})
	}, nil
}
