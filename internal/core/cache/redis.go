package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrSkipStore can be returned by a GetOrLoad loader alongside its value:
// the value is served to the caller but never written to the cache.
var ErrSkipStore = errors.New("cache: skip store")

// Cache is a thin read-through cache plus a small TTL'd KV used for
// short-lived tokens. Backed by redis when configured; NewMemory gives a
// process-local fallback so single-node and test setups need no redis.
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	val string
	exp time.Time
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func NewMemory() *Cache {
	return &Cache{mem: make(map[string]memEntry)}
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		b, err := load(ctx)
		if errors.Is(err, ErrSkipStore) {
			err = nil
		}
		return b, err
	}
	if c.RDB != nil {
		if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
			return b, nil
		}
	} else if v, _ := c.GetString(ctx, key); v != "" {
		return []byte(v), nil
	}
	// singleflight collapses concurrent misses for the same key
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if errors.Is(e, ErrSkipStore) {
			return b, nil
		}
		if e != nil {
			return nil, e
		}
		if c.RDB != nil {
			_ = c.RDB.Set(ctx, key, b, ttl).Err()
		} else {
			_ = c.SetString(ctx, key, string(b), ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Forget drops keys after a mutation so the next read recomputes.
func (c *Cache) Forget(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if c.RDB != nil {
		_ = c.RDB.Del(ctx, keys...).Err()
		return
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.mem, k)
	}
	c.mu.Unlock()
}

// SetString stores a plain value with TTL (reset tokens, revoked JWT ids).
func (c *Cache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if c.RDB != nil {
		return c.RDB.Set(ctx, key, val, ttl).Err()
	}
	c.mu.Lock()
	c.mem[key] = memEntry{val: val, exp: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// GetString returns ("", nil) on a missing or expired key.
func (c *Cache) GetString(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", nil
	}
	if c.RDB != nil {
		v, err := c.RDB.Get(ctx, key).Result()
		if err == redis.Nil {
			return "", nil
		}
		return v, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mem[key]
	if !ok || time.Now().After(e.exp) {
		delete(c.mem, key)
		return "", nil
	}
	return e.val, nil
}
