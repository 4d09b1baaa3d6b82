package cachesvc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
)

var nowFunc = time.Now // mockable

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a process-local core.Cache used when redis is disabled.
// Values are stored JSON-encoded so that callers never share memory with the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var _ core.Cache = (*MemoryCache)(nil) // interface compliance check

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && !nowFunc().Before(e.expiresAt)) {
		return core.ErrCacheMiss
	}
	return errors.Wrapf(json.Unmarshal(e.data, dest), "decoding %s", key)
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = nowFunc().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// NoopCache never stores anything: every Get is a miss.
type NoopCache struct{}

var _ core.Cache = NoopCache{} // interface compliance check

func (NoopCache) Get(context.Context, string, interface{}) error                { return core.ErrCacheMiss }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error                       { return nil }
