package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

func (m memoryItem) expired(now time.Time) bool {
	return !m.expireAt.IsZero() && now.After(m.expireAt)
}

// MemoryCache implements Store with an in-process map. Expired entries are
// dropped lazily on lookup; an optional background sweep bounds memory when
// many distinct keys accumulate.
type MemoryCache struct {
	mu     sync.RWMutex
	data   map[string]memoryItem
	now    func() time.Time
	sweep  *time.Ticker
	closed chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		Clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:   make(map[string]memoryItem),
		now:    cfg.Clock,
		closed: make(chan struct{}),
	}
	if cfg.SweepInterval > 0 {
		mc.sweep = time.NewTicker(cfg.SweepInterval)
		go mc.sweepExpired()
	}
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.RLock()
	item, ok := mc.data[key]
	mc.mu.RUnlock()

	if !ok {
		return ErrMiss
	}
	if item.expired(mc.now()) {
		mc.mu.Lock()
		delete(mc.data, key)
		mc.mu.Unlock()
		return ErrMiss
	}
	return json.Unmarshal(item.data, dest)
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expireAt time.Time
	if ttl > 0 {
		expireAt = mc.now().Add(ttl)
	}

	mc.mu.Lock()
	mc.data[key] = memoryItem{data: b, expireAt: expireAt}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	for _, key := range keys {
		delete(mc.data, key)
	}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Flush(_ context.Context) error {
	mc.mu.Lock()
	mc.data = make(map[string]memoryItem)
	mc.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including not-yet-swept ones.
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.data)
}

func (mc *MemoryCache) sweepExpired() {
	for {
		select {
		case <-mc.closed:
			return
		case <-mc.sweep.C:
			now := mc.now()
			mc.mu.Lock()
			for key, item := range mc.data {
				if item.expired(now) {
					delete(mc.data, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the background sweep, if any.
func (mc *MemoryCache) Close() error {
	if mc.sweep != nil {
		mc.sweep.Stop()
		close(mc.closed)
	}
	return nil
}
