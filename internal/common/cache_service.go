package common

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// CacheService is the in-memory read-through cache. Expiry is judged against
// an injected clock on lookup, so there is no janitor goroutine.
type CacheService struct {
	cache *cache.Cache
	ttl   time.Duration
	clock func() time.Time

	// mu makes Flush atomic with respect to generation-checked stores.
	mu    sync.RWMutex
	gen   uint64
	loads singleflight.Group
}

type cacheEntry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

// NewCacheService builds a cache whose entries live for defaultTTL. A nil
// clock means time.Now.
func NewCacheService(defaultTTL time.Duration, clock func() time.Time) *CacheService {
	if clock == nil {
		clock = time.Now
	}
	return &CacheService{
		cache: cache.New(cache.NoExpiration, 0),
		ttl:   defaultTTL,
		clock: clock,
	}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	cs.store(key, value, duration)
}

func (cs *CacheService) store(key string, value any, duration time.Duration) {
	if duration <= 0 {
		duration = cs.ttl
	}
	cs.cache.Set(key, cacheEntry{value: value, storedAt: cs.clock(), ttl: duration}, cache.NoExpiration)
}

// Get drops the entry when it has outlived its TTL.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	raw, found := cs.cache.Get(key)
	if !found {
		return nil, false
	}
	entry := raw.(cacheEntry)
	if cs.clock().Sub(entry.storedAt) >= entry.ttl {
		cs.cache.Delete(key)
		return nil, false
	}
	return entry.value, true
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

// GetOrSet collapses concurrent misses on a key into one loader call. The
// result is only stored if no Flush happened while loading.
func (cs *CacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		return val, nil
	}

	gen := cs.generation()
	val, err, _ := cs.loads.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		if val, found := cs.Get(key); found {
			return val, nil
		}
		val, err := loader()
		if err != nil {
			return nil, err
		}

		cs.mu.RLock()
		if cs.gen == gen {
			cs.store(key, val, duration)
		}
		cs.mu.RUnlock()
		return val, nil
	})
	return val, err
}

func (cs *CacheService) Flush() {
	cs.mu.Lock()
	cs.gen++
	cs.cache.Flush()
	cs.mu.Unlock()
}

func (cs *CacheService) generation() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.gen
}

// ItemCount includes entries that have expired but not been looked up yet.
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
