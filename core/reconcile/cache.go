package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReconcileCache holds pre-built indices.
type ReconcileCache struct {
	// RoomIndex maps room number to recorded status.
	RoomIndex map[string]string

	// DormerIndex maps room number to dormer name.
	DormerIndex map[string]string

	// LayoutSet is the set of room numbers the setup generates. Nil when
	// there is no setup.
	LayoutSet map[string]struct{}

	// PaymentIndex maps room number to payment record count.
	PaymentIndex map[string]int

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired() bool {
	if c.TTL == 0 {
		return true
	}
	return time.Since(c.Built) > c.TTL
}

type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
}

var globalCacheStore = &cacheStore{
	caches: make(map[string]*ReconcileCache),
}

// BuildCache loads all four indices concurrently. It does not store the
// result; use GetOrBuildCache for that.
func BuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	c := &ReconcileCache{TTL: spec.CacheTTL}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		c.RoomIndex, err = spec.Adapter.LoadRoomIndex(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.DormerIndex, err = spec.Adapter.LoadDormerIndex(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.LayoutSet, err = spec.Adapter.LoadLayoutSet(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.PaymentIndex, err = spec.Adapter.LoadPaymentIndex(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.Built = time.Now()
	return c, nil
}

// GetOrBuildCache returns the cached indices for spec, building them when
// missing or expired. Concurrent callers share one build.
func GetOrBuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	key := spec.CacheKey()

	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[key]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	result, err, _ := globalCacheStore.sf.Do(key, func() (interface{}, error) {
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[key]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		fresh, err := BuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[key] = fresh
		globalCacheStore.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ReconcileCache), nil
}

// InvalidateCache drops the cached indices for spec.
func InvalidateCache(spec *Spec) {
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, spec.CacheKey())
	globalCacheStore.mu.Unlock()
}
