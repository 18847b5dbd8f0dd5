// Package querycache caches read results by query key and drops them when a
// mutation invalidates the owning entity.
//
// Keys are "<entity>?<params>". Every entity carries a generation number that
// Invalidate bumps; a fetch only stores its result if the generation it
// started under is still current, so a slow in-flight read can never
// repopulate an entry that was invalidated after it began.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared load, which no single caller can cancel.
const flightTimeout = 2 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
	gen      uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	log   *slog.Logger
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
}

// New creates a Cache. ttl <= 0 keeps entries until invalidated.
func New(logger *slog.Logger, ttl time.Duration) *Cache {
	return &Cache{
		log:     logger.With("service", "querycache"),
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
}

// Key builds the cache key of a query.
func Key(entity, params string) string {
	return entity + "?" + params
}

// Fetch returns the cached value for (entity, params) or calls fn to load it.
// Concurrent callers with the same key share one call to fn. fn runs detached
// from the caller's cancellation; a caller whose ctx ends stops waiting with
// ctx.Err() while the others still get the result. Errors are never cached.
func Fetch[V any](ctx context.Context, c *Cache, entity, params string, fn func(ctx context.Context) (V, error)) (V, error) {
	key := Key(entity, params)

	c.mu.Lock()
	gen := c.gens[entity]
	if e, ok := c.entries[key]; ok && e.gen == gen && !c.expired(e) {
		c.mu.Unlock()
		if v, ok := e.value.(V); ok {
			return v, nil
		}
	} else {
		c.mu.Unlock()
	}

	// The generation is part of the flight key: callers arriving after an
	// invalidation start a fresh load instead of joining the stale one.
	flight := key + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		v, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		c.store(entity, key, gen, v)
		return v, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		var zero V
		return zero, res.Err
	}
	if res.Shared {
		c.log.DebugContext(ctx, "querycache shared fetch", slog.String("key", key))
	}

	v, ok := res.Val.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("querycache: %s holds %T", key, res.Val)
	}
	return v, nil
}

func (c *Cache) store(entity, key string, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[entity] != gen {
		c.log.Debug("querycache drop stale result", slog.String("key", key))
		return
	}
	c.entries[key] = entry{value: v, storedAt: c.now(), gen: gen}
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl
}

// Invalidate drops every entry of the given entities.
func (c *Cache) Invalidate(entities ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entity := range entities {
		c.gens[entity]++
		prefix := entity + "?"
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
	}
	if len(entities) > 0 {
		c.log.Debug("querycache invalidated", slog.Any("entities", entities))
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for entity := range c.gens {
		c.gens[entity]++
	}
	for k, e := range c.entries {
		entity, _, _ := strings.Cut(k, "?")
		if _, ok := c.gens[entity]; !ok {
			c.gens[entity] = e.gen + 1
		}
	}
	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
