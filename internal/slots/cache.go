package slots

import (
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL bounds how long a memoized dispatch result is kept.
const DefaultCacheTTL = 5 * time.Minute

// CachedDispatcher memoizes Dispatch results for a Registry.
//
// Results are keyed by slot, normalized path and registry version, so any
// registry mutation makes previous results unreachable.
type CachedDispatcher struct {
	registry *Registry
	cache    *gocache.Cache
	ttl      time.Duration
}

// NewCachedDispatcher returns a dispatcher over registry that keeps results
// for ttl. A non-positive ttl selects DefaultCacheTTL.
func NewCachedDispatcher(registry *Registry, ttl time.Duration) *CachedDispatcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedDispatcher{
		registry: registry,
		cache:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Dispatch returns the same mounts as Dispatch(registry, slot, currentPath).
func (d *CachedDispatcher) Dispatch(slot string, currentPath string) []Mount {
	if d == nil || d.registry == nil {
		return nil
	}
	normalized, ok := NormalizePath(currentPath)
	if !ok {
		return nil
	}

	entries, version := d.registry.Lookup(slot)
	key := cacheKey(slot, normalized, version)
	if cached, found := d.cache.Get(key); found {
		if mounts, ok := cached.([]Mount); ok {
			return append([]Mount(nil), mounts...)
		}
	}

	// The key uses the normalized path; matching gets the raw path so that
	// only one trailing "/" is ever stripped.
	mounts := Dispatch(MapReader{slot: entries}, slot, currentPath)
	d.cache.Set(key, mounts, d.ttl)
	return append([]Mount(nil), mounts...)
}

// Flush drops every memoized result.
func (d *CachedDispatcher) Flush() {
	if d == nil {
		return
	}
	d.cache.Flush()
}

// Len returns the number of memoized results, including expired ones not
// yet cleaned up.
func (d *CachedDispatcher) Len() int {
	if d == nil {
		return 0
	}
	return d.cache.ItemCount()
}

func cacheKey(slot string, normalizedPath string, version uint64) string {
	var b strings.Builder
	b.Grow(len(slot) + len(normalizedPath) + 24)
	b.WriteString(strconv.FormatUint(version, 10))
	b.WriteByte(0)
	b.WriteString(slot)
	b.WriteByte(0)
	b.WriteString(normalizedPath)
	return b.String()
}
