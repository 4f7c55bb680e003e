// Package store provides the in-process cache for warehouse query results.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes query results by key. Implementations must be safe for
// concurrent use.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
}

// QueryKey derives a cache key from the exact query text and its parameters.
// Parameter order does not affect the key.
func QueryKey(sql string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(sql)
	for _, name := range names {
		fmt.Fprintf(&b, "\x00%s=%T:%v", name, params[name], params[name])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Nop never stores anything.
type Nop[V any] struct{}

// Get always misses.
func (Nop[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

// Set discards the value.
func (Nop[V]) Set(string, V) {}

// Stats holds cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Evicted uint64  `json:"evicted"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hit_rate"`
}

// LRU is a size-bounded cache with optional TTL expiry.
type LRU[V any] struct {
	cache *lru.Cache[string, entry[V]]
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	hits    uint64
	misses  uint64
	evicted uint64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewLRU returns a cache holding at most size entries; ttl of 0 disables expiry.
func NewLRU[V any](size int, ttl time.Duration) (*LRU[V], error) {
	c, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	return &LRU[V]{cache: c, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached value if present and not expired.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache.Get(key)
	if ok && c.ttl > 0 && c.now().After(e.expiresAt) {
		c.cache.Remove(key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value, evicting the least recently used entry when full.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}
	if c.cache.Add(key, entry[V]{value: value, expiresAt: expiresAt}) {
		c.evicted++
	}
}

// Stats returns current counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Evicted: c.evicted,
		Size:    c.cache.Len(),
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRate = float64(c.hits) / float64(total)
	}
	return st
}
