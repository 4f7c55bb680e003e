package warehouse

import (
	"context"

	"github.com/theirongolddev/creditcast/internal/store"
)

// CachedConn memoizes query results in a shared cache. Namespace separates
// sessions of different identities that share one cache.
type CachedConn struct {
	Conn
	Cache     store.Cache[*Table]
	Namespace string

	lastHit bool
}

// Query serves from the cache when the exact query and params were seen before.
func (c *CachedConn) Query(ctx context.Context, sql string, params map[string]any) (*Table, error) {
	key := store.QueryKey(c.Namespace+"\x00"+sql, params)
	if t, ok := c.Cache.Get(key); ok {
		c.lastHit = true
		return t, nil
	}
	c.lastHit = false

	t, err := c.Conn.Query(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	c.Cache.Set(key, t)
	return t, nil
}

// LastHit reports whether the most recent Query was served from the cache.
func (c *CachedConn) LastHit() bool {
	return c.lastHit
}
