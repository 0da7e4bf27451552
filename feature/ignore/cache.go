package ignore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"watchstate/core/guid"

	"golang.org/x/sync/singleflight"
)

// listCache holds the ignore list for a limited time. Concurrent misses share a single
// load.
type listCache struct {
	mu    sync.RWMutex
	list  guid.IgnoreList
	built time.Time
	gen   uint64
	ttl   time.Duration
	now   func() time.Time
	sf    singleflight.Group
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl, now: time.Now}
}

// fresh returns the cached list if it is still valid, and the current generation.
func (c *listCache) fresh() (guid.IgnoreList, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.list == nil || c.ttl == 0 {
		return nil, c.gen, false
	}
	return c.list, c.gen, c.now().Sub(c.built) <= c.ttl
}

// get returns the cached list or builds a new one with load. The shared load is
// detached from the caller's cancellation; a cancelled caller stops waiting on its own.
func (c *listCache) get(ctx context.Context, load func(context.Context) (guid.IgnoreList, error)) (guid.IgnoreList, error) {
	list, gen, ok := c.fresh()
	if ok {
		return list, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		list, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.list = list
			c.built = c.now()
		}
		c.mu.Unlock()
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(guid.IgnoreList), nil
	}
}

// invalidate drops the cached list. A load already in flight does not repopulate it.
func (c *listCache) invalidate() {
	c.mu.Lock()
	c.list = nil
	c.gen++
	c.mu.Unlock()
}
