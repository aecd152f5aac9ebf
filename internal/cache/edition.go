// Package cache holds the process-wide caches shared by adapters and handlers.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"golang.org/x/sync/singleflight"
)

var ErrNilFetcher = errors.New("cache: nil fetcher")

type Fetcher func(ctx context.Context) (model.Edition, error)

// EditionCache memoizes editions per key. Concurrent misses for one key share
// a single fetcher call; failed fetches are never stored.
type EditionCache struct {
	values *TTLMap[model.Edition]
	group  singleflight.Group
	now    func() time.Time
}

func NewEditionCache(now func() time.Time) *EditionCache {
	if now == nil {
		now = time.Now
	}
	return &EditionCache{values: NewTTLMap[model.Edition](now), now: now}
}

// Get returns the live value for key, joins an in-flight fetch, or starts one.
// The expiry is stamped from when the fetch started.
func (c *EditionCache) Get(ctx context.Context, key string, ttl time.Duration, fetch Fetcher) (model.Edition, error) {
	if fetch == nil {
		return model.Edition{}, ErrNilFetcher
	}
	if ed, ok := c.values.Get(key); ok {
		return ed, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if ed, ok := c.values.Get(key); ok {
			return ed, nil
		}
		started := c.now()
		// Detached so one caller giving up does not fail the other waiters.
		ed, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			c.values.Delete(key)
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		c.values.Set(key, ed, ttl-c.now().Sub(started))
		return ed, nil
	})

	select {
	case <-ctx.Done():
		return model.Edition{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Edition{}, res.Err
		}
		return res.Val.(model.Edition), nil
	}
}

func (c *EditionCache) Len() int {
	return c.values.Len()
}

// Purge drops every stored value. In-flight fetches are unaffected.
func (c *EditionCache) Purge() {
	c.values.mu.Lock()
	c.values.items = make(map[string]ttlEntry[model.Edition])
	c.values.mu.Unlock()
}

// Cleanup drops expired values.
func (c *EditionCache) Cleanup() {
	c.values.Cleanup()
}
