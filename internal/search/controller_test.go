package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  []string
	delay  time.Duration
	block  map[string]bool
	result func(q string) (model.Edition, error)
}

func (f *fakeFetcher) Search(ctx context.Context, q string) (model.Edition, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	block := f.block[q]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return model.Edition{}, ctx.Err()
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return model.Edition{}, ctx.Err()
	}
	if f.result != nil {
		return f.result(q)
	}
	return edition(q, time.Now().UnixMilli()), nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func edition(id string, version int64) model.Edition {
	return model.Edition{
		Meta:     map[string]any{"fetchedAt": version},
		Sections: []model.Section{{Label: "Featured", Stories: []model.Story{{ID: id, Title: id}}}},
	}
}

func newTestController(f Fetcher) (*Controller, *localstore.VersionedCache) {
	cache := localstore.New(localstore.NewMemory()).SearchCache()
	c := NewController(f, cache)
	return c, cache
}

func wait(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := c.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return snap
}

func TestSlowSearchFetchesOnceAndShowsLoading(t *testing.T) {
	f := &fakeFetcher{delay: 500 * time.Millisecond}
	c, cache := newTestController(f)
	defer c.Close()

	c.Set("btc price")
	assert.Equal(t, StateLoading, c.Snapshot().State)

	time.Sleep(100 * time.Millisecond)
	c.Set("BTC  price")
	assert.Equal(t, StateLoading, c.Snapshot().State)

	snap := wait(t, c)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "btc price", snap.Sections[0].Stories[0].ID)
	assert.Equal(t, []string{"btc price"}, f.Calls())

	_, ok := cache.Read("btc price")
	assert.Equal(t, true, ok)
}

func TestInvalidQueryClearsWithoutNetwork(t *testing.T) {
	f := &fakeFetcher{}
	c, _ := newTestController(f)
	defer c.Close()

	c.Set("a")
	snap := wait(t, c)
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, true, snap.Sections == nil)

	c.Set("<b></b>")
	assert.Equal(t, StateIdle, wait(t, c).State)
	assert.Equal(t, 0, len(f.Calls()))
}

func TestDebounceMeasuredFromLastFetch(t *testing.T) {
	f := &fakeFetcher{}
	c, _ := newTestController(f)
	defer c.Close()

	c.Set("alpha")
	wait(t, c)

	start := time.Now()
	c.Set("bravo")
	snap := wait(t, c)

	assert.Equal(t, "bravo", snap.Query)
	assert.Equal(t, true, time.Since(start) >= 300*time.Millisecond)
	assert.Equal(t, []string{"alpha", "bravo"}, f.Calls())
}

func TestNewerQueryCancelsInFlight(t *testing.T) {
	f := &fakeFetcher{block: map[string]bool{"slow": true}}
	c, _ := newTestController(f)
	defer c.Close()

	c.Set("slow")
	for len(f.Calls()) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	c.Set("fast")
	snap := wait(t, c)

	assert.Equal(t, "fast", snap.Query)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "fast", snap.Sections[0].Stories[0].ID)
	assert.Equal(t, []string{"slow", "fast"}, f.Calls())
}

func TestStaleResponseIsIgnored(t *testing.T) {
	f := &fakeFetcher{result: func(q string) (model.Edition, error) {
		return edition("stale", 90), nil
	}}
	c, cache := newTestController(f)
	defer c.Close()
	cached := edition("cached", 100)
	assert.Equal(t, nil, cache.Write("btc price", cached.Sections, 100))

	c.Set("btc price")
	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "cached", snap.Sections[0].Stories[0].ID)

	snap = wait(t, c)
	assert.Equal(t, "cached", snap.Sections[0].Stories[0].ID)
	assert.Equal(t, int64(100), snap.Version)
	assert.Equal(t, 1, len(f.Calls()))
}

func TestNewerResponseReplacesCached(t *testing.T) {
	f := &fakeFetcher{result: func(q string) (model.Edition, error) {
		return edition("fresh", 200), nil
	}}
	c, cache := newTestController(f)
	defer c.Close()
	assert.Equal(t, nil, cache.Write("btc price", edition("cached", 100).Sections, 100))

	c.Set("btc price")
	snap := wait(t, c)

	assert.Equal(t, "fresh", snap.Sections[0].Stories[0].ID)
	assert.Equal(t, int64(200), snap.Version)
	e, _ := cache.Read("btc price")
	assert.Equal(t, int64(200), e.Version)
}

func TestFailedSearch(t *testing.T) {
	f := &fakeFetcher{result: func(string) (model.Edition, error) {
		return model.Edition{}, errors.New("HTTP 502")
	}}
	c, _ := newTestController(f)
	defer c.Close()

	c.Set("outage")
	snap := wait(t, c)

	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Search failed (API).", snap.Message)
	assert.Equal(t, 0, len(snap.Sections))
	assert.Equal(t, false, snap.Sections == nil)
}

func TestCloseCancelsInFlight(t *testing.T) {
	f := &fakeFetcher{block: map[string]bool{"stuck": true}}
	c, _ := newTestController(f)

	c.Set("stuck")
	for len(f.Calls()) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	c.Close()

	snap := wait(t, c)
	assert.Equal(t, StateLoading, snap.State)
}
