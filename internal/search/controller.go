// Package search runs the live search that overrides the front page. Typing
// is debounced, a newer query cancels the one in flight, and responses
// older than what is already shown are dropped.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// Debounce is the minimum gap between two search requests.
const Debounce = 400 * time.Millisecond

const failedMessage = "Search failed (API)."

var ErrSuperseded = errors.New("search superseded by a newer request")

// Fetcher runs one search against the server.
type Fetcher interface {
	Search(ctx context.Context, q string) (model.Edition, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is what the page renders. Nil Sections means no override is
// active and the categorized front page shows.
type Snapshot struct {
	Query    string
	State    State
	Sections []model.Section
	Message  string
	Version  int64
}

type Controller struct {
	fetch    Fetcher
	cache    *localstore.VersionedCache
	debounce time.Duration

	ctx  context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	snap      Snapshot
	pending   bool
	lastQuery string
	lastFetch time.Time
	timer     *time.Timer
	cancel    context.CancelFunc
	reqID     uint64
	changed   chan struct{}
}

type Option func(*Controller)

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

func NewController(fetch Fetcher, cache *localstore.VersionedCache, opts ...Option) *Controller {
	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		fetch:    fetch,
		cache:    cache,
		debounce: Debounce,
		ctx:      ctx,
		stop:     stop,
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set changes the active query. An invalid or blank query clears the
// override without touching the network. A cached result shows at once and
// is refreshed in the background.
func (c *Controller) Set(raw string) {
	sanitized, valid := news.SanitizeDefault(raw)
	query := strings.ToLower(strings.TrimSpace(sanitized))

	c.mu.Lock()
	defer c.mu.Unlock()

	if valid && query != "" && query == c.snap.Query && (c.pending || c.snap.State == StateReady) {
		return
	}

	c.abortLocked()
	if !valid || query == "" {
		c.reqID++
		c.pending = false
		c.snap = Snapshot{State: StateIdle}
		c.notifyLocked()
		return
	}

	entry, hit := c.cache.Read(query)
	hit = hit && len(entry.Sections) > 0
	switch {
	case hit:
		c.cache.Seed(query, entry.Version)
		c.snap = Snapshot{Query: query, State: StateReady, Sections: entry.Sections, Version: entry.Version}
		slog.Debug("search cache hit", "query", query, "version", entry.Version)
	default:
		if c.lastQuery != query {
			c.cache.Reset(query)
			slog.Debug("search cache miss", "query", query)
		}
		c.snap.Query, c.snap.State, c.snap.Message = query, StateLoading, ""
	}
	c.lastQuery = query

	wait := max(0, c.debounce-time.Since(c.lastFetch))
	c.pending = true
	c.timer = time.AfterFunc(wait, func() { c.run(query) })
	c.notifyLocked()
}

func (c *Controller) run(query string) {
	c.mu.Lock()
	if !c.pending || c.snap.Query != query {
		c.mu.Unlock()
		return
	}
	c.lastFetch = time.Now()
	c.reqID++
	id := c.reqID
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	ed, err := c.fetchOnce(ctx, query, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case errors.Is(err, ErrSuperseded), ctx.Err() != nil:
		return
	case err != nil:
		slog.Warn("search failed", "query", query, "error", err)
		c.snap = Snapshot{Query: query, State: StateError, Sections: []model.Section{}, Message: failedMessage}
	default:
		version := ed.FetchedAt()
		if c.cache.Apply(query, version) {
			sections := ed.Sections
			if sections == nil {
				sections = []model.Section{}
			}
			c.snap.Sections, c.snap.Version = sections, version
			if err := c.cache.Write(query, sections, version); err != nil {
				slog.Warn("search cache write failed", "query", query, "error", err)
			}
		}
		c.snap.State, c.snap.Message = StateReady, ""
	}
	c.pending = false
	c.notifyLocked()
}

func (c *Controller) fetchOnce(ctx context.Context, query string, id uint64) (model.Edition, error) {
	ed, err := c.fetch.Search(ctx, query)

	c.mu.Lock()
	current := c.reqID
	c.mu.Unlock()
	if id != current {
		return model.Edition{}, ErrSuperseded
	}
	return ed, err
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Changed is closed on the next state change.
func (c *Controller) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Wait blocks until no request is scheduled or running.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		if !c.pending {
			snap := c.snap
			c.mu.Unlock()
			return snap, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// Close cancels any scheduled or running request.
func (c *Controller) Close() {
	c.mu.Lock()
	c.abortLocked()
	c.pending = false
	c.notifyLocked()
	c.mu.Unlock()
	c.stop()
}

func (c *Controller) abortLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
