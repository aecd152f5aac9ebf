package remote

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

// ServerFresh is how long a server-provided default edition is trusted
// without refetching.
const ServerFresh = 90 * time.Second

type Source string

const (
	SourceNone   Source = ""
	SourceServer Source = "server"
	SourceCache  Source = "cache"
	SourceLive   Source = "live"
)

// Loaded is what the page should render for a selection.
type Loaded struct {
	Sections []model.Section
	Version  int64
	Source   Source
	// TimedOut means the live request failed, timed out or came back empty.
	TimedOut bool
}

// FrontLoader resolves the sections for a selection: a fresh server-provided
// edition, then the local front cache, then the live API.
type FrontLoader struct {
	client   *Client
	cache    *localstore.VersionedCache
	registry *category.Registry
	now      func() time.Time
}

func NewFrontLoader(client *Client, cache *localstore.VersionedCache, registry *category.Registry) *FrontLoader {
	return &FrontLoader{client: client, cache: cache, registry: registry, now: time.Now}
}

// Load returns the best sections for ids. initial, when non-nil, is an
// edition the server already rendered for the default selection. Only the
// caller cancelling yields an error.
func (l *FrontLoader) Load(ctx context.Context, ids []string, initial *model.Edition) (Loaded, error) {
	key := localstore.FrontKey(ids)
	var cur Loaded

	if initial != nil && len(initial.Sections) > 0 && slices.Equal(ids, l.registry.DefaultIDs()) {
		cur = Loaded{Sections: initial.Sections, Version: initial.FetchedAt(), Source: SourceServer}
		if fetchedAt := initial.FetchedAt(); fetchedAt != 0 && l.now().UnixMilli()-fetchedAt < ServerFresh.Milliseconds() {
			slog.Debug("front page refetch skipped", "key", key, "fetched_at", fetchedAt)
			return cur, nil
		}
	}
	if e, ok := l.cache.Read(key); ok && len(e.Sections) > 0 {
		cur = Loaded{Sections: e.Sections, Version: e.Version, Source: SourceCache}
		l.cache.Seed(key, e.Version)
	}

	ed, err := l.client.FrontPage(ctx, ids)
	switch {
	case err != nil && ctx.Err() != nil:
		return cur, ctx.Err()
	case err != nil:
		slog.Warn("front page fetch failed", "key", key, "error", err, "timeout", errors.Is(err, ErrTimeout))
		cur.TimedOut = true
		return cur, nil
	case len(ed.Sections) == 0:
		cur.TimedOut = true
		return cur, nil
	}

	version := ed.FetchedAt()
	if version != 0 && !l.cache.Apply(key, version) {
		return cur, nil
	}
	if version == 0 {
		version = l.now().UnixMilli()
		l.cache.Seed(key, version)
	}
	if err := l.cache.Write(key, ed.Sections, version); err != nil {
		slog.Warn("front cache write failed", "key", key, "error", err)
	}
	return Loaded{Sections: ed.Sections, Version: version, Source: SourceLive}, nil
}
