package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

func editionJSON(id string, fetchedAt int64) map[string]any {
	return map[string]any{
		"sections": []model.Section{{Label: "Technology", Stories: []model.Story{{ID: id, Title: id}}}},
		"meta":     map[string]any{"fetchedAt": fetchedAt},
	}
}

func TestFrontPageRequest(t *testing.T) {
	var gotPath, gotCategories, gotAccept, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotCategories, gotAccept = r.URL.Path, r.URL.Query().Get("categories"), r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(editionJSON("a", 1700000000000))
	}))
	defer srv.Close()

	ed, err := NewClient(srv.URL+"/", srv.Client()).FrontPage(context.Background(), []string{"tech", "sports"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "/api/news.json", gotPath)
	assert.Equal(t, "tech,sports", gotCategories)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, 36, len(gotRequestID))
	assert.Equal(t, int64(1700000000000), ed.FetchedAt())
	assert.Equal(t, "a", ed.Sections[0].Stories[0].ID)
}

func TestSearchEscapesPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(editionJSON("b", 1))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Search(context.Background(), "btc price")

	assert.Equal(t, nil, err)
	assert.Equal(t, "/api/news/btc%20price.json", gotPath)
}

func TestNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Search(context.Background(), "btc")
	assert.NotEqual(t, nil, err)
}

func TestFrontPageTimeoutIsDistinctFromCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, srv.Client(), WithLoadTimeout(50*time.Millisecond))
	_, err := c.FrontPage(context.Background(), []string{"tech"})
	assert.Equal(t, true, errors.Is(err, ErrTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	_, err = NewClient(srv.URL, srv.Client()).FrontPage(ctx, []string{"tech"})
	assert.Equal(t, false, errors.Is(err, ErrTimeout))
	assert.Equal(t, true, errors.Is(err, context.Canceled))
}

func TestCategoriesAndProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			_, _ = w.Write([]byte(`{"categories":[{"id":"tech","label":"Technology","keywords":["ai"],"default":true}],"defaultIds":["tech"],"maxSelected":3}`))
		case "/api/probe/gdelt":
			_, _ = w.Write([]byte(`{"adapter":"gdelt","q":"` + r.URL.Query().Get("q") + `","count":2,"elapsedMs":12,"sections":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client())

	cats, err := c.Categories(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, "Technology", cats.Categories[0].Label)
	assert.Equal(t, 3, cats.MaxSelected)

	p, err := c.Probe(context.Background(), "gdelt", "vaccine")
	assert.Equal(t, nil, err)
	assert.Equal(t, "vaccine", p.Q)
	assert.Equal(t, 2, p.Count)

	_, err = c.Probe(context.Background(), "nope", "")
	assert.NotEqual(t, nil, err)
}

type loaderFixture struct {
	loader *FrontLoader
	cache  *localstore.VersionedCache
	hits   *atomic.Int32
	now    time.Time
}

func newLoaderFixture(t *testing.T, respond func(w http.ResponseWriter)) loaderFixture {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w)
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := localstore.New(localstore.NewMemory(), localstore.WithClock(func() time.Time { return now }))
	cache := store.FrontCache()
	l := NewFrontLoader(NewClient(srv.URL, srv.Client()), cache, category.MustDefault())
	l.now = func() time.Time { return now }
	return loaderFixture{loader: l, cache: cache, hits: hits, now: now}
}

func TestLoaderSkipsFreshServerEdition(t *testing.T) {
	f := newLoaderFixture(t, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(editionJSON("live", 1))
	})
	defaults := category.MustDefault().DefaultIDs()
	initial := model.Edition{
		Sections: []model.Section{{Label: "Business", Stories: []model.Story{{ID: "ssr"}}}},
		Meta:     map[string]any{"fetchedAt": f.now.Add(-30 * time.Second).UnixMilli()},
	}

	got, err := f.loader.Load(context.Background(), defaults, &initial)
	assert.Equal(t, nil, err)
	assert.Equal(t, SourceServer, got.Source)
	assert.Equal(t, int32(0), f.hits.Load())

	initial.Meta["fetchedAt"] = f.now.Add(-2 * time.Minute).UnixMilli()
	got, _ = f.loader.Load(context.Background(), defaults, &initial)
	assert.Equal(t, SourceLive, got.Source)
	assert.Equal(t, int32(1), f.hits.Load())

	got, _ = f.loader.Load(context.Background(), []string{"tech"}, &initial)
	assert.Equal(t, SourceLive, got.Source)
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestLoaderKeepsNewerCachedEdition(t *testing.T) {
	f := newLoaderFixture(t, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(editionJSON("older", 50))
	})
	cached := []model.Section{{Label: "Technology", Stories: []model.Story{{ID: "cached"}}}}
	assert.Equal(t, nil, f.cache.Write("tech", cached, 100))

	got, err := f.loader.Load(context.Background(), []string{"tech"}, nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, SourceCache, got.Source)
	assert.Equal(t, "cached", got.Sections[0].Stories[0].ID)
	assert.Equal(t, int32(1), f.hits.Load())
}

func TestLoaderAppliesLiveAndWritesCache(t *testing.T) {
	f := newLoaderFixture(t, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(editionJSON("live", 0))
	})

	got, err := f.loader.Load(context.Background(), []string{"tech", "sports"}, nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, SourceLive, got.Source)
	assert.Equal(t, f.now.UnixMilli(), got.Version)
	e, ok := f.cache.Read("tech|sports")
	assert.Equal(t, true, ok)
	assert.Equal(t, "live", e.Sections[0].Stories[0].ID)
}

func TestLoaderEmptyOrFailedIsTimedOut(t *testing.T) {
	f := newLoaderFixture(t, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"sections":[]}`))
	})
	got, err := f.loader.Load(context.Background(), []string{"tech"}, nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, got.TimedOut)
	assert.Equal(t, 0, len(got.Sections))

	f = newLoaderFixture(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	got, err = f.loader.Load(context.Background(), []string{"tech"}, nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, got.TimedOut)
}

func TestLoaderCancelledReturnsError(t *testing.T) {
	f := newLoaderFixture(t, func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(editionJSON("live", 1))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.loader.Load(ctx, []string{"tech"}, nil)
	assert.Equal(t, true, errors.Is(err, context.Canceled))
}
