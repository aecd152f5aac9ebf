package bookmarks

import (
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now advances one second per call so saves are strictly ordered.
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestBookmarks() (*Bookmarks, *localstore.Store) {
	clock := &stepClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	store := localstore.New(localstore.NewMemory(), localstore.WithClock(clock.Now))
	return New(store), store
}

func TestToggleAddsAndRemovesTogether(t *testing.T) {
	b, store := newTestBookmarks()
	s := model.Story{ID: "gdelt:https://a", Title: "A", Kicker: "Technology", Popularity: 40}

	saved, err := b.Toggle(s)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, saved)
	assert.Equal(t, true, b.Has(s.ID))

	items := b.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, model.FloatRight, items[0].ImageFloat)
	assert.Equal(t, 40, items[0].Popularity)
	assert.NotEqual(t, int64(0), items[0].SavedAt)

	saved, err = b.Toggle(s)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, saved)
	assert.Equal(t, false, b.Has(s.ID))
	assert.Equal(t, 0, len(b.Items()))

	var ids []string
	_, _ = store.GetJSON(localstore.KeyBookmarks, &ids)
	assert.Equal(t, []string{}, ids)
}

func TestToggleRejectsMissingID(t *testing.T) {
	b, _ := newTestBookmarks()
	_, err := b.Toggle(model.Story{Title: "no id"})
	assert.NotEqual(t, nil, err)
}

func TestItemsNewestFirst(t *testing.T) {
	b, _ := newTestBookmarks()
	for _, id := range []string{"a", "b", "c"} {
		_, err := b.Toggle(model.Story{ID: id, Title: id, ImageFloat: model.FloatLeft})
		assert.Equal(t, nil, err)
	}

	stories := b.Stories()
	assert.Equal(t, 3, len(stories))
	assert.Equal(t, "c", stories[0].ID)
	assert.Equal(t, "a", stories[2].ID)
	assert.Equal(t, model.FloatLeft, stories[0].ImageFloat)
	assert.Equal(t, []string{"a", "b", "c"}, b.IDs())
}

func TestReconcileDropsOrphanedSnapshots(t *testing.T) {
	b, store := newTestBookmarks()
	_, _ = b.Toggle(model.Story{ID: "a", Title: "A"})
	_, _ = b.Toggle(model.Story{ID: "b", Title: "B"})

	assert.Equal(t, nil, store.SetJSON(localstore.KeyBookmarks, []string{"b"}))
	n, err := b.Reconcile()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"b"}, b.IDs())

	n, _ = b.Reconcile()
	assert.Equal(t, 0, n)
}

func TestReconcileAfterAllIDsRemoved(t *testing.T) {
	b, store := newTestBookmarks()
	_, _ = b.Toggle(model.Story{ID: "a", Title: "A"})

	assert.Equal(t, nil, store.SetJSON(localstore.KeyBookmarks, []string{}))
	// the snapshot still answers for the id until reconciled
	assert.Equal(t, []string{"a"}, b.IDs())

	n, err := b.Reconcile()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, len(b.IDs()))
	assert.Equal(t, 0, len(b.Items()))
}

func TestSubscribeSeesToggles(t *testing.T) {
	b, store := newTestBookmarks()
	ch, cancel := b.Subscribe()
	defer cancel()

	_, _ = b.Toggle(model.Story{ID: "a", Title: "A"})
	assert.Equal(t, nil, store.SetBookmarksOnly("bookmarks", true))

	assert.Equal(t, localstore.KeyBookmarks, (<-ch).Key)
	assert.Equal(t, localstore.KeyBookmarkItems, (<-ch).Key)
	select {
	case c := <-ch:
		t.Fatalf("unexpected change %q", c.Key)
	default:
	}
}
