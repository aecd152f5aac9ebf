// Package bookmarks keeps the reader's saved stories: an ordered id list and
// a snapshot of each story so saved items render without the server.
package bookmarks

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// Item is the persisted snapshot of a saved story.
type Item struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Kicker      string `json:"kicker"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	ImageFloat  string `json:"imageFloat"`
	PublishDate string `json:"publishDate"`
	PageRef     string `json:"pageRef"`
	Featured    bool   `json:"featured"`
	Breaking    bool   `json:"breaking"`
	Popularity  int    `json:"popularity"`
	SavedAt     int64  `json:"savedAt"`
}

func (it Item) Story() model.Story {
	return model.Story{
		ID:          it.ID,
		Source:      it.Source,
		Kicker:      it.Kicker,
		Title:       it.Title,
		Summary:     it.Summary,
		URL:         it.URL,
		ImageURL:    it.ImageURL,
		ImageFloat:  it.ImageFloat,
		PublishDate: it.PublishDate,
		PageRef:     it.PageRef,
		Featured:    it.Featured,
		Breaking:    it.Breaking,
		Popularity:  it.Popularity,
	}
}

func snapshot(s model.Story, savedAt int64) Item {
	float := s.ImageFloat
	if float == "" {
		float = model.FloatRight
	}
	return Item{
		ID:          s.ID,
		Source:      s.Source,
		Kicker:      s.Kicker,
		Title:       s.Title,
		Summary:     s.Summary,
		URL:         s.URL,
		ImageURL:    s.ImageURL,
		ImageFloat:  float,
		PublishDate: s.PublishDate,
		PageRef:     s.PageRef,
		Featured:    s.Featured,
		Breaking:    s.Breaking,
		Popularity:  s.Popularity,
		SavedAt:     savedAt,
	}
}

type Bookmarks struct {
	store *localstore.Store
	mu    sync.Mutex
}

func New(store *localstore.Store) *Bookmarks {
	return &Bookmarks{store: store}
}

func (b *Bookmarks) storedIDs() []string {
	var ids []string
	if _, err := b.store.GetJSON(localstore.KeyBookmarks, &ids); err != nil {
		return nil
	}
	return ids
}

func (b *Bookmarks) items() map[string]Item {
	items := make(map[string]Item)
	if _, err := b.store.GetJSON(localstore.KeyBookmarkItems, &items); err != nil || items == nil {
		return make(map[string]Item)
	}
	return items
}

// IDs are the saved story ids in save order. With no id list stored, the
// snapshot keys stand in.
func (b *Bookmarks) IDs() []string {
	if ids := b.storedIDs(); len(ids) > 0 {
		return ids
	}
	items := b.items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Bookmarks) Has(id string) bool {
	return slices.Contains(b.IDs(), id)
}

// Toggle saves s, or unsaves it if already saved, and reports the new state.
// The id and the snapshot are added or removed together.
func (b *Bookmarks) Toggle(s model.Story) (bool, error) {
	if s.ID == "" {
		return false, fmt.Errorf("bookmark: story has no id")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := b.IDs()
	saved := !slices.Contains(ids, s.ID)
	if saved {
		ids = append(ids, s.ID)
	} else {
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == s.ID })
	}
	if err := b.store.SetJSON(localstore.KeyBookmarks, unique(ids)); err != nil {
		return false, err
	}

	items := b.items()
	if saved {
		items[s.ID] = snapshot(s, b.store.Now().UnixMilli())
	} else {
		if _, ok := items[s.ID]; !ok {
			return false, nil
		}
		delete(items, s.ID)
	}
	if err := b.store.SetJSON(localstore.KeyBookmarkItems, items); err != nil {
		return saved, err
	}
	return saved, nil
}

// Items are the snapshots of saved ids, newest save first.
func (b *Bookmarks) Items() []Item {
	allowed := make(map[string]bool)
	for _, id := range b.IDs() {
		allowed[id] = true
	}
	var out []Item
	for id, it := range b.items() {
		if id != "" && allowed[id] {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SavedAt != out[j].SavedAt {
			return out[i].SavedAt > out[j].SavedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Stories are the saved snapshots as stories, newest save first.
func (b *Bookmarks) Stories() []model.Story {
	items := b.Items()
	out := make([]model.Story, len(items))
	for i, it := range items {
		out[i] = it.Story()
	}
	return out
}

// Reconcile drops snapshots whose id is no longer saved. An empty id list
// clears every snapshot. It reports how many were dropped.
func (b *Bookmarks) Reconcile() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.items()
	if len(items) == 0 {
		return 0, nil
	}
	kept, changed := news.Prune(items, b.storedIDs())
	if !changed {
		return 0, nil
	}
	if err := b.store.SetJSON(localstore.KeyBookmarkItems, kept); err != nil {
		return 0, err
	}
	return len(items) - len(kept), nil
}

// Subscribe reports every change to the id list or the snapshots.
func (b *Bookmarks) Subscribe() (<-chan localstore.Change, func()) {
	return b.store.SubscribeKeys(localstore.KeyBookmarks, localstore.KeyBookmarkItems)
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
