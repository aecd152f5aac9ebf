package localstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
)

// SelectedCategories returns the stored selection cleaned to at most three
// known ids. An empty or unreadable selection is replaced by the defaults.
func (s *Store) SelectedCategories(r *category.Registry) ([]string, error) {
	var stored []string
	if _, err := s.GetJSON(KeySelected, &stored); err != nil {
		stored = nil
	}
	if ids := r.NormalizeIDs(stored); len(ids) > 0 {
		return ids, nil
	}
	defaults := r.DefaultIDs()
	if err := s.SetJSON(KeySelected, defaults); err != nil {
		return defaults, err
	}
	return defaults, nil
}

// SelectCategories persists a new selection. When it differs from the
// previous one, cached front pages are dropped and the reset stamp moves.
func (s *Store) SelectCategories(r *category.Registry, ids []string) ([]string, error) {
	var prev []string
	_, _ = s.GetJSON(KeySelected, &prev)

	next := r.NormalizeIDs(ids)
	if err := s.SetJSON(KeySelected, next); err != nil {
		return nil, err
	}
	prevKey, nextKey := strings.Join(prev, "|"), strings.Join(next, "|")
	if prevKey != "" && prevKey != nextKey {
		if err := s.RemovePrefix(FrontCachePrefix); err != nil {
			return next, fmt.Errorf("clearing front caches: %w", err)
		}
		if err := s.SetJSON(KeyFrontReset, s.Now().UnixMilli()); err != nil {
			return next, err
		}
	}
	return next, nil
}

// Page is the stored page for a mode, 0 when unset or malformed.
func (s *Store) Page(mode string) int {
	raw, ok, err := s.Get(PageKey(mode))
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Store) SetPage(mode string, page int) error {
	return s.Set(PageKey(mode), strconv.Itoa(max(page, 0)))
}

func (s *Store) BookmarksOnly(mode string) bool {
	raw, _, _ := s.Get(BookmarksOnlyKey(mode))
	return raw == "1"
}

func (s *Store) SetBookmarksOnly(mode string, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.Set(BookmarksOnlyKey(mode), v)
}

func (s *Store) SearchQuery() string {
	raw, _, _ := s.Get(KeySearchQuery)
	return raw
}

func (s *Store) SetSearchQuery(q string) error {
	return s.Set(KeySearchQuery, q)
}

// SetStoryCount records how many stories the page shows.
func (s *Store) SetStoryCount(n int) error {
	return s.Set(KeyStoryCount, strconv.Itoa(n))
}

func (s *Store) StoryCount() int {
	raw, _, _ := s.Get(KeyStoryCount)
	n, _ := strconv.Atoi(raw)
	return n
}

func (s *Store) SetTopRowKickers(kickers []string) error {
	if kickers == nil {
		kickers = []string{}
	}
	return s.SetJSON(KeyTopRowKickers, kickers)
}

func (s *Store) TopRowKickers() []string {
	var out []string
	_, _ = s.GetJSON(KeyTopRowKickers, &out)
	return out
}
