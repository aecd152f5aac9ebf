package composer

import (
	"sort"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

const (
	TopRowSize     = 3
	FirstPageSize  = 8
	NextPageSize   = 6
	MoreMinimum    = 8
	moreCutoffPart = 0.5
)

// TopRow picks up to three stories, one per label where possible. Within a
// label NewsAPI stories are preferred, then breaking, then featured, then
// the most popular. Remaining slots backfill by popularity, favoring kickers
// not yet in the row.
func TopRow(stories []model.Story, order []string) []model.Story {
	used := make(map[string]bool)
	var top []model.Story

	for _, label := range order {
		if len(top) == TopRowSize {
			break
		}
		if s, ok := pickTopForLabel(stories, label, used); ok {
			used[s.ID] = true
			top = append(top, s)
		}
	}
	if len(top) == TopRowSize {
		return top
	}

	sorted := append([]model.Story(nil), stories...)
	sortByPopularityThenDate(sorted)

	kickers := make(map[string]bool, len(top))
	for _, s := range top {
		kickers[s.Kicker] = true
	}
	for _, s := range sorted {
		if len(top) == TopRowSize {
			break
		}
		if used[s.ID] || kickers[s.Kicker] {
			continue
		}
		used[s.ID] = true
		kickers[s.Kicker] = true
		top = append(top, s)
	}
	for _, s := range sorted {
		if len(top) == TopRowSize {
			break
		}
		if used[s.ID] {
			continue
		}
		used[s.ID] = true
		top = append(top, s)
	}
	return top
}

func pickTopForLabel(stories []model.Story, label string, used map[string]bool) (model.Story, bool) {
	var pool, preferred []model.Story
	for _, s := range stories {
		if s.Kicker == label && !used[s.ID] {
			pool = append(pool, s)
			if s.HasPrefix("newsapi") {
				preferred = append(preferred, s)
			}
		}
	}
	if len(preferred) > 0 {
		pool = preferred
	}
	if len(pool) == 0 {
		return model.Story{}, false
	}
	for _, s := range pool {
		if s.Breaking {
			return s, true
		}
	}
	for _, s := range pool {
		if s.Featured {
			return s, true
		}
	}
	best := pool[0]
	for _, s := range pool[1:] {
		if byPopularityThenDate(s, best) {
			best = s
		}
	}
	return best, true
}

// FeaturedOf is the centre story of the top row.
func FeaturedOf(top []model.Story) (model.Story, bool) {
	switch {
	case len(top) > 1:
		return top[1], true
	case len(top) == 1:
		return top[0], true
	}
	return model.Story{}, false
}

// MoreOptions narrows the "more" pool.
type MoreOptions struct {
	// BookmarksMode draws from saved stories, so the GDELT preference is off.
	BookmarksMode bool
	BookmarksOnly bool
	Bookmarked    map[string]bool
}

// MorePool is the long tail beneath the top row: stories below half the
// peak popularity, preferring GDELT coverage, topped up with the least
// popular remaining stories to at least MoreMinimum.
func MorePool(stories, top []model.Story, opts MoreOptions) []model.Story {
	usedTop := make(map[string]bool, len(top))
	for _, s := range top {
		usedTop[s.ID] = true
	}
	onlyBookmarked := func(in []model.Story) []model.Story {
		if !opts.BookmarksOnly {
			return in
		}
		var out []model.Story
		for _, s := range in {
			if opts.Bookmarked[s.ID] {
				out = append(out, s)
			}
		}
		return out
	}

	var pool []model.Story
	for _, s := range stories {
		if !usedTop[s.ID] {
			pool = append(pool, s)
		}
	}

	source := pool
	if !opts.BookmarksMode {
		var gdelt []model.Story
		for _, s := range pool {
			if s.HasPrefix("gdelt") {
				gdelt = append(gdelt, s)
			}
		}
		if len(gdelt) > 0 {
			source = gdelt
		}
	}

	peak := 0
	for _, s := range source {
		peak = max(peak, s.Popularity)
	}
	cutoff := float64(peak) * moreCutoffPart

	var more []model.Story
	for _, s := range source {
		if float64(s.Popularity) < cutoff {
			more = append(more, s)
		}
	}
	more = onlyBookmarked(more)

	if len(more) < MoreMinimum {
		kept := make(map[string]bool, len(more))
		for _, s := range more {
			kept[s.ID] = true
		}
		var rest []model.Story
		for _, s := range onlyBookmarked(pool) {
			if !kept[s.ID] {
				rest = append(rest, s)
			}
		}
		sort.SliceStable(rest, func(i, j int) bool { return rest[i].Popularity < rest[j].Popularity })
		for _, s := range rest {
			if len(more) >= MoreMinimum {
				break
			}
			more = append(more, s)
		}
	}

	if len(more) == 0 {
		return onlyBookmarked(pool)
	}
	return more
}

// MaxPage is the last page index for n stories: eight on the first page,
// six on each after.
func MaxPage(n int) int {
	if n <= FirstPageSize {
		return 0
	}
	return (n - FirstPageSize + NextPageSize - 1) / NextPageSize
}

// Paginate clamps page into range and returns its slice along with the
// clamped page.
func Paginate(stories []model.Story, page int) ([]model.Story, int) {
	page = min(max(page, 0), MaxPage(len(stories)))
	start, size := 0, FirstPageSize
	if page > 0 {
		start, size = FirstPageSize+(page-1)*NextPageSize, NextPageSize
	}
	if start >= len(stories) {
		return nil, page
	}
	end := min(start+size, len(stories))
	return stories[start:end], page
}

// Columns lays stories under the top row. A story goes under the top story
// sharing its kicker while that column has room, otherwise into the
// shortest column.
func Columns(stories, top []model.Story) [][]model.Story {
	n := len(top)
	if n == 0 {
		n = TopRowSize
	}
	n = max(1, min(TopRowSize, n))
	perCol := max(1, (len(stories)+n-1)/n)

	cols := make([][]model.Story, n)
	for _, s := range stories {
		idx := -1
		for i, t := range top {
			if t.Kicker == s.Kicker {
				idx = i
				break
			}
		}
		if idx < 0 || idx >= n || len(cols[idx]) >= perCol {
			idx = 0
			for i := range cols {
				if len(cols[i]) < len(cols[idx]) {
					idx = i
				}
			}
		}
		cols[idx] = append(cols[idx], s)
	}
	return cols
}
