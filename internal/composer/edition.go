// Package composer turns per-category sections into the rendered front page:
// one ranked edition, a three-story top row, a paginated pool of more
// stories laid out in columns, and placeholder cards for empty categories.
package composer

import (
	"math"
	"sort"
	"time"
	"unicode/utf16"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

const (
	FeaturedCount       = 3
	BreakingMinPct      = 90
	BreakingWindow      = 3 * time.Hour
	FeaturedWindow      = 24 * time.Hour
	MinEditionStories   = 30
	StoriesPerSection   = 20
	hashPopularityRange = 1000
)

// EditionCap is the story cap for an edition built from n sections.
func EditionCap(n int) int {
	return max(MinEditionStories, n*StoriesPerSection)
}

// Popularity returns the story's own popularity when positive, else a stable
// 0..999 hash of id and title so unscored stories still order deterministically.
func Popularity(s model.Story) int {
	if s.Popularity > 0 {
		return s.Popularity
	}
	return hashScore(s.ID + "|" + s.Title)
}

func hashScore(v string) int {
	var h uint32
	for _, c := range utf16.Encode([]rune(v)) {
		h = h*31 + uint32(c)
	}
	return int(h % hashPopularityRange)
}

// BuildEdition merges sections into the single "Front Page" section.
// Stories are copied with kicker set to their section label and popularity
// filled in; duplicates by title and day are dropped, placeholders excepted.
// Up to three recent stories are flagged featured and lead the list; the
// rest follow by popularity then date.
func BuildEdition(sections []model.Section, maxStories int, now time.Time) model.Section {
	var all []model.Story
	for _, sec := range sections {
		for _, s := range sec.Stories {
			s.Kicker = sec.Label
			s.Popularity = Popularity(s)
			all = append(all, s)
		}
	}
	all = news.MergeBy(all, func(s model.Story) string {
		if s.IsPlaceholder {
			return ""
		}
		return news.TitleDayKey(s.Title, s.PublishedAt())
	}, news.KeepFirst[model.Story])

	top := 0
	for _, s := range all {
		top = max(top, s.Popularity)
	}
	for i := range all {
		pct := popularityPct(all[i].Popularity, top)
		if !all[i].Breaking && pct >= BreakingMinPct && ageOf(all[i], now) <= BreakingWindow {
			all[i].Breaking = true
		}
	}

	pool := make([]model.Story, 0, len(all))
	for _, s := range all {
		if s.HasPrefix("newsapi") {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, all...)
	}
	sortByPopularityThenDate(pool)

	featured := make(map[string]bool, FeaturedCount)
	for _, s := range pool {
		if len(featured) == FeaturedCount {
			break
		}
		if s.Popularity > 0 && ageOf(s, now) <= FeaturedWindow {
			featured[s.ID] = true
		}
	}
	for i := range all {
		if featured[all[i].ID] {
			all[i].Featured = true
		}
	}

	ranked := append([]model.Story(nil), all...)
	sortByPopularityThenDate(ranked)

	merged := make([]model.Story, 0, len(ranked))
	for _, s := range ranked {
		if featured[s.ID] {
			merged = append(merged, s)
		}
	}
	for _, s := range ranked {
		if !featured[s.ID] {
			merged = append(merged, s)
		}
	}
	if maxStories >= 0 && len(merged) > maxStories {
		merged = merged[:maxStories]
	}

	return model.Section{Label: model.FrontPageLabel, Stories: merged}
}

func popularityPct(popularity, top int) float64 {
	if top <= 0 {
		return 0
	}
	return float64(popularity) / float64(top) * 100
}

// ageOf is infinite for undated stories.
func ageOf(s model.Story, now time.Time) time.Duration {
	t := s.PublishedAt()
	if t.IsZero() {
		return time.Duration(math.MaxInt64)
	}
	return now.Sub(t)
}

func dateMs(s model.Story) int64 {
	t := s.PublishedAt()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func byPopularityThenDate(a, b model.Story) bool {
	if a.Popularity != b.Popularity {
		return a.Popularity > b.Popularity
	}
	return dateMs(a) > dateMs(b)
}

func sortByPopularityThenDate(stories []model.Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		return byPopularityThenDate(stories[i], stories[j])
	})
}
