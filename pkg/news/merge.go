package news

import "github.com/ReyWins/happeningnow-news-core/internal/model"

// MergeBy collapses items sharing a key. The first occurrence fixes the
// position; better decides whether a later duplicate replaces the kept item.
// Items with an empty key are always kept.
func MergeBy[T any](items []T, key func(T) string, better func(candidate, kept T) bool) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			out = append(out, item)
			continue
		}
		pos, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, item)
			continue
		}
		if better != nil && better(item, out[pos]) {
			out[pos] = item
		}
	}
	return out
}

// KeepFirst is a MergeBy policy that never replaces the first occurrence.
func KeepFirst[T any](_, _ T) bool { return false }

// Prune keeps map entries whose key is present in allowed and reports whether anything was dropped.
func Prune[V any](items map[string]V, allowed []string) (map[string]V, bool) {
	keep := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		keep[id] = struct{}{}
	}
	out := make(map[string]V, len(items))
	changed := false
	for k, v := range items {
		if _, ok := keep[k]; ok {
			out[k] = v
			continue
		}
		changed = true
	}
	return out, changed
}

// StoryRank is the dedupe score: popularity plus image and summary bonuses.
func StoryRank(s model.Story) int {
	score := s.Popularity
	if s.ImageURL != "" {
		score += 6
	}
	if s.Summary != "" {
		score += 2
	}
	return score
}

// DedupeStories keeps one story per normalized title and publish day,
// preferring the higher StoryRank.
func DedupeStories(stories []model.Story) []model.Story {
	return MergeBy(stories,
		func(s model.Story) string { return TitleDayKey(s.Title, s.PublishedAt()) },
		func(candidate, kept model.Story) bool { return StoryRank(candidate) > StoryRank(kept) },
	)
}
