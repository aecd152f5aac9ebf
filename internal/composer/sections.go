package composer

import (
	"regexp"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

// BorrowLimit caps stories lent to a category with no section of its own.
const BorrowLimit = 4

const (
	errorTitle     = "Connection error"
	errorSummary   = "Try again or contact site administrator at support@happeningnow.news."
	loadingTitle   = "Loading..."
	missingTitle   = "Could not find any headlines..."
	missingSummary = "This category isn't mapped yet. When we wire more sources, real headlines will appear here."
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// PlaceholderSection stands in for a category with nothing to show. An
// empty state means missing.
func PlaceholderSection(label, state string) model.Section {
	if state == "" {
		state = model.PlaceholderMissing
	}
	title, summary := missingTitle, missingSummary
	switch state {
	case model.PlaceholderError:
		title, summary = errorTitle, errorSummary
	case model.PlaceholderLoading:
		title, summary = loadingTitle, ""
	}
	return model.Section{
		Label: label,
		Stories: []model.Story{{
			ID:               slugPattern.ReplaceAllString(strings.ToLower("placeholder-"+label), "-"),
			IsPlaceholder:    true,
			PlaceholderState: state,
			Kicker:           label,
			Title:            title,
			Summary:          summary,
			ImageFloat:       model.FloatLeft,
		}},
	}
}

// ExactSections returns exactly one section per id, in order. Each takes its
// matching server section; with a single unlabeled section, stories are
// classified into categories instead. Empty categories borrow up to
// BorrowLimit keyword-matched stories, then any unused ones. A story id
// appears in at most one section. A category left with nothing becomes a
// placeholder in the given state.
func ExactSections(r *category.Registry, sections []model.Section, ids []string, state string) []model.Section {
	labels := r.Labels(ids)

	var all []model.Story
	for _, sec := range sections {
		all = append(all, sec.Stories...)
	}
	keywordAssignments := r.Assign(all, labels)
	var fallbackAssignments category.Assignment
	if len(sections) == 1 {
		fallbackAssignments = r.Assign(sections[0].Stories, labels)
	}

	used := make(map[string]bool)
	unused := func(stories []model.Story, limit int) []model.Story {
		var out []model.Story
		for _, s := range stories {
			if len(out) == limit {
				break
			}
			if s.ID != "" && !used[s.ID] {
				out = append(out, s)
			}
		}
		return out
	}

	out := make([]model.Section, 0, len(ids))
	for i, id := range ids {
		label := labels[i]

		match, ok := r.SectionFor(sections, id)
		if !ok && len(sections) != 1 {
			out = append(out, PlaceholderSection(label, state))
			continue
		}

		base := match.Stories
		if !ok {
			base = fallbackAssignments.Get(label)
			if len(base) == 0 {
				out = append(out, PlaceholderSection(label, state))
				continue
			}
		}
		if len(base) == 0 {
			base = unused(keywordAssignments.Get(label), BorrowLimit)
		}
		if len(base) == 0 {
			base = unused(all, BorrowLimit)
		}

		var stories []model.Story
		for _, s := range base {
			if s.ID == "" || used[s.ID] {
				continue
			}
			used[s.ID] = true
			s.Kicker = label
			if s.IsPlaceholder {
				s.ImageURL = ""
			}
			stories = append(stories, s)
		}
		if len(stories) == 0 {
			out = append(out, PlaceholderSection(label, state))
			continue
		}
		out = append(out, model.Section{Label: label, CategoryID: id, Stories: stories})
	}
	return out
}

// Rebucket classifies flat search results into the selected categories.
// Stories that fit no category are dropped.
func Rebucket(r *category.Registry, sections []model.Section, ids []string) []model.Section {
	if len(ids) == 0 {
		return sections
	}
	var all []model.Story
	for _, sec := range sections {
		all = append(all, sec.Stories...)
	}
	labels := r.Labels(ids)
	assigned := r.Assign(all, labels)

	out := make([]model.Section, 0, len(ids))
	for i, id := range ids {
		stories := make([]model.Story, 0)
		for _, s := range assigned.Get(labels[i]) {
			s.Kicker = labels[i]
			stories = append(stories, s)
		}
		out = append(out, model.Section{Label: labels[i], CategoryID: id, Stories: stories})
	}
	return out
}
