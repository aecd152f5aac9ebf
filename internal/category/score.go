package category

import (
	"regexp"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func foldText(v string) string {
	return nonAlnum.ReplaceAllString(news.NormalizeText(v), " ")
}

// Score is additive: +3 when the story's domain is one of the category's
// preferred domains (or a subdomain), +1 for every keyword found in the
// title, summary, source and URL. Phrases match as substrings, single words
// as whole tokens.
func Score(story model.Story, c model.Category) int {
	score := 0
	if len(c.Domains) > 0 && news.MatchesDomain(news.DomainOf(story.URL), c.Domains) {
		score += 3
	}
	if len(c.Keywords) == 0 {
		return score
	}

	hay := foldText(story.Title + " " + story.Summary + " " + story.Source + " " + story.URL)
	words := make(map[string]struct{})
	for _, w := range strings.Fields(hay) {
		words[w] = struct{}{}
	}
	joined := strings.Join(strings.Fields(hay), " ")

	for _, kw := range c.Keywords {
		needle := strings.TrimSpace(strings.Join(strings.Fields(foldText(kw)), " "))
		if needle == "" {
			continue
		}
		if strings.Contains(needle, " ") {
			if strings.Contains(joined, needle) {
				score++
			}
			continue
		}
		if _, ok := words[needle]; ok {
			score++
		}
	}
	return score
}

// Bucket is one label's share of an assignment, in label order.
type Bucket struct {
	Label   string
	Stories []model.Story
}

// Assignment keeps buckets in the order labels were given.
type Assignment []Bucket

func (a Assignment) Get(label string) []model.Story {
	for _, b := range a {
		if b.Label == label {
			return b.Stories
		}
	}
	return nil
}

// Assign puts every story into the single best-scoring label whose category
// threshold it meets. Ties go to the earlier label; stories below every
// threshold are dropped.
func (r *Registry) Assign(stories []model.Story, labels []string) Assignment {
	out := make(Assignment, len(labels))
	for i, l := range labels {
		out[i] = Bucket{Label: l}
	}
	for _, s := range stories {
		best, bestScore := -1, 0
		for i, l := range labels {
			c, ok := r.ByLabel(l)
			if !ok {
				continue
			}
			score := Score(s, c)
			if score >= c.Threshold() && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			out[best].Stories = append(out[best].Stories, s)
		}
	}
	return out
}

// FindBestSectionMatch looks a section up by normalized label, falling back to
// substring containment in either direction. The fallback can mis-map when two
// labels share a substring; prefer SectionFor when category ids are available.
func FindBestSectionMatch(sections []model.Section, label string) (model.Section, bool) {
	want := news.NormalizeKey(label)
	for _, s := range sections {
		if news.NormalizeKey(s.Label) == want {
			return s, true
		}
	}
	if want == "" {
		return model.Section{}, false
	}
	for _, s := range sections {
		have := news.NormalizeKey(s.Label)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return s, true
		}
	}
	return model.Section{}, false
}

// SectionFor joins on category id first and only then on label.
func (r *Registry) SectionFor(sections []model.Section, id string) (model.Section, bool) {
	for _, s := range sections {
		if s.CategoryID != "" && s.CategoryID == id {
			return s, true
		}
	}
	return FindBestSectionMatch(sections, r.Label(id))
}
