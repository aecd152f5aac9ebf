package composer

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

func TestPlaceholderSection(t *testing.T) {
	sec := PlaceholderSection("Global Affairs", "")
	assert.Equal(t, "Global Affairs", sec.Label)
	assert.Equal(t, 1, len(sec.Stories))

	p := sec.Stories[0]
	assert.Equal(t, "placeholder-global-affairs", p.ID)
	assert.Equal(t, true, p.IsPlaceholder)
	assert.Equal(t, model.PlaceholderMissing, p.PlaceholderState)
	assert.Equal(t, model.FloatLeft, p.ImageFloat)
	assert.Equal(t, missingTitle, p.Title)

	p = PlaceholderSection("Tech", model.PlaceholderError).Stories[0]
	assert.Equal(t, "Connection error", p.Title)
	assert.Equal(t, errorSummary, p.Summary)

	p = PlaceholderSection("Tech", model.PlaceholderLoading).Stories[0]
	assert.Equal(t, "Loading...", p.Title)
	assert.Equal(t, "", p.Summary)
}

func TestExactSectionsMatchesById(t *testing.T) {
	r := category.MustDefault()
	sections := []model.Section{
		{Label: "Sports", CategoryID: "sports", Stories: []model.Story{{ID: "s1", Title: "Game night"}}},
		{Label: "Technology", CategoryID: "tech", Stories: []model.Story{{ID: "t1", Title: "New phone", Kicker: "Featured"}}},
	}

	got := ExactSections(r, sections, []string{"tech", "sports", "health"}, "")

	assert.Equal(t, 3, len(got))
	assert.Equal(t, "Technology", got[0].Label)
	assert.Equal(t, "t1", got[0].Stories[0].ID)
	assert.Equal(t, "Technology", got[0].Stories[0].Kicker)
	assert.Equal(t, "s1", got[1].Stories[0].ID)
	assert.Equal(t, "placeholder-health", got[2].Stories[0].ID)
	assert.Equal(t, model.PlaceholderMissing, got[2].Stories[0].PlaceholderState)
}

func TestExactSectionsClassifiesSingleSection(t *testing.T) {
	r := category.MustDefault()
	sections := []model.Section{{Label: "Front Page", Stories: []model.Story{
		{ID: "a", Title: "AI chip shortage deepens"},
		{ID: "b", Title: "NFL trade deadline"},
	}}}

	got := ExactSections(r, sections, []string{"tech", "sports", "health"}, "")

	assert.Equal(t, []string{"a"}, ids(got[0].Stories))
	assert.Equal(t, []string{"b"}, ids(got[1].Stories))
	assert.Equal(t, true, got[2].Stories[0].IsPlaceholder)
}

func TestExactSectionsBorrowsWithoutDuplicates(t *testing.T) {
	r := category.MustDefault()
	sections := []model.Section{
		{Label: "Sports", CategoryID: "sports"},
		{Label: "Technology", CategoryID: "tech", Stories: []model.Story{
			{ID: "t1", Title: "Cloud outage"},
			{ID: "t2", Title: "NFL streaming deal"},
		}},
	}

	got := ExactSections(r, sections, []string{"sports", "tech"}, "")

	assert.Equal(t, []string{"t2"}, ids(got[0].Stories))
	assert.Equal(t, "Sports", got[0].Stories[0].Kicker)
	assert.Equal(t, []string{"t1"}, ids(got[1].Stories))
}

func TestExactSectionsBorrowLimit(t *testing.T) {
	r := category.MustDefault()
	var stories []model.Story
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		stories = append(stories, model.Story{ID: id, Title: "Untagged " + id})
	}
	sections := []model.Section{
		{Label: "Weather", CategoryID: "weather"},
		{Label: "Energy", CategoryID: "energy", Stories: stories},
	}

	got := ExactSections(r, sections, []string{"weather", "energy"}, "")

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got[0].Stories))
	assert.Equal(t, []string{"e", "f"}, ids(got[1].Stories))
}

func TestExactSectionsEmptyInputUsesState(t *testing.T) {
	r := category.MustDefault()

	got := ExactSections(r, nil, []string{"tech", "sports"}, model.PlaceholderLoading)

	assert.Equal(t, 2, len(got))
	for _, sec := range got {
		assert.Equal(t, model.PlaceholderLoading, sec.Stories[0].PlaceholderState)
		assert.Equal(t, sec.Label, sec.Stories[0].Kicker)
	}
}

func TestRebucket(t *testing.T) {
	r := category.MustDefault()
	search := []model.Section{{Label: "Featured", Stories: []model.Story{
		{ID: "1", Title: "NFL playoffs", Kicker: "Featured"},
		{ID: "2", Title: "Vaccine rollout", Kicker: "News"},
		{ID: "3", Title: "Local bakery opens"},
	}}}

	got := Rebucket(r, search, []string{"sports", "health"})

	assert.Equal(t, 2, len(got))
	assert.Equal(t, []string{"1"}, ids(got[0].Stories))
	assert.Equal(t, "Sports", got[0].Stories[0].Kicker)
	assert.Equal(t, []string{"2"}, ids(got[1].Stories))
	assert.Equal(t, "Health", got[1].Stories[0].Kicker)

	assert.Equal(t, search, Rebucket(r, search, nil))
}
