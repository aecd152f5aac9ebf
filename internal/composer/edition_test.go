package composer

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC3339)
}

func ids(stories []model.Story) []string {
	out := make([]string, len(stories))
	for i, s := range stories {
		out[i] = s.ID
	}
	return out
}

func TestHashScore(t *testing.T) {
	assert.Equal(t, 105, hashScore("ab"))
	assert.Equal(t, 131, Popularity(model.Story{ID: "a"}))
	assert.Equal(t, 42, Popularity(model.Story{ID: "a", Popularity: 42}))
	assert.Equal(t, hashScore("x|y"), Popularity(model.Story{ID: "x", Title: "y"}))
}

func TestEditionCap(t *testing.T) {
	assert.Equal(t, 30, EditionCap(0))
	assert.Equal(t, 30, EditionCap(1))
	assert.Equal(t, 60, EditionCap(3))
}

func TestBuildEditionStampsKickerAndDedupes(t *testing.T) {
	sections := []model.Section{
		{Label: "Technology", Stories: []model.Story{
			{ID: "gdelt:1", Title: "Chip maker rallies", PublishDate: at(time.Hour), Popularity: 10},
			{ID: "placeholder-a", Title: "Loading...", IsPlaceholder: true},
		}},
		{Label: "Business", Stories: []model.Story{
			{ID: "gdelt:2", Title: "Chip Maker Rallies!", PublishDate: at(2 * time.Hour), Popularity: 20},
			{ID: "placeholder-b", Title: "Loading...", IsPlaceholder: true},
		}},
	}

	ed := BuildEdition(sections, 30, testNow)

	assert.Equal(t, model.FrontPageLabel, ed.Label)
	assert.Equal(t, 3, len(ed.Stories))
	for _, s := range ed.Stories {
		assert.NotEqual(t, "gdelt:2", s.ID)
		if s.ID == "gdelt:1" {
			assert.Equal(t, "Technology", s.Kicker)
		}
	}
	// input untouched
	assert.Equal(t, "", sections[0].Stories[0].Kicker)
}

func TestBuildEditionBreakingAndFeatured(t *testing.T) {
	sections := []model.Section{{Label: "Business", Stories: []model.Story{
		{ID: "gdelt:a", Title: "A", PublishDate: at(time.Hour), Popularity: 100},
		{ID: "gdelt:d", Title: "D", PublishDate: at(5 * time.Hour), Popularity: 95},
		{ID: "newsapi:b", Title: "B", PublishDate: at(2 * time.Hour), Popularity: 10},
		{ID: "newsapi:c", Title: "C", PublishDate: at(30 * time.Hour), Popularity: 20},
		{ID: "gdelt:e", Title: "E", Popularity: 99},
	}}}

	ed := BuildEdition(sections, 30, testNow)

	assert.Equal(t, []string{"newsapi:b", "gdelt:a", "gdelt:e", "gdelt:d", "newsapi:c"}, ids(ed.Stories))
	flags := map[string][2]bool{}
	for _, s := range ed.Stories {
		flags[s.ID] = [2]bool{s.Breaking, s.Featured}
	}
	assert.Equal(t, [2]bool{false, true}, flags["newsapi:b"])
	assert.Equal(t, [2]bool{true, false}, flags["gdelt:a"])
	assert.Equal(t, [2]bool{false, false}, flags["gdelt:d"])
	assert.Equal(t, [2]bool{false, false}, flags["gdelt:e"])
	assert.Equal(t, [2]bool{false, false}, flags["newsapi:c"])
}

func TestBuildEditionFeaturesAllProvidersWithoutNewsAPI(t *testing.T) {
	var stories []model.Story
	for i, p := range []int{50, 40, 30, 20} {
		stories = append(stories, model.Story{
			ID: "gdelt:" + string(rune('a'+i)), Title: string(rune('A' + i)),
			PublishDate: at(time.Duration(i+1) * time.Hour), Popularity: p,
		})
	}
	ed := BuildEdition([]model.Section{{Label: "Science", Stories: stories}}, 30, testNow)

	featured := 0
	for _, s := range ed.Stories {
		if s.Featured {
			featured++
		}
	}
	assert.Equal(t, FeaturedCount, featured)
	assert.Equal(t, false, ed.Stories[3].Featured)
}

func TestBuildEditionKeepsOwnFlagsAndCaps(t *testing.T) {
	sections := []model.Section{{Label: "Health", Stories: []model.Story{
		{ID: "gdelt:a", Title: "A", Popularity: 5, Breaking: true, Featured: true},
		{ID: "gdelt:b", Title: "B", Popularity: 50},
		{ID: "gdelt:c", Title: "C", Popularity: 40},
	}}}

	ed := BuildEdition(sections, 2, testNow)

	assert.Equal(t, []string{"gdelt:b", "gdelt:c"}, ids(ed.Stories))

	ed = BuildEdition(sections, 30, testNow)
	last := ed.Stories[2]
	assert.Equal(t, "gdelt:a", last.ID)
	assert.Equal(t, true, last.Breaking)
	assert.Equal(t, true, last.Featured)
}
