package composer

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

func threeCategorySections() []model.Section {
	var out []model.Section
	for _, c := range []struct{ id, label string }{{"tech", "Technology"}, {"sports", "Sports"}, {"health", "Health"}} {
		sec := model.Section{Label: c.label, CategoryID: c.id}
		for i := 0; i < 10; i++ {
			sec.Stories = append(sec.Stories, model.Story{
				ID:          fmt.Sprintf("gdelt:%s-%d", c.id, i),
				Title:       fmt.Sprintf("%s story %d", c.label, i),
				PublishDate: at(time.Duration(i+1) * time.Hour),
				Popularity:  100 - i*7,
			})
		}
		out = append(out, sec)
	}
	return out
}

func TestComposeThreeCategories(t *testing.T) {
	r := category.MustDefault()
	in := Input{
		Sections:    threeCategorySections(),
		CategoryIDs: []string{"tech", "sports", "health"},
		Mode:        ModeAll,
		Now:         testNow,
	}

	page := Compose(r, in)

	assert.Equal(t, 30, len(page.Edition.Stories))
	assert.Equal(t, 30, page.Visible)
	assert.Equal(t, []string{"Technology", "Sports", "Health"}, page.TopKickers)
	assert.Equal(t, page.Top[1].ID, page.Featured.ID)

	seen := map[string]bool{}
	for _, s := range append(append([]model.Story(nil), page.Top...), page.More...) {
		assert.Equal(t, false, seen[s.ID])
		seen[s.ID] = true
	}
	// below half of the peak plus the least popular top-up
	assert.Equal(t, MoreMinimum, len(page.More))
	assert.Equal(t, 0, page.MaxPage)
	assert.Equal(t, MoreMinimum, len(page.Paged))
	assert.Equal(t, 3, len(page.Columns))
	assert.Equal(t, "", page.Status)

	again := Compose(r, in)
	if diff := cmp.Diff(page, again); diff != "" {
		t.Fatalf("compose is not stable (-first +second):\n%s", diff)
	}
}

func TestComposeTimedOutShowsErrorPlaceholders(t *testing.T) {
	r := category.MustDefault()

	page := Compose(r, Input{CategoryIDs: []string{"tech", "sports"}, TimedOut: true, Now: testNow})

	assert.Equal(t, StatusNoStories, page.Status)
	assert.Equal(t, 2, len(page.Edition.Stories))
	for _, c := range Cards(page.Edition.Stories) {
		assert.Equal(t, CardError, c.State)
	}

	page = Compose(r, Input{CategoryIDs: []string{"tech"}, Now: testNow})
	assert.Equal(t, StatusRendering, page.Status)
	assert.Equal(t, CardLoading, NewCard(page.Edition.Stories[0]).State)
}

func TestComposeDefaultsCategories(t *testing.T) {
	r := category.MustDefault()
	page := Compose(r, Input{Now: testNow})
	assert.Equal(t, 3, len(page.Edition.Stories))
	assert.Equal(t, []string{"Global Affairs", "Business", "Technology"}, page.TopKickers)
}

func TestComposeSearchOverride(t *testing.T) {
	r := category.MustDefault()
	search := []model.Section{{Label: "Featured", Stories: []model.Story{
		{ID: "newsapi:1", Title: "NFL playoffs", Popularity: 50},
		{ID: "newsapi:2", Title: "Vaccine rollout", Popularity: 40},
	}}}

	page := Compose(r, Input{
		Sections:    threeCategorySections(),
		Search:      search,
		CategoryIDs: []string{"sports", "health"},
		Message:     "Search failed (API).",
		Now:         testNow,
	})

	assert.Equal(t, 2, page.Visible)
	assert.Equal(t, []string{"newsapi:1", "newsapi:2"}, ids(page.Top))
	assert.Equal(t, []string{"Sports", "Health"}, page.TopKickers)
	assert.Equal(t, "Search failed (API).", page.Status)
}

func TestComposeBookmarks(t *testing.T) {
	r := category.MustDefault()
	saved := []model.Story{
		{ID: "gdelt:tech-1", Kicker: "Technology", Title: "Saved one", Popularity: 10},
		{ID: "gdelt:sports-2", Kicker: "Sports", Title: "Saved two", Popularity: 20},
	}

	page := Compose(r, Input{
		Sections:    threeCategorySections(),
		CategoryIDs: []string{"tech", "sports", "health"},
		Mode:        ModeBookmarks,
		Bookmarks:   saved,
		Now:         testNow,
	})
	assert.Equal(t, 2, page.Visible)
	assert.Equal(t, []string{"Technology", "Sports"}, page.TopKickers)
	assert.Equal(t, 0, len(page.More))

	page = Compose(r, Input{
		Sections:      threeCategorySections(),
		CategoryIDs:   []string{"tech", "sports", "health"},
		Mode:          ModeAll,
		Bookmarks:     saved,
		BookmarksOnly: true,
		Now:           testNow,
	})
	assert.Equal(t, 30, page.Visible)
	assert.Equal(t, []string{"gdelt:tech-1", "gdelt:sports-2"}, ids(page.Top))
	assert.Equal(t, 0, len(page.More))
}

func TestRestoreBookmarksOnly(t *testing.T) {
	assert.Equal(t, false, RestoreBookmarksOnly(ModeAll, true))
	assert.Equal(t, true, RestoreBookmarksOnly(ModeBookmarks, true))
	assert.Equal(t, false, RestoreBookmarksOnly(ModeBookmarks, false))
}
