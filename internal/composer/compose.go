package composer

import (
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

type Mode string

const (
	ModeAll       Mode = "all"
	ModeBookmarks Mode = "bookmarks"
)

const (
	StatusRendering = "Rendering latest stories..."
	StatusNoStories = "No stories found — try different categories"
)

// Input is everything the page depends on. Sections are the server's
// per-category response; Search, when set, replaces them with flat search
// results.
type Input struct {
	Sections    []model.Section
	Search      []model.Section
	CategoryIDs []string
	TimedOut    bool
	Loading     bool
	// Message overrides the computed status line, e.g. a search failure.
	Message string

	Mode          Mode
	Bookmarks     []model.Story
	BookmarksOnly bool
	Page          int
	Now           time.Time
}

type FrontPage struct {
	Edition  model.Section
	Top      []model.Story
	Featured model.Story
	More     []model.Story
	Paged    []model.Story
	Columns  [][]model.Story
	Page     int
	MaxPage  int
	Status   string
	// Visible is the story count before top and more are split out.
	Visible int
	// TopKickers are the distinct kickers of the top row, in order.
	TopKickers []string
}

// Compose renders a page. It is pure: the same input yields the same page.
func Compose(r *category.Registry, in Input) FrontPage {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	ids := r.NormalizeIDs(in.CategoryIDs)
	if len(ids) == 0 {
		ids = r.DefaultIDs()
	}
	labels := r.Labels(ids)

	state := ""
	if len(in.Sections) == 0 {
		state = model.PlaceholderLoading
		if in.TimedOut {
			state = model.PlaceholderError
		}
	}
	exact := ExactSections(r, in.Sections, ids, state)
	edition := BuildEdition(exact, EditionCap(len(exact)), now)

	bookmarked := make(map[string]bool, len(in.Bookmarks))
	for _, s := range in.Bookmarks {
		bookmarked[s.ID] = true
	}
	bookmarksOnly := in.BookmarksOnly && len(bookmarked) > 0

	var stories []model.Story
	switch {
	case in.Mode == ModeBookmarks:
		stories = append(stories, in.Bookmarks...)
	case in.Search != nil:
		for _, sec := range Rebucket(r, in.Search, ids) {
			for _, s := range sec.Stories {
				if s.Kicker == "" {
					s.Kicker = sec.Label
				}
				stories = append(stories, s)
			}
		}
	default:
		stories = edition.Stories
	}
	visible := len(stories)

	if bookmarksOnly && in.Mode != ModeBookmarks {
		stories = filterIDs(stories, bookmarked)
	}

	order := labels
	if in.Mode == ModeBookmarks || bookmarksOnly {
		order = uniqueKickers(stories)
	}
	top := TopRow(stories, order)
	featured, _ := FeaturedOf(top)

	more := MorePool(stories, top, MoreOptions{
		BookmarksMode: in.Mode == ModeBookmarks,
		BookmarksOnly: bookmarksOnly,
		Bookmarked:    bookmarked,
	})
	paged, page := Paginate(more, in.Page)

	return FrontPage{
		Edition:    edition,
		Top:        top,
		Featured:   featured,
		More:       more,
		Paged:      paged,
		Columns:    Columns(paged, top),
		Page:       page,
		MaxPage:    MaxPage(len(more)),
		Status:     status(in),
		Visible:    visible,
		TopKickers: uniqueKickers(top),
	}
}

// RestoreBookmarksOnly applies a persisted bookmarks-only toggle. The
// "all" mode always starts with it off.
func RestoreBookmarksOnly(mode Mode, stored bool) bool {
	return mode != ModeAll && stored
}

func status(in Input) string {
	if in.Message != "" {
		return in.Message
	}
	if len(in.Sections) == 0 && in.Search == nil && in.Mode != ModeBookmarks {
		if in.TimedOut {
			return StatusNoStories
		}
		return StatusRendering
	}
	if in.Loading {
		return StatusRendering
	}
	return ""
}

func filterIDs(stories []model.Story, keep map[string]bool) []model.Story {
	var out []model.Story
	for _, s := range stories {
		if keep[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func uniqueKickers(stories []model.Story) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range stories {
		if !seen[s.Kicker] {
			seen[s.Kicker] = true
			out = append(out, s.Kicker)
		}
	}
	return out
}
