package frontpage

import (
	"context"
	"log/slog"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// BuildMixed leads each category with at most one story from primary that
// classifies into the category, followed by secondary's full list.
//
// The lead's popularity is set one above the secondary maximum so it sorts
// first; it may exceed 100.
func (b *Builder) BuildMixed(ctx context.Context, req Request, primary, secondary Provider) (model.Edition, error) {
	return b.build(ctx, req, func(ctx context.Context, id, base string) ([]model.Story, error) {
		cat, ok := b.registry.ByID(id)
		if !ok {
			return nil, nil
		}

		var lead *model.Story
		if primary.Serves(id) {
			ed, err := b.fetchProvider(ctx, primary, id, base)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				slog.Warn("mixed primary failed", "category", id, "adapter", primary.Name, "error", err)
			}
			lead = pickLead(ed.FirstStories(), cat)
		}

		var rest []model.Story
		if secondary.Serves(id) {
			ed, err := b.fetchProvider(ctx, secondary, id, base)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				slog.Warn("mixed secondary failed", "category", id, "adapter", secondary.Name, "error", err)
			}
			rest = ed.FirstStories()
		}

		return mergeLead(lead, rest), nil
	})
}

func pickLead(stories []model.Story, cat model.Category) *model.Story {
	for _, s := range stories {
		if category.Score(s, cat) >= cat.Threshold() {
			lead := s
			return &lead
		}
	}
	return nil
}

func mergeLead(lead *model.Story, rest []model.Story) []model.Story {
	if lead == nil {
		return append([]model.Story(nil), rest...)
	}
	top := 0
	for _, s := range rest {
		if s.Popularity > top {
			top = s.Popularity
		}
	}
	boosted := *lead
	boosted.Popularity = top + 1

	all := append([]model.Story{boosted}, rest...)
	return news.MergeBy(all, func(s model.Story) string { return s.ID }, news.KeepFirst[model.Story])
}

// MixedBuilder serves Build through BuildMixed.
type MixedBuilder struct {
	*Builder
	Primary   Provider
	Secondary Provider
}

func (m MixedBuilder) Build(ctx context.Context, req Request) (model.Edition, error) {
	return m.Builder.BuildMixed(ctx, req, m.Primary, m.Secondary)
}
