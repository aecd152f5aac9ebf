package frontpage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/cache"
	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"golang.org/x/sync/errgroup"
)

type Request struct {
	CategoryIDs []string
	BaseQuery   string
}

type Builder struct {
	registry  *category.Registry
	editions  *cache.EditionCache
	providers []Provider
	ttl       time.Duration
}

func NewBuilder(registry *category.Registry, editions *cache.EditionCache, providers []Provider, ttl time.Duration) *Builder {
	return &Builder{
		registry:  registry,
		editions:  editions,
		providers: providers,
		ttl:       ttl,
	}
}

func (b *Builder) Registry() *category.Registry {
	return b.registry
}

// Build returns one section per normalized category id, in request order.
// A category whose chain is exhausted or fails gets an empty section.
func (b *Builder) Build(ctx context.Context, req Request) (model.Edition, error) {
	return b.build(ctx, req, func(ctx context.Context, id, base string) ([]model.Story, error) {
		return b.storiesForCategory(ctx, id, base, b.providers)
	})
}

type categoryFetch func(ctx context.Context, id, base string) ([]model.Story, error)

func (b *Builder) build(ctx context.Context, req Request, fetch categoryFetch) (model.Edition, error) {
	ids := b.registry.NormalizeIDs(req.CategoryIDs)
	if len(ids) == 0 {
		return model.EmptyEdition(), nil
	}
	base := req.BaseQuery
	if strings.TrimSpace(base) == "" {
		base = category.DefaultBaseQuery
	}

	results := make([][]model.Story, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			stories, err := fetch(ctx, id, base)
			if err != nil {
				slog.Warn("category build failed", "category", id, "error", err)
				return nil
			}
			results[i] = stories
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.Edition{}, err
	}

	sections := make([]model.Section, 0, len(ids))
	for i, id := range ids {
		label := b.registry.Label(id)
		sections = append(sections, model.Section{
			Label:      label,
			CategoryID: id,
			Stories:    stampKicker(results[i], label),
		})
	}
	return model.Edition{Sections: sections}, nil
}

func (b *Builder) storiesForCategory(ctx context.Context, id, base string, providers []Provider) ([]model.Story, error) {
	var chain []Provider
	for _, p := range providers {
		if p.Serves(id) {
			chain = append(chain, p)
		}
	}

	attempt, err := TryInOrder(ctx, chain, func(ctx context.Context, p Provider) (model.Edition, error) {
		return b.fetchProvider(ctx, p, id, base)
	}, nil)
	if err != nil {
		return nil, err
	}
	if !attempt.OK {
		slog.Info("category chain exhausted", "category", id)
		return nil, nil
	}
	return attempt.Edition.FirstStories(), nil
}

// fetchProvider runs one provider for one category through the edition cache
// and narrows multi-section results to the section for that category.
func (b *Builder) fetchProvider(ctx context.Context, p Provider, id, base string) (model.Edition, error) {
	q := b.resolveQuery(p.QueryBuilder, id, base)
	key := fmt.Sprintf("frontpage:%s:%s:%s", p.Name, id, q)
	ttl := p.TTL
	if ttl <= 0 {
		ttl = b.ttl
	}
	slog.Info("frontpage adapter selected", "category", id, "adapter", p.Name, "query", q, "cache_key", key)

	ed, err := b.editions.Get(ctx, key, ttl, func(ctx context.Context) (model.Edition, error) {
		return p.Adapter.Fetch(ctx, q)
	})
	if err != nil {
		return model.Edition{}, err
	}
	if len(ed.Sections) > 1 {
		if sec, ok := b.registry.SectionFor(ed.Sections, id); ok {
			return model.Edition{Meta: ed.Meta, Sections: []model.Section{sec}}, nil
		}
	}
	return ed, nil
}

func (b *Builder) resolveQuery(builder QueryBuilder, id, base string) string {
	var q string
	if builder != nil {
		q = builder(id, base)
	} else {
		q = b.registry.BuildQuery(id, base)
	}
	if q = strings.TrimSpace(q); q != "" {
		return q
	}
	return b.registry.Label(id)
}

// stampKicker copies stories so cached editions stay untouched.
func stampKicker(stories []model.Story, label string) []model.Story {
	out := make([]model.Story, len(stories))
	for i, s := range stories {
		s.Kicker = label
		out[i] = s
	}
	return out
}
