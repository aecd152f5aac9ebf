// Package frontpage builds per-category editions on the server by walking
// ordered provider chains through the shared edition cache.
package frontpage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// QueryBuilder turns a category id and base query into a provider query.
type QueryBuilder func(id, base string) string

// Provider is one step of a fallback chain.
type Provider struct {
	Name         string
	Adapter      news.Adapter
	TTL          time.Duration // zero uses the builder's TTL
	QueryBuilder QueryBuilder  // nil uses the registry's BuildQuery
	MinStories   int           // zero accepts any non-empty result
	// Categories restricts the provider to these ids. Empty means all.
	Categories []string
}

// Acceptable reports whether ed carries enough stories to stop the chain.
func (p Provider) Acceptable(ed model.Edition) bool {
	need := p.MinStories
	if need < 1 {
		need = 1
	}
	return len(ed.FirstStories()) >= need
}

// Serves reports whether the provider applies to category id.
func (p Provider) Serves(id string) bool {
	if len(p.Categories) == 0 {
		return true
	}
	for _, c := range p.Categories {
		if strings.EqualFold(c, id) {
			return true
		}
	}
	return false
}

// Attempt is the outcome of one chain walk.
type Attempt struct {
	Provider string
	Edition  model.Edition
	OK       bool
}

// TryInOrder calls fetch for each provider until accept approves a result.
// Provider errors are logged and skipped; only ctx cancellation is returned.
func TryInOrder(
	ctx context.Context,
	providers []Provider,
	fetch func(context.Context, Provider) (model.Edition, error),
	accept func(Provider, model.Edition) bool,
) (Attempt, error) {
	if accept == nil {
		accept = func(p Provider, ed model.Edition) bool { return p.Acceptable(ed) }
	}

	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return Attempt{}, err
		}

		ed, err := fetch(ctx, p)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Attempt{}, ctxErr
			}
			slog.Warn("provider failed", "adapter", p.Name, "fallback_reason", "error", "error", err)
			continue
		}
		if accept(p, ed) {
			return Attempt{Provider: p.Name, Edition: ed, OK: true}, nil
		}
		slog.Info("provider result rejected", "adapter", p.Name, "count", len(ed.FirstStories()), "fallback_reason", "empty")
	}
	return Attempt{}, nil
}
