package frontpage

import (
	"context"
	"fmt"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/cache"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

// Searcher runs free-text queries through the edition cache.
type Searcher struct {
	editions *cache.EditionCache
	primary  Provider
	fallback *Provider
	ttl      time.Duration
}

// NewSearcher uses fallback, when non-nil, for queries the primary finds nothing for.
func NewSearcher(editions *cache.EditionCache, primary Provider, fallback *Provider, ttl time.Duration) *Searcher {
	return &Searcher{editions: editions, primary: primary, fallback: fallback, ttl: ttl}
}

func (s *Searcher) AdapterName() string {
	return s.primary.Name
}

// Search queries the primary adapter only.
func (s *Searcher) Search(ctx context.Context, q string) (model.Edition, error) {
	return s.editions.Get(ctx, searchKey(s.primary.Name, q), s.providerTTL(s.primary), func(ctx context.Context) (model.Edition, error) {
		return s.primary.Adapter.Fetch(ctx, q)
	})
}

// SearchWithFallback is Search, falling back to the secondary adapter under
// its own cache key when the primary edition has no stories.
func (s *Searcher) SearchWithFallback(ctx context.Context, q string) (model.Edition, error) {
	return s.editions.Get(ctx, searchKey(s.primary.Name, q), s.providerTTL(s.primary), func(ctx context.Context) (model.Edition, error) {
		primary, err := s.primary.Adapter.Fetch(ctx, q)
		if err != nil {
			return model.Edition{}, err
		}
		if primary.StoryCount() > 0 || s.fallback == nil {
			return primary, nil
		}
		fb := *s.fallback
		return s.editions.Get(ctx, searchKey(fb.Name, q), s.providerTTL(fb), func(ctx context.Context) (model.Edition, error) {
			return fb.Adapter.Fetch(ctx, q)
		})
	})
}

func (s *Searcher) providerTTL(p Provider) time.Duration {
	if p.TTL > 0 {
		return p.TTL
	}
	return s.ttl
}

func searchKey(adapter, q string) string {
	return fmt.Sprintf("news:%s:%s", adapter, q)
}
