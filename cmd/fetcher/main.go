package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/cache"
	"github.com/ReyWins/happeningnow-news-core/internal/config"
	"github.com/ReyWins/happeningnow-news-core/internal/frontpage"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// fetcher runs every registered category through the configured provider
// chain once and reports what each one yields. Use it to check adapter keys
// and category queries before starting the API.
func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	registry, err := cfg.Registry()
	if err != nil {
		log.Fatalf("error loading categories: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	adapters := frontpage.Adapters{
		GDELT:   news.NewGDELTClient(httpClient, cfg.GDELTUSOnly, nil),
		NewsAPI: news.NewEventRegistryClient(cfg.NewsAPIKey, httpClient, nil),
	}
	if mock, err := news.NewMockAdapter(); err == nil {
		adapters.Mock = mock
	} else {
		slog.Warn("mock dataset unavailable", "error", err)
	}
	if cfg.FinnhubKey != "" {
		adapters.Finnhub = news.NewFinnHubClient(cfg.FinnhubKey, httpClient)
	}

	chain := frontpage.CategoryChain(cfg.Adapter, adapters, cfg.FallbackTTL)
	if len(chain) == 0 {
		slog.Error("no providers configured", "adapter", cfg.Adapter)
		return
	}
	builder := frontpage.NewBuilder(registry, cache.NewEditionCache(nil), chain, cfg.CacheTTL)

	var filled, empty, errors int

	for _, cat := range registry.All() {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		ed, err := builder.Build(ctx, frontpage.Request{CategoryIDs: []string{cat.ID}})
		if err != nil {
			slog.Error("error building category", "category", cat.ID, "error", err)
			errors++
			continue
		}

		stories := storiesOf(ed)
		if len(stories) == 0 {
			slog.Warn("category returned no stories", "category", cat.ID, "elapsed_ms", time.Since(start).Milliseconds())
			empty++
			continue
		}

		filled++
		lead := stories[0]
		slog.Info("category fetched",
			"category", cat.ID,
			"stories", len(stories),
			"lead", lead.Title,
			"lead_source", lead.Source,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	slog.Info("fetch complete", "adapter", cfg.Adapter, "filled", filled, "empty", empty, "errors", errors)
}

func storiesOf(ed model.Edition) []model.Story {
	var out []model.Story
	for _, sec := range ed.Sections {
		out = append(out, sec.Stories...)
	}
	return out
}
