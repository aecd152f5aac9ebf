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
	"github.com/ReyWins/happeningnow-news-core/internal/handler"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const cleanupInterval = 5 * time.Minute

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

	httpClient := &http.Client{Timeout: 30 * time.Second}

	summaries := cache.NewTTLMap[string](nil)
	results := cache.NewTTLMap[model.Edition](nil)
	editions := cache.NewEditionCache(nil)

	gdelt := news.NewGDELTClient(httpClient, cfg.GDELTUSOnly, news.NewSummaryScraper(nil, summaries))
	eventRegistry := news.NewEventRegistryClient(cfg.NewsAPIKey, httpClient, results)
	mock, err := news.NewMockAdapter()
	if err != nil {
		log.Fatalf("error loading mock dataset: %v", err)
	}

	adapters := frontpage.Adapters{GDELT: gdelt, NewsAPI: eventRegistry, Mock: mock}
	probes := []news.Adapter{gdelt, eventRegistry, mock}
	if cfg.FinnhubKey != "" {
		finnhub := news.NewFinnHubClient(cfg.FinnhubKey, httpClient)
		adapters.Finnhub = finnhub
		probes = append(probes, finnhub)
	}

	if cfg.NewsAPIKey == "" && cfg.Adapter == config.AdapterNewsAPI {
		slog.Warn("no EventRegistry key configured, newsapi results will be empty")
	}

	builder := frontpage.NewBuilder(registry, editions, frontpage.CategoryChain(cfg.Adapter, adapters, cfg.FallbackTTL), cfg.CacheTTL)

	var editionBuilder handler.EditionBuilder = builder
	if cfg.MixedSourcing && cfg.Adapter != config.AdapterMock {
		editionBuilder = frontpage.MixedBuilder{
			Builder:   builder,
			Primary:   frontpage.Provider{Name: config.AdapterNewsAPI, Adapter: eventRegistry, TTL: cfg.FallbackTTL},
			Secondary: frontpage.Provider{Name: config.AdapterGDELT, Adapter: gdelt},
		}
	}

	primary, fallback := frontpage.SearchProviders(cfg.Adapter, adapters, cfg.FallbackTTL)
	searcher := frontpage.NewSearcher(editions, primary, fallback, cfg.CacheTTL)

	newsHandler := handler.NewNewsHandler(editionBuilder, searcher, registry, probes...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cleanupLoop(ctx, editions, summaries, results)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID())

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:4321"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)
	slog.Info("news adapter", "adapter", cfg.Adapter, "mixed", cfg.MixedSourcing, "categories", len(registry.All()))

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
	}))

	handler.Register(r, newsHandler)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error starting server: %v", err)
	}
}

func cleanupLoop(ctx context.Context, editions *cache.EditionCache, summaries *cache.TTLMap[string], results *cache.TTLMap[model.Edition]) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			editions.Cleanup()
			summaries.Cleanup()
			results.Cleanup()
			slog.Debug("cache cleanup", "editions", editions.Len(), "summaries", summaries.Len())
		}
	}
}
