package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/frontpage"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
	"github.com/gin-gonic/gin"
)

const cacheControl = "public, max-age=0, s-maxage=120, stale-while-revalidate=300"

type EditionBuilder interface {
	Build(ctx context.Context, req frontpage.Request) (model.Edition, error)
}

type EditionSearcher interface {
	AdapterName() string
	Search(ctx context.Context, q string) (model.Edition, error)
	SearchWithFallback(ctx context.Context, q string) (model.Edition, error)
}

type NewsHandler struct {
	builder  EditionBuilder
	searcher EditionSearcher
	registry *category.Registry
	probes   map[string]news.Adapter
	now      func() time.Time
}

func NewNewsHandler(builder EditionBuilder, searcher EditionSearcher, registry *category.Registry, probes ...news.Adapter) *NewsHandler {
	byName := make(map[string]news.Adapter, len(probes))
	for _, a := range probes {
		byName[a.Name()] = a
	}
	return &NewsHandler{
		builder:  builder,
		searcher: searcher,
		registry: registry,
		probes:   byName,
		now:      time.Now,
	}
}

// GetNews serves /api/news.json. A query wins over categories; with neither,
// the adapter's default query is used.
func (h *NewsHandler) GetNews(c *gin.Context) {
	rawQ := c.Query("q")
	q, valid := news.SanitizeDefault(rawQ)
	fetchedAt := h.now().UnixMilli()

	c.Header("Cache-Control", cacheControl)

	if rawQ != "" && !valid {
		c.JSON(http.StatusOK, invalidResponse(q))
		return
	}

	categoryIDs := category.ParseIDs(c.Query("categories"))
	useCategories := rawQ == "" && len(categoryIDs) > 0

	var (
		ed  model.Edition
		err error
	)
	if useCategories {
		ed, err = h.builder.Build(c.Request.Context(), frontpage.Request{CategoryIDs: categoryIDs})
	} else {
		ed, err = h.searcher.SearchWithFallback(c.Request.Context(), q)
	}
	if err != nil {
		slog.Warn("error building edition", "query", q, "categories", categoryIDs, "error", err)
		ed = model.EmptyEdition()
	}

	debug := DebugResponse{Q: q, FullURL: fullURL(c)}
	if useCategories {
		debug.Categories = categoryIDs
	}
	c.JSON(http.StatusOK, newsResponse(ed, fetchedAt, debug))
}

// GetNewsByPath serves /api/news/<q>.json through the primary adapter only.
func (h *NewsHandler) GetNewsByPath(c *gin.Context) {
	rawQ := strings.TrimSuffix(c.Param("file"), ".json")
	q, valid := news.SanitizeDefault(rawQ)
	fetchedAt := h.now().UnixMilli()

	c.Header("Cache-Control", cacheControl)

	if !valid {
		c.JSON(http.StatusOK, invalidResponse(q))
		return
	}

	ed, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		slog.Warn("error fetching edition", "query", q, "adapter", h.searcher.AdapterName(), "error", err)
		ed = model.EmptyEdition()
	}

	c.JSON(http.StatusOK, newsResponse(ed, fetchedAt, DebugResponse{Q: q, FullURL: fullURL(c)}))
}

func (h *NewsHandler) GetCategories(c *gin.Context) {
	defaults := h.registry.DefaultIDs()
	isDefault := make(map[string]bool, len(defaults))
	for _, id := range defaults {
		isDefault[id] = true
	}

	var res []CategoryResponse
	for _, cat := range h.registry.All() {
		res = append(res, CategoryResponse{
			ID:       cat.ID,
			Label:    cat.Label,
			Keywords: cat.Keywords,
			Default:  isDefault[cat.ID],
		})
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Categories:  res,
		DefaultIDs:  defaults,
		MaxSelected: model.MaxSelected,
	})
}

// GetProbe calls one adapter directly, bypassing every cache.
func (h *NewsHandler) GetProbe(c *gin.Context) {
	name := c.Param("adapter")
	adapter, ok := h.probes[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown adapter"})
		return
	}

	q, valid := news.SanitizeDefault(c.Query("q"))
	if !valid {
		q = category.DefaultBaseQuery
	}

	c.Header("Cache-Control", "no-store")

	started := h.now()
	ed, err := adapter.Fetch(c.Request.Context(), q)
	if err != nil {
		slog.Warn("probe failed", "adapter", name, "query", q, "error", err)
		ed = model.EmptyEdition()
	}

	c.JSON(http.StatusOK, ProbeResponse{
		Adapter:   name,
		Q:         q,
		Count:     ed.StoryCount(),
		ElapsedMs: h.now().Sub(started).Milliseconds(),
		Sections:  ed.Sections,
	})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"adapter": h.searcher.AdapterName(),
	})
}

func invalidResponse(q string) NewsResponse {
	return NewsResponse{
		Sections: []model.Section{},
		Debug:    DebugResponse{Q: q, Invalid: true},
	}
}

func newsResponse(ed model.Edition, fetchedAt int64, debug DebugResponse) NewsResponse {
	stamped := ed.WithFetchedAt(fetchedAt)
	return NewsResponse{
		Sections: stamped.Sections,
		Meta:     stamped.Meta,
		Debug:    debug,
	}
}

func fullURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
