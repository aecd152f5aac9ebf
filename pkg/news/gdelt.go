package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	gdeltEndpoint     = "https://api.gdeltproject.org/api/v2/doc/doc"
	gdeltMaxRecords   = 90
	gdeltHalfLife     = 8.0
	gdeltEnrichLimit  = 4
	gdeltSectionLabel = "News"
	defaultQuery      = "United States"
)

type GDELTClient struct {
	httpClient *http.Client
	usOnly     bool
	scraper    *SummaryScraper
	now        func() time.Time
}

// NewGDELTClient builds the GDELT adapter. A nil scraper disables summary enrichment.
func NewGDELTClient(httpClient *http.Client, usOnly bool, scraper *SummaryScraper) *GDELTClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &GDELTClient{
		httpClient: httpClient,
		usOnly:     usOnly,
		scraper:    scraper,
		now:        time.Now,
	}
}

func (c *GDELTClient) Name() string {
	return "gdelt"
}

func (c *GDELTClient) Fetch(ctx context.Context, q string) (model.Edition, error) {
	query := strings.TrimSpace(q)
	if query == "" {
		query = defaultQuery
	}

	articles, err := c.search(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Edition{}, ctxErr
		}
		slog.Warn("gdelt fetch failed", "query", query, "error", err)
		return singleSection(gdeltSectionLabel, nil), nil
	}

	if c.usOnly {
		kept := articles[:0]
		for _, a := range articles {
			if isUSArticle(a) && isEnglishArticle(a) {
				kept = append(kept, a)
			}
		}
		articles = kept
	}

	titleCounts := make(map[string]int, len(articles))
	for _, a := range articles {
		if key := NormalizeTitle(a.Title); key != "" {
			titleCounts[key]++
		}
	}

	now := c.now()
	stories := make([]model.Story, 0, len(articles))
	for i, a := range articles {
		stories = append(stories, c.toStory(i, a, titleCounts, now))
	}
	stories = DedupeStories(stories)

	if c.scraper != nil {
		c.enrich(ctx, stories)
	}

	slog.Info("gdelt articles", "query", query, "returned", len(articles), "mapped", len(stories))
	return singleSection(gdeltSectionLabel, stories), nil
}

func (c *GDELTClient) search(ctx context.Context, query string) ([]gdeltArticle, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprint(gdeltMaxRecords))
	params.Set("mode", "ArtList")
	params.Set("sort", "DateDesc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gdeltEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gdelt request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdelt fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gdelt read: %w", err)
	}

	// GDELT answers rate limits and bad queries with plain text.
	var raw gdeltResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		slog.Warn("gdelt decode failed", "query", query, "status", resp.StatusCode, "error", err)
		return nil, nil
	}
	return raw.Articles, nil
}

func (c *GDELTClient) toStory(idx int, a gdeltArticle, titleCounts map[string]int, now time.Time) model.Story {
	id := fmt.Sprintf("gdelt:%d", idx)
	if a.URL != "" {
		id = "gdelt:" + a.URL
	}
	source := firstNonEmpty(a.SourceCommonName, a.Domain, "GDELT")
	title := firstNonEmpty(a.Title, "Untitled")

	publishDate := ""
	if t := model.ParseDate(a.SeenDate); !t.IsZero() {
		publishDate = t.UTC().Format(time.RFC3339)
	}

	return model.Story{
		ID:          id,
		Source:      source,
		Kicker:      gdeltSectionLabel,
		Title:       title,
		Summary:     "",
		URL:         a.URL,
		ImageURL:    a.SocialImage,
		ImageFloat:  model.FloatRight,
		PublishDate: publishDate,
		Popularity:  gdeltPopularity(a, titleCounts, now),
	}
}

// enrich fills summaries for the most popular stories in place.
func (c *GDELTClient) enrich(ctx context.Context, stories []model.Story) {
	var idx []int
	for i, s := range stories {
		if s.URL != "" {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return stories[idx[a]].Popularity > stories[idx[b]].Popularity
	})
	if len(idx) > gdeltEnrichLimit {
		idx = idx[:gdeltEnrichLimit]
	}

	summaries := make([]string, len(idx))
	var g errgroup.Group
	for n, i := range idx {
		g.Go(func() error {
			summaries[n] = c.scraper.Summary(ctx, stories[i].URL)
			return nil
		})
	}
	_ = g.Wait()

	for n, i := range idx {
		if summaries[n] != "" {
			stories[i].Summary = summaries[n]
		}
	}
}

// gdeltPopularity blends recency (8h half-life), duplicate-title clustering
// and source trust into a 0..100 score.
func gdeltPopularity(a gdeltArticle, titleCounts map[string]int, now time.Time) int {
	recency := 0.0
	if seen := model.ParseDate(a.SeenDate); !seen.IsZero() {
		age := now.Sub(seen).Hours()
		if age < 0 {
			age = 0
		}
		recency = math.Exp(-age / gdeltHalfLife)
	}

	cluster := 1
	if key := NormalizeTitle(a.Title); key != "" {
		if n, ok := titleCounts[key]; ok {
			cluster = n
		}
	}
	clusterScore := math.Min(1, math.Max(0, float64(cluster-1)/4))

	score := 100 * (0.6*recency + 0.25*clusterScore + 0.15*sourceScore(a))
	return clampPopularity(int(math.Round(score)))
}

func sourceScore(a gdeltArticle) float64 {
	if _, ok := usSourceHints[NormalizeKey(a.SourceCommonName)]; ok {
		return 1
	}
	domain := strings.ToLower(strings.TrimSpace(a.Domain))
	if MatchesDomain(domain, preferredDomains) {
		return 0.8
	}
	if isUSTLD(domain) {
		return 0.7
	}
	return 0.4
}

func isUSTLD(domain string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(domain)), ".us")
}

func isUSArticle(a gdeltArticle) bool {
	country := strings.ToLower(a.SourceCountry)
	if country == "us" || country == "usa" || strings.Contains(country, "united states") {
		return true
	}
	if isUSTLD(a.Domain) {
		return true
	}
	_, ok := usSourceHints[NormalizeKey(a.SourceCommonName)]
	return ok
}

func isEnglishArticle(a gdeltArticle) bool {
	lang := strings.ToLower(a.Language)
	return lang == "english" || strings.HasPrefix(lang, "en")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	URL              string `json:"url"`
	Title            string `json:"title"`
	SeenDate         string `json:"seendate"`
	SourceCountry    string `json:"sourcecountry"`
	Domain           string `json:"domain"`
	Language         string `json:"language"`
	SocialImage      string `json:"socialimage"`
	SourceCommonName string `json:"sourcecommonname"`
}
