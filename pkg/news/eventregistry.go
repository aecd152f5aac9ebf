package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/cache"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

const (
	eventRegistryEndpoint = "https://eventregistry.org/api/v1/article/getArticles"
	erCacheTTL            = 30 * time.Minute
	erMaxKeywords         = 12
	erArticlesCount       = 30
	erLang                = "eng"
	erSectionLabel        = "Featured"
)

// EventRegistryClient is the "newsapi" adapter backed by EventRegistry.
type EventRegistryClient struct {
	apiKey     string
	httpClient *http.Client
	cache      *cache.TTLMap[model.Edition]
}

func NewEventRegistryClient(apiKey string, httpClient *http.Client, results *cache.TTLMap[model.Edition]) *EventRegistryClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if results == nil {
		results = cache.NewTTLMap[model.Edition](nil)
	}
	return &EventRegistryClient{apiKey: apiKey, httpClient: httpClient, cache: results}
}

func (c *EventRegistryClient) Name() string {
	return "newsapi"
}

func (c *EventRegistryClient) Fetch(ctx context.Context, q string) (model.Edition, error) {
	if c.apiKey == "" {
		slog.Info("eventregistry disabled, no api key")
		return model.EmptyEdition(), nil
	}

	raw := strings.TrimSpace(q)
	if raw == "" {
		raw = defaultQuery
	}
	kq := BuildKeywordQuery(raw, erMaxKeywords)
	slog.Info("eventregistry request", "raw", raw, "query", kq.Query, "base", kq.Base, "keyword_count", len(kq.Keywords))

	cacheKey := fmt.Sprintf("er:key=%s|q=%s|limit=%d|lang=%s", generateExternalID(c.apiKey), kq.Query, erArticlesCount, erLang)
	if ed, ok := c.cache.Get(cacheKey); ok {
		return ed, nil
	}

	articles, err := c.getArticles(ctx, kq.Query)
	if err == nil && len(articles) == 0 && kq.Base != "" {
		if retry := joinTerms(kq.Keywords); retry != "" {
			slog.Info("eventregistry retry without base", "query", retry)
			articles, err = c.getArticles(ctx, retry)
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Edition{}, ctxErr
		}
		slog.Warn("eventregistry fetch failed", "query", kq.Query, "error", err)
		return model.EmptyEdition(), nil
	}

	stories := make([]model.Story, 0, len(articles))
	for i, a := range articles {
		stories = append(stories, erStory(i, a))
	}

	ed := singleSection(erSectionLabel, stories)
	c.cache.Set(cacheKey, ed, erCacheTTL)
	slog.Info("eventregistry mapped", "query", kq.Query, "count", len(stories))
	return ed, nil
}

func (c *EventRegistryClient) getArticles(ctx context.Context, keyword string) ([]erArticle, error) {
	payload := erRequest{
		APIKey:        c.apiKey,
		Action:        "getArticles",
		ResultType:    "articles",
		ArticlesPage:  1,
		ArticlesCount: erArticlesCount,
		Query: erQuery{Query: erAnd{And: []map[string]string{
			{"keyword": keyword},
			{"lang": erLang},
		}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("eventregistry encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, eventRegistryEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("eventregistry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eventregistry fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw erResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("eventregistry status %d", resp.StatusCode)
	}
	if raw.Error != "" || raw.ErrorDescr != "" {
		return nil, fmt.Errorf("eventregistry error: %s %s", raw.Error, raw.ErrorDescr)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("eventregistry decode: %w", decodeErr)
	}
	return raw.Articles.Results, nil
}

func erStory(idx int, a erArticle) model.Story {
	id := fmt.Sprintf("newsapi:%d", idx)
	switch {
	case a.URL != "":
		id = "newsapi:" + a.URL
	case a.URI != "":
		id = "newsapi:" + a.URI
	}
	return model.Story{
		ID:          id,
		Source:      cleanText(firstNonEmpty(a.Source.Title, "NewsAPI.ai")),
		Kicker:      erSectionLabel,
		Title:       cleanText(firstNonEmpty(a.Title, "Untitled")),
		Summary:     "",
		URL:         a.URL,
		ImageURL:    a.Image,
		ImageFloat:  model.FloatRight,
		PublishDate: firstNonEmpty(a.DateTimePub, a.DateTime),
		Popularity:  clampPopularity(100 - idx),
	}
}

func cleanText(v string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(v, " "))
}

// KeywordQuery is a bounded keyword query for EventRegistry.
type KeywordQuery struct {
	Query    string
	Base     string
	Keywords []string
}

var termPattern = regexp.MustCompile(`"([^"]+)"|(\S+)`)

// BuildKeywordQuery turns a category or free-text query into space-joined
// terms. Category queries keep their base plus up to limit keywords;
// free text is split into quoted phrases and bare tokens, deduped and capped.
func BuildKeywordQuery(raw string, limit int) KeywordQuery {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return KeywordQuery{}
	}

	base, keywords := ParseCategoryQuery(raw)
	if len(keywords) == 0 {
		base = ""
		for _, m := range termPattern.FindAllStringSubmatch(StripBoolean(raw), -1) {
			keywords = append(keywords, firstNonEmpty(m[1], m[2]))
		}
	}
	keywords = MergeBy(keywords, func(k string) string { return strings.ToLower(strings.TrimSpace(k)) }, KeepFirst[string])
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}

	terms := append([]string{}, keywords...)
	if base != "" {
		terms = append([]string{base}, terms...)
	}
	query := joinTerms(terms)
	if query == "" {
		query = StripBoolean(raw)
	}
	return KeywordQuery{Query: query, Base: base, Keywords: keywords}
}

func joinTerms(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(t, " ") {
			t = `"` + t + `"`
		}
		quoted = append(quoted, t)
	}
	return strings.Join(quoted, " ")
}

type erRequest struct {
	APIKey        string  `json:"apiKey"`
	Action        string  `json:"action"`
	ResultType    string  `json:"resultType"`
	ArticlesPage  int     `json:"articlesPage"`
	ArticlesCount int     `json:"articlesCount"`
	Query         erQuery `json:"query"`
}

type erQuery struct {
	Query erAnd `json:"$query"`
}

type erAnd struct {
	And []map[string]string `json:"$and"`
}

type erResponse struct {
	Articles   erArticles `json:"articles"`
	Error      string     `json:"error"`
	ErrorDescr string     `json:"errorDescr"`
}

type erArticles struct {
	Results      []erArticle `json:"results"`
	TotalResults int         `json:"totalResults"`
	Page         int         `json:"page"`
	Pages        int         `json:"pages"`
}

type erArticle struct {
	URI         string   `json:"uri"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	DateTime    string   `json:"dateTime"`
	DateTimePub string   `json:"dateTimePub"`
	Image       string   `json:"image"`
	Source      erSource `json:"source"`
}

type erSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
