// Package remote talks to the news API server on behalf of the client.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/google/uuid"
)

// LoadTimeout bounds a front-page request.
const LoadTimeout = 60 * time.Second

// ErrTimeout means the server did not answer within the load timeout. It is
// distinct from the caller cancelling.
var ErrTimeout = errors.New("front page request timed out")

type Category struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Default  bool     `json:"default"`
}

type Categories struct {
	Categories  []Category `json:"categories"`
	DefaultIDs  []string   `json:"defaultIds"`
	MaxSelected int        `json:"maxSelected"`
}

type Probe struct {
	Adapter   string          `json:"adapter"`
	Q         string          `json:"q"`
	Count     int             `json:"count"`
	ElapsedMs int64           `json:"elapsedMs"`
	Sections  []model.Section `json:"sections"`
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	loadTimeout time.Duration
}

type Option func(*Client)

func WithLoadTimeout(d time.Duration) Option {
	return func(c *Client) { c.loadTimeout = d }
}

func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		loadTimeout: LoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FrontPage fetches the categorized edition for ids.
func (c *Client) FrontPage(ctx context.Context, ids []string) (model.Edition, error) {
	tctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	params := url.Values{}
	if len(ids) > 0 {
		params.Set("categories", strings.Join(ids, ","))
	}
	var ed model.Edition
	err := c.getJSON(tctx, "/api/news.json", params, &ed)
	if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return model.Edition{}, ErrTimeout
	}
	return ed, err
}

// Search runs a plain query without category routing or fallback.
func (c *Client) Search(ctx context.Context, q string) (model.Edition, error) {
	var ed model.Edition
	err := c.getJSON(ctx, "/api/news/"+url.PathEscape(q)+".json", nil, &ed)
	return ed, err
}

func (c *Client) Categories(ctx context.Context) (Categories, error) {
	var out Categories
	err := c.getJSON(ctx, "/api/categories", nil, &out)
	return out, err
}

// Probe asks the server to run one adapter directly.
func (c *Client) Probe(ctx context.Context, adapter, q string) (Probe, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	var out Probe
	err := c.getJSON(ctx, "/api/probe/"+url.PathEscape(adapter), params, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
