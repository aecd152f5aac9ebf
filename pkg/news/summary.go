package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/cache"
	"golang.org/x/net/html"
)

const (
	summaryCacheTTL     = 15 * time.Minute
	summaryFetchTimeout = 1500 * time.Millisecond
	summaryMaxLength    = 220
	summaryRangeBytes   = 60_000
)

// SummaryScraper pulls a short description out of an article page's meta tags.
type SummaryScraper struct {
	httpClient *http.Client
	cache      *cache.TTLMap[string]
	timeout    time.Duration
}

func NewSummaryScraper(httpClient *http.Client, summaries *cache.TTLMap[string]) *SummaryScraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if summaries == nil {
		summaries = cache.NewTTLMap[string](nil)
	}
	return &SummaryScraper{httpClient: httpClient, cache: summaries, timeout: summaryFetchTimeout}
}

// Summary returns "" on any failure; enrichment is best effort.
func (s *SummaryScraper) Summary(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}
	if v, ok := s.cache.Get(pageURL); ok {
		return v
	}

	summary, err := s.fetch(ctx, pageURL)
	if err != nil {
		slog.Debug("summary fetch failed", "url", pageURL, "error", err)
		return ""
	}
	if summary != "" {
		s.cache.Set(pageURL, summary, summaryCacheTTL)
	}
	return summary
}

func (s *SummaryScraper) fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", summaryRangeBytes))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, summaryRangeBytes+1))
	if err != nil {
		return "", err
	}
	return TrimSummary(ExtractMetaDescription(string(body))), nil
}

var metaPriority = []string{"og:description", "description", "twitter:description"}

// ExtractMetaDescription returns the first non-empty description among
// og:description, description and twitter:description, in that order.
func ExtractMetaDescription(page string) string {
	found := make(map[string]string, len(metaPriority))
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.Data == "body" {
			break
		}
		if tok.Data != "meta" {
			continue
		}
		var name, content string
		for _, a := range tok.Attr {
			switch strings.ToLower(a.Key) {
			case "property", "name":
				name = strings.ToLower(strings.TrimSpace(a.Val))
			case "content":
				content = a.Val
			}
		}
		if name != "" && content != "" {
			if _, seen := found[name]; !seen {
				found[name] = content
			}
		}
	}

	for _, key := range metaPriority {
		if v := cleanDescription(found[key]); v != "" {
			return v
		}
	}
	return ""
}

var punctuationFolds = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
	"\u00a0", " ",
)

func cleanDescription(v string) string {
	v = punctuationFolds.Replace(v)
	v = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return ' '
		}
		return r
	}, v)
	return strings.TrimSpace(spacePattern.ReplaceAllString(v, " "))
}

// TrimSummary caps a description at 220 characters with an ellipsis.
func TrimSummary(v string) string {
	clean := strings.TrimSpace(spacePattern.ReplaceAllString(v, " "))
	if len(clean) <= summaryMaxLength {
		return clean
	}
	return strings.TrimSpace(clean[:summaryMaxLength]) + "…"
}
