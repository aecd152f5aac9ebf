package news

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

const finnhubSectionLabel = "Markets"

// FinnHubClient serves general market news, filtered locally by query.
type FinnHubClient struct {
	apiKey string
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string, httpClient *http.Client) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{apiKey: apiKey, client: client}
}

func (c *FinnHubClient) Name() string {
	return "finnhub"
}

func (c *FinnHubClient) Fetch(ctx context.Context, q string) (model.Edition, error) {
	if c.apiKey == "" {
		return model.EmptyEdition(), nil
	}

	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Edition{}, ctxErr
		}
		slog.Warn("finnhub fetch failed", "error", err)
		return model.EmptyEdition(), nil
	}

	filter := q
	if filter == defaultQuery {
		filter = ""
	}

	var stories []model.Story
	for _, item := range res {
		s := model.Story{
			Kicker:     finnhubSectionLabel,
			ImageFloat: model.FloatRight,
		}

		if item.Headline != nil {
			s.Title = *item.Headline
		}

		if item.Summary != nil {
			s.Summary = TrimSummary(*item.Summary)
		}

		if item.Url != nil {
			s.URL = *item.Url
		}

		if item.Image != nil {
			s.ImageURL = *item.Image
		}

		if item.Source != nil {
			s.Source = *item.Source
		}

		if item.Datetime != nil {
			s.PublishDate = time.Unix(*item.Datetime, 0).UTC().Format(time.RFC3339)
		}

		switch {
		case item.Id != nil:
			s.ID = "finnhub:" + strconv.FormatInt(*item.Id, 10)
		case s.URL != "":
			s.ID = "finnhub:" + generateExternalID(s.URL)
		default:
			continue
		}

		if !MatchesAny(s.Title+" "+s.Summary+" "+s.Source, filter) {
			continue
		}

		s.Popularity = clampPopularity(100 - len(stories))
		stories = append(stories, s)
	}

	return singleSection(finnhubSectionLabel, stories), nil
}
