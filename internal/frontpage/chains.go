package frontpage

import (
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/config"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

// Adapters holds the process-wide adapter instances. Nil entries are skipped.
type Adapters struct {
	GDELT   news.Adapter
	NewsAPI news.Adapter
	Mock    news.Adapter
	Finnhub news.Adapter
}

// CategoryChain is the provider order used for category builds. Mock mode
// uses the mock adapter alone; every other mode tries GDELT first and
// EventRegistry second under the fallback TTL. Finnhub, when configured,
// closes the chain for business.
func CategoryChain(mode string, a Adapters, fallbackTTL time.Duration) []Provider {
	if mode == config.AdapterMock {
		if a.Mock == nil {
			return nil
		}
		return []Provider{{Name: config.AdapterMock, Adapter: a.Mock}}
	}

	var chain []Provider
	if a.GDELT != nil {
		chain = append(chain, Provider{Name: config.AdapterGDELT, Adapter: a.GDELT})
	}
	if a.NewsAPI != nil {
		chain = append(chain, Provider{Name: config.AdapterNewsAPI, Adapter: a.NewsAPI, TTL: fallbackTTL})
	}
	if a.Finnhub != nil {
		chain = append(chain, Provider{Name: a.Finnhub.Name(), Adapter: a.Finnhub, Categories: []string{"business"}})
	}
	return chain
}

// SearchProviders picks the adapter for free-text queries and, in newsapi
// mode, GDELT as the fallback under the fallback TTL.
func SearchProviders(mode string, a Adapters, fallbackTTL time.Duration) (Provider, *Provider) {
	switch mode {
	case config.AdapterMock:
		return Provider{Name: config.AdapterMock, Adapter: a.Mock}, nil
	case config.AdapterGDELT:
		return Provider{Name: config.AdapterGDELT, Adapter: a.GDELT}, nil
	}
	primary := Provider{Name: config.AdapterNewsAPI, Adapter: a.NewsAPI}
	if a.GDELT == nil {
		return primary, nil
	}
	return primary, &Provider{Name: config.AdapterGDELT, Adapter: a.GDELT, TTL: fallbackTTL}
}
