// Package news turns raw provider responses into editions of stories.
package news

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

// Adapter fetches one edition for a free-text or boolean query. Provider
// faults are logged and reported as an empty edition; the only error an
// adapter returns is the context's.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q string) (model.Edition, error)
}

// AdapterFunc lets a plain function satisfy Adapter.
type AdapterFunc struct {
	AdapterName string
	Fn          func(ctx context.Context, q string) (model.Edition, error)
}

func (f AdapterFunc) Name() string { return f.AdapterName }

func (f AdapterFunc) Fetch(ctx context.Context, q string) (model.Edition, error) {
	return f.Fn(ctx, q)
}

func singleSection(label string, stories []model.Story) model.Edition {
	if stories == nil {
		stories = []model.Story{}
	}
	return model.Edition{Sections: []model.Section{{Label: label, Stories: stories}}}
}

func clampPopularity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func generateExternalID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}
