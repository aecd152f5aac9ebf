package news

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

//go:embed data/mock_news.json
var mockNewsJSON []byte

// MockAdapter serves a static dataset filtered by query.
type MockAdapter struct {
	edition model.Edition
}

func NewMockAdapter() (*MockAdapter, error) {
	return NewMockAdapterFromJSON(mockNewsJSON)
}

func NewMockAdapterFromJSON(data []byte) (*MockAdapter, error) {
	var ed model.Edition
	if err := json.Unmarshal(data, &ed); err != nil {
		return nil, fmt.Errorf("mock dataset decode: %w", err)
	}
	return &MockAdapter{edition: ed}, nil
}

func (m *MockAdapter) Name() string {
	return "mock"
}

func (m *MockAdapter) Fetch(ctx context.Context, q string) (model.Edition, error) {
	if err := ctx.Err(); err != nil {
		return model.Edition{}, err
	}

	sections := make([]model.Section, 0, len(m.edition.Sections))
	for _, sec := range m.edition.Sections {
		var stories []model.Story
		for _, s := range sec.Stories {
			hay := sec.Label + " " + s.Kicker + " " + s.Title + " " + s.Summary
			if MatchesAny(hay, q) {
				stories = append(stories, s)
			}
		}
		if len(stories) == 0 {
			continue
		}
		sections = append(sections, model.Section{Label: sec.Label, CategoryID: sec.CategoryID, Stories: stories})
	}

	meta := make(map[string]any, len(m.edition.Meta))
	for k, v := range m.edition.Meta {
		meta[k] = v
	}
	return model.Edition{Meta: meta, Sections: sections}, nil
}
