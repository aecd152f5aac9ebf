package news

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestMockAdapterFullDataset(t *testing.T) {
	m, err := NewMockAdapter()
	assert.Equal(t, nil, err)

	ed, err := m.Fetch(context.Background(), "")

	assert.Equal(t, nil, err)
	assert.Equal(t, "mock", m.Name())
	assert.Equal(t, 5, len(ed.Sections))
	assert.Equal(t, "Global Affairs", ed.Sections[0].Label)
	assert.Equal(t, "global", ed.Sections[0].CategoryID)
	assert.Equal(t, "mock", ed.Meta["edition"])
}

func TestMockAdapterFiltersByQuery(t *testing.T) {
	m, err := NewMockAdapter()
	assert.Equal(t, nil, err)

	ed, err := m.Fetch(context.Background(), "chip")

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(ed.Sections))
	assert.Equal(t, "Technology", ed.Sections[0].Label)
	assert.Equal(t, 2, len(ed.Sections[0].Stories))
}

func TestMockAdapterBooleanQuery(t *testing.T) {
	m, err := NewMockAdapter()
	assert.Equal(t, nil, err)

	ed, err := m.Fetch(context.Background(), `"United States" AND (vaccine OR playoff)`)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, ed.StoryCount())
}

func TestMockAdapterMetaIsCopied(t *testing.T) {
	m, err := NewMockAdapterFromJSON([]byte(`{"meta":{"k":"v"},"sections":[{"label":"A","stories":[{"id":"mock:1","kicker":"A","title":"t","summary":""}]}]}`))
	assert.Equal(t, nil, err)

	ed, _ := m.Fetch(context.Background(), "")
	ed.Meta["k"] = "changed"

	again, _ := m.Fetch(context.Background(), "")
	assert.Equal(t, "v", again.Meta["k"])
}

func TestMockAdapterBadJSON(t *testing.T) {
	_, err := NewMockAdapterFromJSON([]byte("{"))
	assert.NotEqual(t, nil, err)
}
