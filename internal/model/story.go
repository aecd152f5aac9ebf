package model

import (
	"strings"
	"time"
)

const (
	FloatLeft  = "left"
	FloatRight = "right"

	PlaceholderLoading = "loading"
	PlaceholderMissing = "missing"
	PlaceholderError   = "error"

	FrontPageLabel = "Front Page"
)

type Story struct {
	ID               string `json:"id"`
	Source           string `json:"source,omitempty"`
	Kicker           string `json:"kicker"`
	Title            string `json:"title"`
	Summary          string `json:"summary"`
	URL              string `json:"url,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ImageFloat       string `json:"imageFloat,omitempty"`
	PublishDate      string `json:"publishDate,omitempty"`
	PageRef          string `json:"pageRef,omitempty"`
	Featured         bool   `json:"featured,omitempty"`
	Popularity       int    `json:"popularity,omitempty"`
	IsPlaceholder    bool   `json:"isPlaceholder,omitempty"`
	PlaceholderState string `json:"placeholderState,omitempty"`
	Breaking         bool   `json:"breaking,omitempty"`
}

// PublishedAt parses PublishDate. Unparseable or empty dates yield the zero time.
func (s Story) PublishedAt() time.Time {
	return ParseDate(s.PublishDate)
}

// HasPrefix reports whether the story id is namespaced by the given provider.
func (s Story) HasPrefix(provider string) bool {
	return strings.HasPrefix(s.ID, provider+":")
}

type Section struct {
	Label      string  `json:"label"`
	CategoryID string  `json:"categoryId,omitempty"`
	Stories    []Story `json:"stories"`
}

type Edition struct {
	Meta     map[string]any `json:"meta,omitempty"`
	Sections []Section      `json:"sections"`
}

// EmptyEdition is what adapters return when a provider has nothing usable.
func EmptyEdition() Edition {
	return Edition{Sections: []Section{}}
}

// FirstStories returns the stories of the first section, or nil.
func (e Edition) FirstStories() []Story {
	if len(e.Sections) == 0 {
		return nil
	}
	return e.Sections[0].Stories
}

// StoryCount sums stories across all sections.
func (e Edition) StoryCount() int {
	n := 0
	for _, s := range e.Sections {
		n += len(s.Stories)
	}
	return n
}

// FetchedAt returns meta.fetchedAt in epoch milliseconds, or 0.
func (e Edition) FetchedAt() int64 {
	if e.Meta == nil {
		return 0
	}
	switch v := e.Meta["fetchedAt"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// WithFetchedAt returns a copy whose meta carries the given version stamp.
func (e Edition) WithFetchedAt(ms int64) Edition {
	meta := make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta["fetchedAt"] = ms
	sections := e.Sections
	if sections == nil {
		sections = []Section{}
	}
	return Edition{Meta: meta, Sections: sections}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"20060102T150405Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the date shapes seen across providers.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
