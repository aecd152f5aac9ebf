// Package category maps reader-selected categories to provider queries and
// classifies arbitrary stories back into categories.
package category

import (
	"fmt"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/pkg/news"
)

const DefaultBaseQuery = "United States"

type Registry struct {
	categories []model.Category
	byID       map[string]model.Category
	byLabel    map[string]model.Category
	defaults   []string
}

// NewRegistry indexes categories by id and by normalized label. Unknown
// default ids are dropped; if none survive, the first categories are used.
func NewRegistry(categories []model.Category, defaults []string) (*Registry, error) {
	r := &Registry{
		byID:    make(map[string]model.Category, len(categories)),
		byLabel: make(map[string]model.Category, len(categories)),
	}
	for _, c := range categories {
		c.ID = strings.ToLower(strings.TrimSpace(c.ID))
		if c.ID == "" {
			return nil, fmt.Errorf("category %q has no id", c.Label)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		if strings.TrimSpace(c.Label) == "" {
			c.Label = c.ID
		}
		r.categories = append(r.categories, c)
		r.byID[c.ID] = c
		r.byLabel[news.NormalizeKey(c.Label)] = c
	}

	r.defaults = r.NormalizeIDs(defaults)
	if len(r.defaults) == 0 {
		for i := 0; i < len(r.categories) && i < model.MaxSelected; i++ {
			r.defaults = append(r.defaults, r.categories[i].ID)
		}
	}
	return r, nil
}

// MustDefault is the built-in registry.
func MustDefault() *Registry {
	r, err := NewRegistry(Defaults, DefaultIDs)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) All() []model.Category {
	return append([]model.Category(nil), r.categories...)
}

func (r *Registry) DefaultIDs() []string {
	return append([]string(nil), r.defaults...)
}

func (r *Registry) ByID(id string) (model.Category, bool) {
	c, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	return c, ok
}

// ByLabel matches case- and punctuation-insensitively.
func (r *Registry) ByLabel(label string) (model.Category, bool) {
	c, ok := r.byLabel[news.NormalizeKey(label)]
	return c, ok
}

// Label falls back to the id itself for unknown categories.
func (r *Registry) Label(id string) string {
	if c, ok := r.ByID(id); ok {
		return c.Label
	}
	return id
}

func (r *Registry) Labels(ids []string) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, r.Label(id))
	}
	return labels
}

// NormalizeIDs trims, lowercases and dedupes ids, keeps known ones and caps at MaxSelected.
func (r *Registry) NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, model.MaxSelected)
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, known := r.byID[id]; !known {
			continue
		}
		out = append(out, id)
		if len(out) == model.MaxSelected {
			break
		}
	}
	return out
}

// ParseIDs splits a comma-separated categories parameter.
func ParseIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func quoteTerm(term string) string {
	term = strings.TrimSpace(term)
	if strings.Contains(term, " ") {
		return `"` + term + `"`
	}
	return term
}

// BuildQuery renders `<base> AND (kw1 OR "kw two" ...)`. Without keywords it
// degrades to `<base> <label>`.
func (r *Registry) BuildQuery(id, base string) string {
	base = strings.TrimSpace(base)
	label := r.Label(id)
	c, _ := r.ByID(id)

	var hints []string
	for _, kw := range c.Keywords {
		if q := quoteTerm(kw); q != "" {
			hints = append(hints, q)
		}
	}
	if len(hints) == 0 {
		return strings.TrimSpace(strings.Join(nonEmpty(base, label), " "))
	}

	clause := quoteTerm(base)
	if clause == "" {
		clause = label
	}
	group := "(" + strings.Join(hints, " OR ") + ")"
	if clause == "" {
		return group
	}
	return clause + " AND " + group
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
