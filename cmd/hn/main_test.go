package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/composer"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := category.MustDefault()
	published := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/news.json", func(w http.ResponseWriter, r *http.Request) {
		var sections []model.Section
		for _, id := range category.ParseIDs(r.URL.Query().Get("categories")) {
			sec := model.Section{Label: registry.Label(id), CategoryID: id}
			for i := 0; i < 10; i++ {
				sec.Stories = append(sec.Stories, model.Story{
					ID:          fmt.Sprintf("gdelt:%s-%d", id, i),
					Title:       fmt.Sprintf("%s story %d", id, i),
					Source:      "Example Wire",
					PublishDate: published,
					Popularity:  100 - i*10,
				})
			}
			sections = append(sections, sec)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sections": sections,
			"meta":     map[string]any{"fetchedAt": time.Now().UnixMilli()},
		})
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"categories":  []map[string]any{{"id": "tech", "label": "Technology", "keywords": []string{"ai"}}},
			"defaultIds":  []string{"tech"},
			"maxSelected": 3,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFrontJSON(t *testing.T) {
	srv := newsServer(t)

	out, err := run(t, "--api", srv.URL, "--store", memoryStore, "front", "--categories", "tech,sports,health", "--json")
	assert.Equal(t, nil, err)

	var fp composer.FrontPage
	assert.Equal(t, nil, json.Unmarshal([]byte(out), &fp))
	assert.Equal(t, 3, len(fp.Top))
	assert.Equal(t, []string{"Technology", "Sports", "Health"}, []string{fp.Top[0].Kicker, fp.Top[1].Kicker, fp.Top[2].Kicker})
	assert.Equal(t, 3, len(fp.Columns))

	seen := make(map[string]bool)
	for _, s := range append(append([]model.Story{}, fp.Top...), fp.More...) {
		assert.Equal(t, false, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestFrontRendersText(t *testing.T) {
	srv := newsServer(t)

	out, err := run(t, "--api", srv.URL, "--store", memoryStore, "front", "--categories", "tech")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(out, "== TOP STORIES =="))
	assert.Equal(t, true, strings.Contains(out, "[Technology] tech story 0"))
}

func TestFrontRejectsUnknownMode(t *testing.T) {
	srv := newsServer(t)

	_, err := run(t, "--api", srv.URL, "--store", memoryStore, "front", "--mode", "sideways")
	assert.NotEqual(t, nil, err)
}

func TestBookmarkAcrossRuns(t *testing.T) {
	srv := newsServer(t)
	store := filepath.Join(t.TempDir(), "state.db")

	_, err := run(t, "--api", srv.URL, "--store", store, "front", "--categories", "tech")
	assert.Equal(t, nil, err)

	out, err := run(t, "--api", srv.URL, "--store", store, "bookmark", "toggle", "gdelt:tech-3")
	assert.Equal(t, nil, err)
	assert.Equal(t, "saved: tech story 3\n", out)

	out, err = run(t, "--api", srv.URL, "--store", store, "bookmark", "list")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(out, "[Technology] tech story 3"))

	out, err = run(t, "--api", srv.URL, "--store", store, "bookmark", "toggle", "gdelt:tech-3")
	assert.Equal(t, nil, err)
	assert.Equal(t, "removed: tech story 3\n", out)

	_, err = run(t, "--api", srv.URL, "--store", store, "bookmark", "toggle", "gdelt:nowhere")
	assert.NotEqual(t, nil, err)
}

func TestCategoriesMarksSelection(t *testing.T) {
	srv := newsServer(t)
	store := filepath.Join(t.TempDir(), "state.db")

	out, err := run(t, "--api", srv.URL, "--store", store, "categories", "set", "tech,bogus")
	assert.Equal(t, nil, err)
	assert.Equal(t, "selected: Technology\n", out)

	out, err = run(t, "--api", srv.URL, "--store", store, "categories")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.HasPrefix(out, "* tech"))
}
