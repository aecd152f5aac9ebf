package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/composer"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/ReyWins/happeningnow-news-core/internal/remote"
	"github.com/spf13/cobra"
)

type frontOptions struct {
	categories    string
	mode          string
	page          int
	bookmarksOnly bool
	retries       int
	asJSON        bool
}

func frontCmd(get func() *app) *cobra.Command {
	var opts frontOptions

	cmd := &cobra.Command{
		Use:   "front",
		Short: "Show the front page for the selected categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFront(cmd, get(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.categories, "categories", "", "comma-separated category ids to select (max 3)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(composer.ModeAll), `"all" or "bookmarks"`)
	cmd.Flags().IntVar(&opts.page, "page", 0, "page of more stories (default: last viewed)")
	cmd.Flags().BoolVar(&opts.bookmarksOnly, "bookmarks-only", false, "limit the page to bookmarked stories")
	cmd.Flags().IntVar(&opts.retries, "retries", 1, "reload attempts when a category fails to load")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the composed page as JSON")
	return cmd
}

func runFront(cmd *cobra.Command, a *app, opts frontOptions) error {
	ctx := cmd.Context()
	mode := composer.Mode(opts.mode)
	if mode != composer.ModeAll && mode != composer.ModeBookmarks {
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	var (
		ids []string
		err error
	)
	if cmd.Flags().Changed("categories") {
		ids, err = a.store.SelectCategories(a.registry, category.ParseIDs(opts.categories))
		if err == nil && len(ids) == 0 {
			ids, err = a.store.SelectedCategories(a.registry)
		}
	} else {
		ids, err = a.store.SelectedCategories(a.registry)
	}
	if err != nil {
		return err
	}

	page := a.store.Page(string(mode))
	if cmd.Flags().Changed("page") {
		page = opts.page
	}
	bookmarksOnly := composer.RestoreBookmarksOnly(mode, a.store.BookmarksOnly(string(mode)))
	if cmd.Flags().Changed("bookmarks-only") {
		bookmarksOnly = opts.bookmarksOnly
	}

	if n, err := a.bookmarks.Reconcile(); err != nil {
		slog.Warn("bookmark cleanup failed", "error", err)
	} else if n > 0 {
		slog.Info("bookmark snapshots pruned", "count", n)
	}
	saved := a.bookmarks.Stories()

	loader := remote.NewFrontLoader(a.client, a.store.FrontCache(), a.registry)
	input := composer.Input{
		CategoryIDs:   ids,
		Mode:          mode,
		Bookmarks:     saved,
		BookmarksOnly: bookmarksOnly,
		Page:          page,
	}

	fp, cards, err := loadAndCompose(ctx, loader, a.registry, input)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < opts.retries && hasState(cards, composer.CardError); attempt++ {
		slog.Info("retrying failed categories", "attempt", attempt+1)
		for i := range cards {
			if cards[i].State == composer.CardError {
				_ = cards[i].Retry()
			}
		}
		next, _, err := loadAndCompose(ctx, loader, a.registry, input)
		if err != nil {
			return err
		}
		settle(cards, next)
		fp = next
	}

	persistPage(a, mode, fp, bookmarksOnly && len(saved) > 0)

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fp)
	}
	renderPage(cmd.OutOrStdout(), fp)
	return nil
}

func loadAndCompose(ctx context.Context, loader *remote.FrontLoader, r *category.Registry, in composer.Input) (composer.FrontPage, []composer.Card, error) {
	loaded, err := loader.Load(ctx, r.NormalizeIDs(in.CategoryIDs), nil)
	if err != nil {
		return composer.FrontPage{}, nil, err
	}
	slog.Debug("front page loaded", "source", loaded.Source, "version", loaded.Version, "timed_out", loaded.TimedOut)
	in.Sections = loaded.Sections
	in.TimedOut = loaded.TimedOut
	fp := composer.Compose(r, in)
	return fp, composer.Cards(fp.Edition.Stories), nil
}

// settle resolves retried cards against a fresh page: a card whose
// category now has stories becomes ready, otherwise it fails again.
func settle(cards []composer.Card, fp composer.FrontPage) {
	first := make(map[string]model.Story)
	for _, s := range fp.Edition.Stories {
		if _, ok := first[s.Kicker]; !ok && !s.IsPlaceholder {
			first[s.Kicker] = s
		}
	}
	for i := range cards {
		if cards[i].State != composer.CardLoading {
			continue
		}
		if s, ok := first[cards[i].Story.Kicker]; ok {
			_ = cards[i].Resolve(s)
		} else {
			_ = cards[i].Fail()
		}
	}
}

func hasState(cards []composer.Card, state composer.CardState) bool {
	for _, c := range cards {
		if c.State == state {
			return true
		}
	}
	return false
}

func persistPage(a *app, mode composer.Mode, fp composer.FrontPage, bookmarksOnly bool) {
	for _, err := range []error{
		a.store.SetPage(string(mode), fp.Page),
		a.store.SetBookmarksOnly(string(mode), bookmarksOnly),
		a.store.SetStoryCount(fp.Visible),
		a.store.SetTopRowKickers(fp.TopKickers),
	} {
		if err != nil {
			slog.Warn("saving page state failed", "error", err)
		}
	}
}
