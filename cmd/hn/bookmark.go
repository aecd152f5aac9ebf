package main

import (
	"fmt"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/model"
	"github.com/spf13/cobra"
)

func bookmarkCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage saved stories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved stories, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			items := get().bookmarks.Items()
			if len(items) == 0 {
				fmt.Fprintln(w, "No bookmarks yet. Go back to the front page and star a story.")
				return nil
			}
			for _, it := range items {
				saved := time.UnixMilli(it.SavedAt).Format(time.DateTime)
				fmt.Fprintf(w, "%s  [%s] %s\n    %s\n", saved, it.Kicker, it.Title, it.ID)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <story-id>",
		Short: "Save or unsave a story from a recently shown page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			story, ok := findStory(a, args[0])
			if !ok {
				return fmt.Errorf("story %s is not on a recent page; run hn front or hn search first", args[0])
			}
			saved, err := a.bookmarks.Toggle(story)
			if err != nil {
				return err
			}
			verb := "removed"
			if saved {
				verb = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, story.Title)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "gc",
		Short: "Drop snapshots of stories that are no longer saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := get().bookmarks.Reconcile()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d snapshot(s)\n", n)
			return nil
		},
	})
	return cmd
}

// findStory looks id up among saved snapshots and cached pages.
func findStory(a *app, id string) (model.Story, bool) {
	for _, s := range a.bookmarks.Stories() {
		if s.ID == id {
			return s, true
		}
	}
	for _, cache := range []*localstore.VersionedCache{a.store.FrontCache(), a.store.SearchCache()} {
		for _, e := range cache.Entries() {
			for _, sec := range e.Sections {
				for _, s := range sec.Stories {
					if s.ID == id && !s.IsPlaceholder {
						if s.Kicker == "" {
							s.Kicker = sec.Label
						}
						return s, true
					}
				}
			}
		}
	}
	return model.Story{}, false
}
