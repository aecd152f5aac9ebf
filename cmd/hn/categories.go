package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/spf13/cobra"
)

func categoriesCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories offered by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			cats, err := a.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			selected, err := a.store.SelectedCategories(a.registry)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range cats.Categories {
				mark := " "
				if slices.Contains(selected, c.ID) {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %-14s %-16s %s\n", mark, c.ID, c.Label, strings.Join(c.Keywords, ", "))
			}
			fmt.Fprintf(w, "\nselect up to %d with: hn categories set <id,id,id>\n", cats.MaxSelected)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <ids>",
		Short: "Select categories for the front page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ids, err := a.store.SelectCategories(a.registry, category.ParseIDs(args[0]))
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no known category in %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "selected: %s\n", strings.Join(a.registry.Labels(ids), ", "))
			return nil
		},
	})
	return cmd
}
