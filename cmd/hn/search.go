package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ReyWins/happeningnow-news-core/internal/composer"
	"github.com/ReyWins/happeningnow-news-core/internal/search"
	"github.com/spf13/cobra"
)

func searchCmd(get func() *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stories and sort them into the selected categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			q := strings.Join(args, " ")

			ctl := search.NewController(a.client, a.store.SearchCache())
			defer ctl.Close()

			ctl.Set(q)
			if err := a.store.SetSearchQuery(q); err != nil {
				return err
			}
			snap, err := ctl.Wait(cmd.Context())
			if err != nil {
				return err
			}
			if snap.State == search.StateIdle {
				return fmt.Errorf("invalid query %q: use 2-25 letters, digits, spaces or dashes", q)
			}

			ids, err := a.store.SelectedCategories(a.registry)
			if err != nil {
				return err
			}
			fp := composer.Compose(a.registry, composer.Input{
				Search:      snap.Sections,
				CategoryIDs: ids,
				Mode:        composer.ModeAll,
				Message:     snap.Message,
			})
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fp)
			}
			renderPage(cmd.OutOrStdout(), fp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the composed page as JSON")
	return cmd
}
