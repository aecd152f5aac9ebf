package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func probeCmd(get func() *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "probe <adapter> [query]",
		Short: "Run one provider adapter on the server, bypassing caches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			p, err := get().client.Probe(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %q: %d stories in %dms (round trip %dms)\n", p.Adapter, p.Q, p.Count, p.ElapsedMs, elapsedMs(start))
			shown := 0
			for _, sec := range p.Sections {
				for _, s := range sec.Stories {
					if shown == limit {
						return nil
					}
					fmt.Fprintf(w, "  %3d  %s (%s)\n", s.Popularity, s.Title, s.Source)
					shown++
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "stories to print")
	return cmd
}
