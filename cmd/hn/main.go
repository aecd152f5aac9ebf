// hn is the terminal client for the news API: it composes the front page,
// runs searches, and keeps bookmarks in a local store.
//
// Usage:
//
//	hn front --categories tech,sports,health
//	hn search btc price
//	hn bookmark toggle <story-id>
//	hn probe gdelt vaccine
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/bookmarks"
	"github.com/ReyWins/happeningnow-news-core/internal/category"
	"github.com/ReyWins/happeningnow-news-core/internal/config"
	"github.com/ReyWins/happeningnow-news-core/internal/localstore"
	"github.com/ReyWins/happeningnow-news-core/internal/remote"
	"github.com/spf13/cobra"
)

// memoryStore keeps state for the life of one command only.
const memoryStore = "memory"

type app struct {
	cfg       *config.ClientConfig
	registry  *category.Registry
	store     *localstore.Store
	client    *remote.Client
	bookmarks *bookmarks.Bookmarks
	close     func() error
}

func newApp(cfg *config.ClientConfig) (*app, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	var backend localstore.Storage
	closeFn := func() error { return nil }
	if cfg.StorePath == memoryStore {
		backend = localstore.NewMemory()
	} else {
		db, err := localstore.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		backend, closeFn = db, db.Close
	}

	store := localstore.New(backend)
	return &app{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		client:    remote.NewClient(cfg.APIURL, &http.Client{Timeout: 2 * remote.LoadTimeout}),
		bookmarks: bookmarks.New(store),
		close:     closeFn,
	}, nil
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	cfg := config.LoadClient()
	var a *app

	root := &cobra.Command{
		Use:           "hn",
		Short:         "Happening Now front page in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
			var err error
			a, err = newApp(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.close()
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&cfg.APIURL, "api", cfg.APIURL, "news API base URL (HN_API_URL)")
	root.PersistentFlags().StringVar(&cfg.StorePath, "store", cfg.StorePath, `local state database, or "memory" (HN_STORE)`)

	get := func() *app { return a }
	root.AddCommand(frontCmd(get))
	root.AddCommand(searchCmd(get))
	root.AddCommand(bookmarkCmd(get))
	root.AddCommand(categoriesCmd(get))
	root.AddCommand(probeCmd(get))
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
