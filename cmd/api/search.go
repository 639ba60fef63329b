package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/fetch"
	"github.com/whatisthe411/the411/backend/internal/service/search"
	"github.com/whatisthe411/the411/backend/internal/service/session"
)

func searchCommand(opts *options) *cli.Command {
	var (
		query string
		limit int64
	)

	return &cli.Command{
		Name:  "search",
		Usage: "Fetch every collection once and print records matching a query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "Case-insensitive text to look for",
				Destination: &query,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"l"},
				Usage:       "Maximum number of results (0 for all)",
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx, _ = setupLogger(ctx, cfg, os.Stderr)

			store := content.NewStore()
			sess := session.New(store, fetch.New(cfg.Backend))
			sess.Start(ctx)
			defer sess.Close()
			if err := sess.Wait(ctx); err != nil {
				return err
			}

			hits := search.Limit(search.New(store).Search(query), int(limit))
			w := c.Root().Writer
			for _, hit := range hits {
				fmt.Fprintf(w, "%s/%s\t%s\n", hit.Collection, hit.Record.ID, title(hit.Record))
			}
			fmt.Fprintf(w, "%d result(s)\n", len(hits))
			return nil
		},
	}
}

func title(rec content.Record) string {
	for _, field := range []string{"title", "name", "caption"} {
		if s, ok := rec.Text(field); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "(untitled)"
}
