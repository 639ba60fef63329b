package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/whatisthe411/the411/backend/internal/config"
	"github.com/whatisthe411/the411/backend/internal/handler"
	"github.com/whatisthe411/the411/backend/internal/logging"
	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/fetch"
	"github.com/whatisthe411/the411/backend/internal/service/newsletter"
	"github.com/whatisthe411/the411/backend/internal/service/session"
)

func serveCommand(opts *options) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Fetch every collection and serve the HTTP API",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx, logger := setupLogger(ctx, cfg, os.Stdout)

			sess := session.New(content.NewStore(), fetch.New(cfg.Backend))
			sess.Start(ctx)
			defer sess.Close()
			logger.Info("content session started", "session", sess.ID(), "backend", cfg.Backend.BaseURL)

			var provider newsletter.Provider
			if cfg.Newsletter.Enabled() {
				httpProvider, err := newsletter.NewHTTPProvider(cfg.Newsletter)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize newsletter provider")
				}
				provider = httpProvider
				logger.Info("newsletter provider initialized", "endpoint", httpProvider.Endpoint())
			} else {
				logger.Warn("NEWSLETTER_URL not configured, newsletter signup disabled")
			}

			router := handler.NewRouter(sess.Store(), newsletter.NewService(provider))
			return startServer(ctx, cfg.Server, router)
		},
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logging.From(ctx).Info("the411 backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		return goerr.Wrap(err, "server error", goerr.V("addr", addr))
	}
	return nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
