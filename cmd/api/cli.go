package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/whatisthe411/the411/backend/internal/config"
	"github.com/whatisthe411/the411/backend/internal/logging"
)

// options holds flag values that override the environment configuration.
type options struct {
	backend  string
	port     string
	logLevel string
}

func globalFlags(opts *options) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "Content backend base URL (overrides BACKEND_BASE_URL)",
			Destination: &opts.backend,
		},
		&cli.StringFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "Listen port or address (overrides PORT)",
			Destination: &opts.port,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level: debug, info, warn, error (overrides LOG_LEVEL)",
			Destination: &opts.logLevel,
		},
	}
}

func newCommand(w io.Writer) *cli.Command {
	var opts options

	serve := serveCommand(&opts)
	return &cli.Command{
		Name:   "the411",
		Usage:  "Content aggregation backend for the411",
		Writer: w,
		Flags:  globalFlags(&opts),
		Commands: []*cli.Command{
			serve,
			searchCommand(&opts),
		},
		Action: serve.Action,
	}
}

// loadConfig reads the environment and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load configuration")
	}

	if o.backend != "" {
		backend := cfg.Backend
		backend.BaseURL = o.backend
		if cfg.Backend, err = backend.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid --backend")
		}
	}
	if o.port != "" {
		if cfg.Server, err = config.ParseAddr(o.port); err != nil {
			return nil, goerr.Wrap(err, "invalid --port")
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// setupLogger installs the configured logger as default and on ctx.
func setupLogger(ctx context.Context, cfg *config.Config, w io.Writer) (context.Context, *slog.Logger) {
	logger := logging.New(strings.TrimSpace(cfg.Log.Level), w)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), logger
}
