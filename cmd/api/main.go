package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/whatisthe411/the411/backend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logging.Default().Debug("no .env file loaded, using system environment only", "error", err)
	}

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		logging.Default().Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
