// Package main is the interactive command-line client for the task tracker.
package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := config.LoadDotEnv(); err != nil {
		logger.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := client.LoadConfig()
	if err != nil {
		logger.Error("failed to load client config", "error", err)
		os.Exit(1)
	}

	store := client.NewFileStore(cfg.TokenFile)
	api := client.New(cfg.APIURL, store, cfg.HTTPTimeout, nil)

	session, err := client.NewSession(api, store)
	if err != nil {
		logger.Error("failed to restore session",
			slog.String("token_file", cfg.TokenFile),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(session, client.NewTaskView(api), bufio.NewReader(os.Stdin), os.Stdout)
	app.greet(ctx)
	runREPL(ctx, app)
}
