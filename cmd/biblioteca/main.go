package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sheikh-saqib/rental-ledger/internal/app"
	"github.com/sheikh-saqib/rental-ledger/internal/config"
	"github.com/sheikh-saqib/rental-ledger/internal/shell"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		app.NewLogger(config.App{}).Error("load config failed", "err", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := shell.New(a.Ledger, a.Catalog, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Info("shell stopped", "err", err)
	}
}
