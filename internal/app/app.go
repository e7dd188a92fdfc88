// Package app wires configuration, storage, events and the ledger together.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sheikh-saqib/rental-ledger/internal/catalog"
	"github.com/sheikh-saqib/rental-ledger/internal/config"
	"github.com/sheikh-saqib/rental-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/rental-ledger/internal/ledger"
	"github.com/sheikh-saqib/rental-ledger/internal/storage"
)

type App struct {
	Ledger  *ledger.Ledger
	Catalog *catalog.Catalog
	Logger  *slog.Logger

	closers []io.Closer
}

// NewLogger writes JSON logs to stderr so the interactive shell keeps stdout.
func NewLogger(cfg config.App) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// New opens the store, bootstraps the ledger and takes books with an open
// rental off the shelf.
func New(ctx context.Context, cfg config.App, logger *slog.Logger) (*App, error) {
	store, storeCloser, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Logger: logger, closers: []io.Closer{storeCloser}}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		a.closers = append(a.closers, publisher)
		opts = append(opts, ledger.WithPublisher(publisher))
	}
	a.Ledger = ledger.NewLedger(store, opts...)

	if err := a.Ledger.Bootstrap(ctx); err != nil {
		a.Close()
		return nil, err
	}

	active, err := a.Ledger.ActiveRentals(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = catalog.Default()
	a.Catalog.Reconcile(active)

	logger.Info("ledger ready", "driver", cfg.Driver, "active_rentals", len(active))
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Logger.Warn("close failed", "err", err)
		}
	}
}
