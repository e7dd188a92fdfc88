// Package storage picks the ledger backend named in the configuration.
package storage

import (
	"context"
	"database/sql"
	"io"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"

	"github.com/sheikh-saqib/rental-ledger/internal/config"
	interfaces "github.com/sheikh-saqib/rental-ledger/internal/interfaces"
	"github.com/sheikh-saqib/rental-ledger/internal/storage/file"
	"github.com/sheikh-saqib/rental-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/rental-ledger/internal/storage/postgres"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured LedgerStore and a closer for whatever it holds open.
func Open(ctx context.Context, cfg config.App) (interfaces.LedgerStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return file.NewFileLedgerStore(cfg.LedgerDir), nopCloser{}, nil

	case config.DriverMemory:
		return memory.NewMemoryLedgerStore(), nopCloser{}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open postgres")
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, errors.Wrap(err, "ping postgres")
		}
		return postgres.NewPostgresLedgerStore(db), db, nil
	}

	return nil, nil, errors.Errorf("unknown ledger driver %q", cfg.Driver)
}
