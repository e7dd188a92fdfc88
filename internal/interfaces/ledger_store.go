package interfaces

import (
	"context"

	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

// LedgerStore persists the rental ledger: every rental ever opened (history),
// the rentals still open (active), completed returns and a free-text summary log.
type LedgerStore interface {
	Initialize(ctx context.Context) error

	ReadActive(ctx context.Context) ([]models.ActiveRental, error)
	OverwriteActive(ctx context.Context, rows []models.ActiveRental) error
	AppendActive(ctx context.Context, row models.ActiveRental) error

	AppendHistory(ctx context.Context, row models.ActiveRental) error

	ReadReturns(ctx context.Context) ([]models.CompletedReturn, error)
	AppendReturn(ctx context.Context, row models.CompletedReturn) error

	AppendSummary(ctx context.Context, line string) error
}
