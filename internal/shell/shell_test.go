package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/rental-ledger/internal/catalog"
	"github.com/sheikh-saqib/rental-ledger/internal/ledger"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
	"github.com/sheikh-saqib/rental-ledger/internal/storage/memory"
)

func runShell(t *testing.T, rentals RentalService, cat *catalog.Catalog, input ...string) string {
	t.Helper()

	var out bytes.Buffer
	sh := New(rentals, cat, strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func newLedger(now time.Time) (*ledger.Ledger, *memory.MemoryLedgerStore) {
	store := memory.NewMemoryLedgerStore()
	return ledger.NewLedger(store, ledger.WithClock(func() time.Time { return now })), store
}

func TestRentReturnAndStatus(t *testing.T) {
	l, store := newLedger(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	cat := catalog.Default()

	out := runShell(t, l, cat,
		"1", "2", " 123.456.789-00 ", "6,5",
		"3", "2",
		"2", "2",
		"3", "2",
		"4",
	)

	assert.Contains(t, out, "ID: 2 - Title: Naruto VOL1")
	assert.NotContains(t, out, "ID: 3 - Title:")
	assert.Contains(t, out, ">> RENTAL RECORDED")
	assert.Contains(t, out, "Status: RENTED")
	assert.Contains(t, out, ">> RETURN RECORDED")
	assert.Contains(t, out, "Status: RETURNED (latest)")
	assert.Contains(t, out, "Price per day: R$ 6.50")
	assert.Contains(t, out, "Amount owed:   R$ 6.50")

	item, _ := cat.Get(2)
	assert.True(t, item.InStock, "returned book goes back on the shelf")

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, "123.456.789-00", history[0].CustomerID)
}

func TestRentRejectsOutOfStockAndBadInput(t *testing.T) {
	l, store := newLedger(time.Now())
	cat := catalog.Default()

	out := runShell(t, l, cat,
		"1", "3",
		"1", "abc",
		"1", "1", "111", "cheap",
		"4",
	)

	assert.Equal(t, 2, strings.Count(out, "Book not available or invalid ID."))
	assert.Contains(t, out, "Invalid price.")
	assert.Empty(t, store.History())
}

func TestInvalidIDsAndUnknownBooks(t *testing.T) {
	l, _ := newLedger(time.Now())

	out := runShell(t, l, catalog.Default(),
		"2", "x",
		"3", "0",
		"2", "999",
		"3", "999",
		"9",
		"4",
	)

	assert.Equal(t, 2, strings.Count(out, "Invalid ID."))
	assert.Contains(t, out, "Book not found among active rentals.")
	assert.Contains(t, out, "Book not found.")
	assert.Contains(t, out, "Invalid option.")
}

func TestEndOfInputStopsLoop(t *testing.T) {
	l, _ := newLedger(time.Now())

	out := runShell(t, l, catalog.Default(), "3")
	assert.True(t, strings.HasSuffix(out, "Bye.\n"))
}

type failingService struct{}

func (failingService) Rent(context.Context, int, string, string, decimal.Decimal) (models.ActiveRental, error) {
	return models.ActiveRental{}, errors.New("disk full")
}

func (failingService) Return(context.Context, int) (models.CompletedReturn, bool, error) {
	return models.CompletedReturn{}, false, errors.New("disk full")
}

func (failingService) Status(context.Context, int) (ledger.Status, error) {
	return nil, errors.New("disk full")
}

func TestLedgerErrorsAreReportedAndLoopContinues(t *testing.T) {
	cat := catalog.Default()

	out := runShell(t, failingService{}, cat,
		"1", "1", "111", "2",
		"2", "1",
		"3", "1",
		"4",
	)

	assert.Equal(t, 3, strings.Count(out, "Error: disk full"))
	item, _ := cat.Get(1)
	assert.True(t, item.InStock, "failed rent keeps the book on the shelf")
}
