package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

func newTestStore(t *testing.T) *FileLedgerStore {
	t.Helper()

	store := NewFileLedgerStore(filepath.Join(t.TempDir(), "csv"))
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func readFile(t *testing.T, store *FileLedgerStore, name string) string {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	return string(raw)
}

func rental(id int, title string, rentedAt time.Time) models.ActiveRental {
	return models.ActiveRental{
		ID:          id,
		Title:       title,
		RentedAt:    rentedAt,
		PricePerDay: decimal.RequireFromString("6.5"),
		CustomerID:  "111.222.333-44",
	}
}

func TestInitializeWritesHeaders(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, RentalHeader, readFile(t, store, HistoryFile))
	assert.Equal(t, RentalHeader, readFile(t, store, ActiveFile))
	assert.Equal(t, ReturnsHeader, readFile(t, store, ReturnsFile))
	assert.Equal(t, SummaryHeader, readFile(t, store, SummaryFile))
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	r := rental(1, "Naruto VOL1", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.AppendHistory(ctx, r))
	require.NoError(t, store.AppendSummary(ctx, "something happened"))

	require.NoError(t, store.Initialize(ctx))

	assert.Equal(t, RentalHeader+"2024-05-01T12:00:00.000Z,1,Naruto VOL1,6.5,111.222.333-44\n", readFile(t, store, HistoryFile))
	assert.Equal(t, SummaryHeader+"something happened\n", readFile(t, store, SummaryFile))
}

func TestInitializeFailsOnUnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileLedgerStore(filepath.Join(blocker, "csv"))
	assert.Error(t, store.Initialize(context.Background()))
}

func TestAppendAndReadActive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := rental(1, "One Punch Man VOL1", time.Date(2024, 5, 1, 12, 0, 0, 123e6, time.UTC))
	second := rental(2, `Title, with "quotes"`, time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC))
	third := rental(3, "Multi\nline", time.Date(2024, 5, 3, 8, 30, 0, 0, time.UTC))

	require.NoError(t, store.AppendActive(ctx, first))
	require.NoError(t, store.AppendActive(ctx, second))
	require.NoError(t, store.AppendActive(ctx, third))

	active, err := store.ReadActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)

	assert.Equal(t, 1, active[0].ID)
	assert.True(t, first.RentedAt.Equal(active[0].RentedAt))
	assert.Equal(t, `Title, with "quotes"`, active[1].Title)
	assert.Equal(t, "Multi\nline", active[2].Title)
	assert.True(t, active[1].PricePerDay.Equal(decimal.RequireFromString("6.50")))
	assert.Equal(t, "111.222.333-44", active[2].CustomerID)
}

func TestOverwriteActive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.AppendActive(ctx, rental(i, "Book", now)))
	}

	active, err := store.ReadActive(ctx)
	require.NoError(t, err)
	require.NoError(t, store.OverwriteActive(ctx, []models.ActiveRental{active[0], active[2]}))

	active, err = store.ReadActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].ID)
	assert.Equal(t, 3, active[1].ID)

	require.NoError(t, store.OverwriteActive(ctx, nil))
	assert.Equal(t, RentalHeader, readFile(t, store, ActiveFile))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 4, "temporary files should not be left behind")
}

func TestAppendAndReadReturns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rentedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ret := models.CompletedReturn{
		ActiveRental: rental(2, "Naruto VOL1", rentedAt),
		ReturnedAt:   rentedAt.Add(72 * time.Hour),
		Days:         3,
		AmountOwed:   decimal.RequireFromString("19.50"),
	}
	require.NoError(t, store.AppendReturn(ctx, ret))

	assert.Equal(t,
		ReturnsHeader+"2024-05-01T12:00:00.000Z,2024-05-04T12:00:00.000Z,2,Naruto VOL1,6.5,111.222.333-44,3,19.5\n",
		readFile(t, store, ReturnsFile))

	returns, err := store.ReadReturns(ctx)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, 3, returns[0].Days)
	assert.True(t, returns[0].AmountOwed.Equal(decimal.RequireFromString("19.5")))
	assert.True(t, ret.ReturnedAt.Equal(returns[0].ReturnedAt))
}

func TestReadActiveDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		row  string
	}{
		{"too few fields", "2024-05-01T12:00:00.000Z,1,Book,6.5\n"},
		{"too many fields", "2024-05-01T12:00:00.000Z,1,Book,6.5,111,extra\n"},
		{"non numeric id", "2024-05-01T12:00:00.000Z,abc,Book,6.5,111\n"},
		{"non numeric price", "2024-05-01T12:00:00.000Z,1,Book,cheap,111\n"},
		{"bad timestamp", "yesterday,1,Book,6.5,111\n"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			path := filepath.Join(store.Dir(), ActiveFile)
			require.NoError(t, os.WriteFile(path, []byte(RentalHeader+tt.row), 0o644))

			_, err := store.ReadActive(context.Background())
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, ActiveFile, decodeErr.File)
			assert.Equal(t, 1, decodeErr.Row)
		})
	}
}

func TestReadReturnsDecodeError(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.Dir(), ReturnsFile)
	row := "2024-05-01T12:00:00.000Z,2024-05-04T12:00:00.000Z,2,Book,6.5,111,three,19.5\n"
	require.NoError(t, os.WriteFile(path, []byte(ReturnsHeader+row), 0o644))

	_, err := store.ReadReturns(context.Background())

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ReturnsFile, decodeErr.File)
	assert.Contains(t, err.Error(), "dias")
}

func TestMissingFilesAreIOErrors(t *testing.T) {
	ctx := context.Background()
	store := NewFileLedgerStore(filepath.Join(t.TempDir(), "never-initialized"))

	_, err := store.ReadActive(ctx)
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	err = store.AppendHistory(ctx, rental(1, "Book", time.Now()))
	assert.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ReadActive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
