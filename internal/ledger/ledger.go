package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/rental-ledger/internal/codec"
	interfaces "github.com/sheikh-saqib/rental-ledger/internal/interfaces"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
	"github.com/sheikh-saqib/rental-ledger/internal/models/events"
)

// Ledger applies the rental rules on top of a LedgerStore.
// It does not check whether an item is already rented; the catalog does that.
type Ledger struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // optional
	logger    *slog.Logger
	now       func() time.Time

	publishTimeout time.Duration

	mu sync.Mutex // one operation at a time; the active table is rewritten wholesale
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithPublisher publishes rental events after each successful rent and return.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) {
		l.publisher = p
	}
}

// WithPublishTimeout bounds how long a single event publish may take.
func WithPublishTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.publishTimeout = d
	}
}

const defaultPublishTimeout = 5 * time.Second

// NewLedger creates a Ledger on top of store. Any storage implementation
// (file, memory, postgres) will do.
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:          store,
		logger:         slog.Default(),
		now:            time.Now,
		publishTimeout: defaultPublishTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Bootstrap prepares the store. Safe to call on every start.
func (l *Ledger) Bootstrap(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Initialize(ctx); err != nil {
		return errors.Wrap(err, "bootstrap ledger")
	}
	return nil
}

// stamp is the current time as the ledger files can hold it.
func (l *Ledger) stamp() time.Time {
	return l.now().UTC().Truncate(time.Millisecond)
}

// Rent records a new rental in the history and active tables.
func (l *Ledger) Rent(ctx context.Context, id int, title, customerID string, pricePerDay decimal.Decimal) (models.ActiveRental, error) {
	if id <= 0 {
		return models.ActiveRental{}, errors.Wrapf(ErrInvalidInput, "id must be positive, got %d", id)
	}
	if pricePerDay.IsNegative() {
		return models.ActiveRental{}, errors.Wrapf(ErrInvalidInput, "price per day must not be negative, got %s", pricePerDay)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rental := models.ActiveRental{
		ID:          id,
		Title:       strings.TrimSpace(title),
		RentedAt:    l.stamp(),
		PricePerDay: pricePerDay,
		CustomerID:  strings.TrimSpace(customerID),
	}

	if err := l.store.AppendHistory(ctx, rental); err != nil {
		return models.ActiveRental{}, err
	}
	if err := l.store.AppendActive(ctx, rental); err != nil {
		return models.ActiveRental{}, err
	}
	line := fmt.Sprintf("Alugado %s para %s às %s", rental.Title, rental.CustomerID, codec.FormatTime(rental.RentedAt))
	if err := l.store.AppendSummary(ctx, line); err != nil {
		return models.ActiveRental{}, err
	}

	l.logger.Info("rental opened",
		"id", rental.ID,
		"title", rental.Title,
		"customer_id", rental.CustomerID,
		"price_per_day", rental.PricePerDay.String(),
	)

	l.publish(ctx, events.RentalOpenedTopic, rental.ID, events.RentalOpened{
		EventID:     uuid.New().String(),
		ItemID:      rental.ID,
		Title:       rental.Title,
		CustomerID:  rental.CustomerID,
		PricePerDay: rental.PricePerDay,
		OccurredAt:  rental.RentedAt,
	})

	return rental, nil
}

// Return closes the active rental of id. ok is false when id has no active
// rental; the ledger is left untouched in that case.
func (l *Ledger) Return(ctx context.Context, id int) (ret models.CompletedReturn, ok bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	active, err := l.store.ReadActive(ctx)
	if err != nil {
		return models.CompletedReturn{}, false, err
	}

	idx := indexOf(active, id)
	if idx == -1 {
		return models.CompletedReturn{}, false, nil
	}

	base := active[idx]
	returnedAt := l.stamp()
	days := ElapsedDays(base.RentedAt, returnedAt)

	ret = models.CompletedReturn{
		ActiveRental: base,
		ReturnedAt:   returnedAt,
		Days:         days,
		AmountOwed:   AmountOwed(days, base.PricePerDay),
	}

	// Drop the row from active before recording the return: a crash in between
	// loses the return row instead of leaving the rental in both tables.
	remaining := append(active[:idx:idx], active[idx+1:]...)
	if err := l.store.OverwriteActive(ctx, remaining); err != nil {
		return models.CompletedReturn{}, false, err
	}
	if err := l.store.AppendReturn(ctx, ret); err != nil {
		return models.CompletedReturn{}, false, err
	}
	line := fmt.Sprintf("Devolvido o livro de título %s do cliente %s às %s | %dd x %s = %s",
		ret.Title, ret.CustomerID, codec.FormatTime(ret.ReturnedAt), ret.Days, ret.PricePerDay, ret.AmountOwed)
	if err := l.store.AppendSummary(ctx, line); err != nil {
		return models.CompletedReturn{}, false, err
	}

	l.logger.Info("rental returned",
		"id", ret.ID,
		"customer_id", ret.CustomerID,
		"days", ret.Days,
		"amount_owed", ret.AmountOwed.StringFixed(2),
	)

	l.publish(ctx, events.RentalReturnedTopic, ret.ID, events.RentalReturned{
		EventID:    uuid.New().String(),
		ItemID:     ret.ID,
		Title:      ret.Title,
		CustomerID: ret.CustomerID,
		RentedAt:   ret.RentedAt,
		Days:       ret.Days,
		AmountOwed: ret.AmountOwed,
		OccurredAt: ret.ReturnedAt,
	})

	return ret, true, nil
}

// Status reports whether id is rented out, was last returned, or is unknown.
func (l *Ledger) Status(ctx context.Context, id int) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	active, err := l.store.ReadActive(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(active, id); idx != -1 {
		return Active{Rental: active[idx]}, nil
	}

	returns, err := l.store.ReadReturns(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.CompletedReturn
	for _, r := range returns {
		if r.ID == id {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return NotFound{}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ReturnedAt.Before(matches[j].ReturnedAt)
	})
	return Returned{Return: matches[len(matches)-1]}, nil
}

// ActiveRentals lists the rentals that are still open, in rental order.
func (l *Ledger) ActiveRentals(ctx context.Context) ([]models.ActiveRental, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.ReadActive(ctx)
}

func (l *Ledger) publish(ctx context.Context, topic string, id int, event any) {
	if l.publisher == nil {
		return
	}
	// The ledger mutex is held here, so a stuck broker must not block it for long.
	ctx, cancel := context.WithTimeout(ctx, l.publishTimeout)
	defer cancel()

	if err := l.publisher.Publish(ctx, topic, fmt.Sprint(id), event); err != nil {
		l.logger.Warn("publish rental event failed", "topic", topic, "id", id, "err", err)
	}
}

func indexOf(rentals []models.ActiveRental, id int) int {
	for i, r := range rentals {
		if r.ID == id {
			return i
		}
	}
	return -1
}
