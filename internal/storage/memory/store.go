package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/rental-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/rental-ledger/internal/models"                // domain models: ActiveRental, CompletedReturn
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// Nothing survives the process; it backs tests and throwaway runs.
type MemoryLedgerStore struct {
	mu      sync.Mutex               // protects every slice below
	history []models.ActiveRental    // every rental ever opened
	active  []models.ActiveRental    // rentals not yet returned
	returns []models.CompletedReturn // completed returns in insertion order
	summary []string                 // free-text audit lines
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{}
}

// Initialize has nothing to create in memory.
func (m *MemoryLedgerStore) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// ReadActive returns a copy so callers can't modify internal state.
func (m *MemoryLedgerStore) ReadActive(ctx context.Context) ([]models.ActiveRental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.ActiveRental, len(m.active))
	copy(copied, m.active)
	return copied, ctx.Err()
}

func (m *MemoryLedgerStore) OverwriteActive(ctx context.Context, rows []models.ActiveRental) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = append(make([]models.ActiveRental, 0, len(rows)), rows...)
	return nil
}

func (m *MemoryLedgerStore) AppendActive(ctx context.Context, row models.ActiveRental) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = append(m.active, row)
	return nil
}

func (m *MemoryLedgerStore) AppendHistory(ctx context.Context, row models.ActiveRental) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, row)
	return nil
}

func (m *MemoryLedgerStore) ReadReturns(ctx context.Context) ([]models.CompletedReturn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.CompletedReturn, len(m.returns))
	copy(copied, m.returns)
	return copied, ctx.Err()
}

func (m *MemoryLedgerStore) AppendReturn(ctx context.Context, row models.CompletedReturn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.returns = append(m.returns, row)
	return nil
}

func (m *MemoryLedgerStore) AppendSummary(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.summary = append(m.summary, line)
	return nil
}

// History returns a copy of every rental ever opened.
func (m *MemoryLedgerStore) History() []models.ActiveRental {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.ActiveRental, len(m.history))
	copy(copied, m.history)
	return copied
}

// Summary returns a copy of the audit lines.
func (m *MemoryLedgerStore) Summary() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]string, len(m.summary))
	copy(copied, m.summary)
	return copied
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
