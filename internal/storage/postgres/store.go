package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/rental-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

// PostgresLedgerStore keeps the ledger tables in PostgreSQL. The seq column
// preserves insertion order, which the ledger relies on.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rental_history (
		seq BIGSERIAL PRIMARY KEY,
		rented_at TIMESTAMPTZ NOT NULL,
		item_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		price_per_day NUMERIC NOT NULL,
		customer_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS active_rentals (
		seq BIGSERIAL PRIMARY KEY,
		rented_at TIMESTAMPTZ NOT NULL,
		item_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		price_per_day NUMERIC NOT NULL,
		customer_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rental_returns (
		seq BIGSERIAL PRIMARY KEY,
		rented_at TIMESTAMPTZ NOT NULL,
		returned_at TIMESTAMPTZ NOT NULL,
		item_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		price_per_day NUMERIC NOT NULL,
		customer_id TEXT NOT NULL,
		days INTEGER NOT NULL,
		amount_owed NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rental_summary (
		seq BIGSERIAL PRIMARY KEY,
		logged_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		line TEXT NOT NULL
	)`,
}

func (p *PostgresLedgerStore) Initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create ledger tables")
		}
	}
	return nil
}

func (p *PostgresLedgerStore) ReadActive(ctx context.Context) ([]models.ActiveRental, error) {
	const query = `SELECT rented_at, item_id, title, price_per_day, customer_id
	FROM active_rentals ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query active rentals")
	}

	defer rows.Close()

	var rentals []models.ActiveRental
	for rows.Next() {
		var r models.ActiveRental
		if err := rows.Scan(&r.RentedAt, &r.ID, &r.Title, &r.PricePerDay, &r.CustomerID); err != nil {
			return nil, errors.Wrap(err, "scan active rental")
		}
		r.RentedAt = r.RentedAt.UTC()
		rentals = append(rentals, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rentals, nil
}

// OverwriteActive replaces the active table inside one transaction.
func (p *PostgresLedgerStore) OverwriteActive(ctx context.Context, rentals []models.ActiveRental) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM active_rentals`); err != nil {
		return errors.Wrap(err, "clear active rentals")
	}

	for _, r := range rentals {
		if err = insertRental(ctx, dbTx, "active_rentals", r); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

func (p *PostgresLedgerStore) AppendActive(ctx context.Context, r models.ActiveRental) error {
	return insertRental(ctx, p.db, "active_rentals", r)
}

func (p *PostgresLedgerStore) AppendHistory(ctx context.Context, r models.ActiveRental) error {
	return insertRental(ctx, p.db, "rental_history", r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRental(ctx context.Context, db execer, table string, r models.ActiveRental) error {
	query := `INSERT INTO ` + table + ` (rented_at, item_id, title, price_per_day, customer_id)
	VALUES ($1,$2,$3,$4,$5)`

	_, err := db.ExecContext(ctx, query, r.RentedAt, r.ID, r.Title, r.PricePerDay, r.CustomerID)
	return errors.Wrapf(err, "insert into %s", table)
}

func (p *PostgresLedgerStore) ReadReturns(ctx context.Context) ([]models.CompletedReturn, error) {
	const query = `SELECT rented_at, returned_at, item_id, title, price_per_day, customer_id, days, amount_owed
	FROM rental_returns ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query rental returns")
	}

	defer rows.Close()

	var returns []models.CompletedReturn
	for rows.Next() {
		var (
			r                    models.CompletedReturn
			rentedAt, returnedAt time.Time
			amount               decimal.Decimal
		)
		err := rows.Scan(&rentedAt, &returnedAt, &r.ID, &r.Title, &r.PricePerDay, &r.CustomerID, &r.Days, &amount)
		if err != nil {
			return nil, errors.Wrap(err, "scan rental return")
		}
		r.RentedAt = rentedAt.UTC()
		r.ReturnedAt = returnedAt.UTC()
		r.AmountOwed = amount
		returns = append(returns, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return returns, nil
}

func (p *PostgresLedgerStore) AppendReturn(ctx context.Context, r models.CompletedReturn) error {
	const query = `INSERT INTO rental_returns
	(rented_at, returned_at, item_id, title, price_per_day, customer_id, days, amount_owed)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := p.db.ExecContext(ctx, query,
		r.RentedAt, r.ReturnedAt, r.ID, r.Title, r.PricePerDay, r.CustomerID, r.Days, r.AmountOwed)
	return errors.Wrap(err, "insert into rental_returns")
}

func (p *PostgresLedgerStore) AppendSummary(ctx context.Context, line string) error {
	const query = `INSERT INTO rental_summary (line) VALUES ($1)`

	_, err := p.db.ExecContext(ctx, query, line)
	return errors.Wrap(err, "insert into rental_summary")
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
