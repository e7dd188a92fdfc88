package file

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/rental-ledger/internal/codec"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

const (
	rentalColumns = 5
	returnColumns = 8
)

// DecodeError reports a malformed row in one of the ledger tables.
type DecodeError struct {
	File   string
	Row    int // 1-based, header excluded
	Reason error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ledger: malformed row %d in %s: %v", e.Row, e.File, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

func newDecodeError(file string, row int, reason error) *DecodeError {
	return &DecodeError{File: file, Row: row, Reason: reason}
}

func encodeRental(r models.ActiveRental) string {
	return codec.EncodeRow([]string{
		codec.FormatTime(r.RentedAt),
		strconv.Itoa(r.ID),
		r.Title,
		r.PricePerDay.String(),
		r.CustomerID,
	})
}

func encodeReturn(r models.CompletedReturn) string {
	return codec.EncodeRow([]string{
		codec.FormatTime(r.RentedAt),
		codec.FormatTime(r.ReturnedAt),
		strconv.Itoa(r.ID),
		r.Title,
		r.PricePerDay.String(),
		r.CustomerID,
		strconv.Itoa(r.Days),
		r.AmountOwed.String(),
	})
}

func decodeRental(record string) (models.ActiveRental, error) {
	fields := codec.DecodeRow(record)
	if len(fields) != rentalColumns {
		return models.ActiveRental{}, fmt.Errorf("expected %d fields, got %d", rentalColumns, len(fields))
	}

	var (
		r   models.ActiveRental
		err error
	)
	if r.RentedAt, err = parseTime("alugadoISO", fields[0]); err != nil {
		return r, err
	}
	if r.ID, err = parseInt("id", fields[1]); err != nil {
		return r, err
	}
	r.Title = fields[2]
	if r.PricePerDay, err = parseDecimal("preco", fields[3]); err != nil {
		return r, err
	}
	r.CustomerID = fields[4]
	return r, nil
}

func decodeReturn(record string) (models.CompletedReturn, error) {
	fields := codec.DecodeRow(record)
	if len(fields) != returnColumns {
		return models.CompletedReturn{}, fmt.Errorf("expected %d fields, got %d", returnColumns, len(fields))
	}

	var (
		r   models.CompletedReturn
		err error
	)
	if r.RentedAt, err = parseTime("alugadoISO", fields[0]); err != nil {
		return r, err
	}
	if r.ReturnedAt, err = parseTime("devolvidoISO", fields[1]); err != nil {
		return r, err
	}
	if r.ID, err = parseInt("id", fields[2]); err != nil {
		return r, err
	}
	r.Title = fields[3]
	if r.PricePerDay, err = parseDecimal("preco", fields[4]); err != nil {
		return r, err
	}
	r.CustomerID = fields[5]
	if r.Days, err = parseInt("dias", fields[6]); err != nil {
		return r, err
	}
	if r.AmountOwed, err = parseDecimal("precoReal", fields[7]); err != nil {
		return r, err
	}
	return r, nil
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "column %s", column)
	}
	return t.UTC(), nil
}

func parseInt(column, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "column %s", column)
	}
	return n, nil
}

func parseDecimal(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "column %s", column)
	}
	return d, nil
}
