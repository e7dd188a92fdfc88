package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActiveRental represents a book that has been rented and not yet returned
type ActiveRental struct {
	ID          int             `json:"id"`            // catalog item id
	Title       string          `json:"title"`         // title as it was when rented
	RentedAt    time.Time       `json:"rented_at"`     // UTC, millisecond precision
	PricePerDay decimal.Decimal `json:"price_per_day"` // daily price
	CustomerID  string          `json:"customer_id"`   // customer tax id (CPF)
}

// CompletedReturn is the closed record of a rental
type CompletedReturn struct {
	ActiveRental
	ReturnedAt time.Time       `json:"returned_at"`
	Days       int             `json:"days"`        // elapsed whole days, at least 1
	AmountOwed decimal.Decimal `json:"amount_owed"` // Days x PricePerDay, 2 decimals
}
