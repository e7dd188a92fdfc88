package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RentalOpenedTopic   = "rental_opened"
	RentalReturnedTopic = "rental_returned"
)

type RentalOpened struct {
	EventID     string          `json:"event_id"`
	ItemID      int             `json:"item_id"`
	Title       string          `json:"title"`
	CustomerID  string          `json:"customer_id"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type RentalReturned struct {
	EventID    string          `json:"event_id"`
	ItemID     int             `json:"item_id"`
	Title      string          `json:"title"`
	CustomerID string          `json:"customer_id"`
	RentedAt   time.Time       `json:"rented_at"`
	Days       int             `json:"days"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
	OccurredAt time.Time       `json:"occurred_at"`
}
