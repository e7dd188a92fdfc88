package ledger

import "github.com/sheikh-saqib/rental-ledger/internal/models"

// Status is the outcome of a status lookup: Active, Returned or NotFound.
type Status interface {
	isStatus()
}

// Active means the item is currently rented out.
type Active struct {
	Rental models.ActiveRental
}

// Returned carries the most recent completed return of the item.
type Returned struct {
	Return models.CompletedReturn
}

// NotFound means the ledger has never seen the item.
type NotFound struct{}

func (Active) isStatus()   {}
func (Returned) isStatus() {}
func (NotFound) isStatus() {}
