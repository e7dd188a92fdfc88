package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// ElapsedDays counts started days between from and to, never less than one.
func ElapsedDays(from, to time.Time) int {
	ms := to.Sub(from).Milliseconds()
	if ms <= 0 {
		return 1
	}
	days := (ms + msPerDay - 1) / msPerDay
	return int(days)
}

// AmountOwed is days x pricePerDay rounded half away from zero to cents.
func AmountOwed(days int, pricePerDay decimal.Decimal) decimal.Decimal {
	return pricePerDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
}
