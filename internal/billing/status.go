package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment state of a bill, invoice or bill invoice.
type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// IsTerminal returns true for states that accept no further payments.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// IsOutstanding returns true for states that still carry a balance.
func (s Status) IsOutstanding() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusOverdue:
		return true
	}
	return false
}

// StatusFor derives the stored status from the paid amount. A document is
// paid once amountPaid reaches grandTotal minus tolerance, partial while some
// but not all of it is covered, unpaid otherwise.
func StatusFor(grandTotal, amountPaid, tolerance decimal.Decimal) Status {
	if amountPaid.GreaterThanOrEqual(grandTotal.Sub(tolerance)) {
		return StatusPaid
	}
	if amountPaid.GreaterThan(decimal.Zero) {
		return StatusPartial
	}
	return StatusUnpaid
}

// EffectiveStatus applies the lazy overdue rule: an outstanding document past
// its due date reads as overdue without a stored transition.
func EffectiveStatus(stored Status, dueDate time.Time, now time.Time) Status {
	if stored.IsOutstanding() && dueDate.Before(now) {
		return StatusOverdue
	}
	return stored
}
