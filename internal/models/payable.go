package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
)

// Payable is implemented by Bill, Invoice and BillInvoice so payment
// application and the status state machine work uniformly across the three
// document types. The amountPaid/status pair is mutated only through the
// payment services, never by handlers directly.
type Payable interface {
	DocumentID() uint
	TotalDue() decimal.Decimal
	Paid() decimal.Decimal
	SetPaid(decimal.Decimal)
	CurrentStatus() billing.Status
	SetStatus(billing.Status)
	DueOn() time.Time
}

// OutstandingBalance returns the remaining balance of a payable, rounded.
func OutstandingBalance(p Payable) decimal.Decimal {
	return billing.Round(p.TotalDue().Sub(p.Paid()))
}

// IsOverdue applies the lazy overdue rule against now.
func IsOverdue(p Payable, now time.Time) bool {
	return billing.EffectiveStatus(p.CurrentStatus(), p.DueOn(), now) == billing.StatusOverdue
}
