package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain failures carry the offending values so callers can surface them
// verbatim ("balance of X exceeded"). They are matched with errors.As.

// InvalidReadingError reports a current meter reading lower than the previous one.
type InvalidReadingError struct {
	Previous decimal.Decimal
	Current  decimal.Decimal
}

func (e *InvalidReadingError) Error() string {
	return fmt.Sprintf("current reading %s is lower than previous reading %s", e.Current, e.Previous)
}

// InvalidPaymentAmountError reports a zero or negative payment amount.
type InvalidPaymentAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidPaymentAmountError) Error() string {
	return fmt.Sprintf("payment amount %s must be greater than zero", e.Amount)
}

// PaymentExceedsBalanceError reports a payment that, even after tolerance,
// exceeds the remaining balance of a document.
type PaymentExceedsBalanceError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *PaymentExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment of %s exceeds remaining balance of %s", e.Amount, e.Balance)
}

// NothingToInvoiceError reports an attempt to generate a balance invoice from
// a document whose balance is already zero.
type NothingToInvoiceError struct {
	Balance decimal.Decimal
}

func (e *NothingToInvoiceError) Error() string {
	return fmt.Sprintf("nothing to invoice: remaining balance is %s", e.Balance)
}

// NoOverdueInvoicesError reports a demand letter requested for a tenant with
// no overdue invoices.
type NoOverdueInvoicesError struct {
	TenantID uint
}

func (e *NoOverdueInvoicesError) Error() string {
	return fmt.Sprintf("tenant %d has no overdue invoices", e.TenantID)
}
