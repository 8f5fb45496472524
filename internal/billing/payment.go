package billing

import "github.com/shopspring/decimal"

// PaymentResult describes the outcome of applying one payment to a document.
type PaymentResult struct {
	// Applied is the amount actually credited. It differs from the requested
	// amount only when a full payment within tolerance is clamped to the
	// exact balance.
	Applied    decimal.Decimal
	AmountPaid decimal.Decimal
	Status     Status
}

// ApplyPayment applies a payment of amount against a document with the given
// grand total and accumulated paid amount.
//
// A payment within tolerance of the remaining balance is clamped to exactly
// the balance, so amountPaid never exceeds grandTotal. Anything beyond
// balance plus tolerance is rejected, leaving the document untouched.
func ApplyPayment(grandTotal, amountPaid, amount, tolerance decimal.Decimal) (PaymentResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentResult{}, &InvalidPaymentAmountError{Amount: amount}
	}

	balance := Round(grandTotal.Sub(amountPaid))
	if amount.GreaterThan(balance.Add(tolerance)) {
		return PaymentResult{}, &PaymentExceedsBalanceError{Amount: amount, Balance: balance}
	}

	applied := Round(amount)
	if amount.Sub(balance).Abs().LessThanOrEqual(tolerance) {
		// Full payment: credit the exact balance, not the typed amount.
		applied = balance
	}

	newPaid := Round(amountPaid.Add(applied))
	return PaymentResult{
		Applied:    applied,
		AmountPaid: newPaid,
		Status:     StatusFor(grandTotal, newPaid, tolerance),
	}, nil
}
