package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var tolerance = d("0.01")

func TestApplyPaymentPartial(t *testing.T) {
	result, err := ApplyPayment(d("2900"), decimal.Zero, d("1000"), tolerance)
	assert.NoError(t, err)
	assert.True(t, result.Applied.Equal(d("1000")))
	assert.True(t, result.AmountPaid.Equal(d("1000")))
	assert.Equal(t, StatusPartial, result.Status)
}

func TestApplyPaymentExact(t *testing.T) {
	result, err := ApplyPayment(d("2900"), d("1000"), d("1900"), tolerance)
	assert.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(d("2900")))
	assert.Equal(t, StatusPaid, result.Status)
}

func TestApplyPaymentClampsWithinTolerance(t *testing.T) {
	// 0.005 over the balance still lands within tolerance and is clamped,
	// so amount_paid ends exactly at the grand total.
	result, err := ApplyPayment(d("2900"), decimal.Zero, d("2900.005"), tolerance)
	assert.NoError(t, err)
	assert.True(t, result.Applied.Equal(d("2900")), "applied = %s", result.Applied)
	assert.True(t, result.AmountPaid.Equal(d("2900")))
	assert.Equal(t, StatusPaid, result.Status)
}

func TestApplyPaymentSlightUnderpaymentClamps(t *testing.T) {
	result, err := ApplyPayment(d("2900"), decimal.Zero, d("2899.995"), tolerance)
	assert.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(d("2900")))
	assert.Equal(t, StatusPaid, result.Status)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	_, err := ApplyPayment(d("2900"), decimal.Zero, d("2901"), tolerance)

	var exceeds *PaymentExceedsBalanceError
	assert.True(t, errors.As(err, &exceeds))
	assert.True(t, exceeds.Balance.Equal(d("2900")))
}

func TestApplyPaymentRejectsNonPositive(t *testing.T) {
	var invalid *InvalidPaymentAmountError

	_, err := ApplyPayment(d("2900"), decimal.Zero, decimal.Zero, tolerance)
	assert.True(t, errors.As(err, &invalid))

	_, err = ApplyPayment(d("2900"), decimal.Zero, d("-50"), tolerance)
	assert.True(t, errors.As(err, &invalid))
}

func TestApplyPaymentSequence(t *testing.T) {
	// Successive partials walk amount_paid up monotonically and finish paid.
	grandTotal := d("5000")
	paid := decimal.Zero

	for _, amount := range []string{"1200", "800", "3000"} {
		result, err := ApplyPayment(grandTotal, paid, d(amount), tolerance)
		assert.NoError(t, err)
		assert.True(t, result.AmountPaid.GreaterThan(paid))
		paid = result.AmountPaid
	}

	assert.True(t, paid.Equal(grandTotal))
	assert.Equal(t, StatusPaid, StatusFor(grandTotal, paid, tolerance))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusUnpaid, StatusFor(d("100"), decimal.Zero, tolerance))
	assert.Equal(t, StatusPartial, StatusFor(d("100"), d("40"), tolerance))
	assert.Equal(t, StatusPaid, StatusFor(d("100"), d("100"), tolerance))
	assert.Equal(t, StatusPaid, StatusFor(d("100"), d("99.99"), tolerance))
	assert.Equal(t, StatusPartial, StatusFor(d("100"), d("99.98"), tolerance))
}

func TestEffectiveStatusLazyOverdue(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	assert.Equal(t, StatusOverdue, EffectiveStatus(StatusUnpaid, past, now))
	assert.Equal(t, StatusOverdue, EffectiveStatus(StatusPartial, past, now))
	assert.Equal(t, StatusUnpaid, EffectiveStatus(StatusUnpaid, future, now))

	// Terminal states never read as overdue.
	assert.Equal(t, StatusPaid, EffectiveStatus(StatusPaid, past, now))
	assert.Equal(t, StatusCancelled, EffectiveStatus(StatusCancelled, past, now))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusPaid.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusUnpaid.IsTerminal())
	assert.False(t, StatusPartial.IsTerminal())
	assert.False(t, StatusOverdue.IsTerminal())
}
