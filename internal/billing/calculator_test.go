package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculateBill(t *testing.T) {
	vat := d("16")

	amounts, err := CalculateBill(d("100"), d("150"), d("50"), &vat)
	assert.NoError(t, err)
	assert.True(t, amounts.Units.Equal(d("50")), "units = %s", amounts.Units)
	assert.True(t, amounts.TotalAmount.Equal(d("2500")), "total = %s", amounts.TotalAmount)
	assert.True(t, amounts.VATAmount.Equal(d("400")), "vat = %s", amounts.VATAmount)
	assert.True(t, amounts.GrandTotal.Equal(d("2900")), "grand = %s", amounts.GrandTotal)
}

func TestCalculateBillNoVAT(t *testing.T) {
	amounts, err := CalculateBill(d("10"), d("35.5"), d("120"), nil)
	assert.NoError(t, err)
	assert.True(t, amounts.Units.Equal(d("25.5")))
	assert.True(t, amounts.TotalAmount.Equal(d("3060")))
	assert.True(t, amounts.VATAmount.IsZero())
	assert.True(t, amounts.GrandTotal.Equal(d("3060")))
}

func TestCalculateBillZeroConsumption(t *testing.T) {
	vat := d("16")
	amounts, err := CalculateBill(d("200"), d("200"), d("50"), &vat)
	assert.NoError(t, err)
	assert.True(t, amounts.Units.IsZero())
	assert.True(t, amounts.GrandTotal.IsZero())
}

func TestCalculateBillRejectsBackwardReading(t *testing.T) {
	vat := d("16")
	_, err := CalculateBill(d("150"), d("100"), d("50"), &vat)

	var invalid *InvalidReadingError
	assert.True(t, errors.As(err, &invalid))
	assert.True(t, invalid.Previous.Equal(d("150")))
	assert.True(t, invalid.Current.Equal(d("100")))
}

func TestCalculateBillRoundsToCents(t *testing.T) {
	vat := d("16")
	// 3 units at 33.333 = 99.999 -> 100.00, VAT 16.00
	amounts, err := CalculateBill(d("0"), d("3"), d("33.333"), &vat)
	assert.NoError(t, err)
	assert.True(t, amounts.TotalAmount.Equal(d("100.00")), "total = %s", amounts.TotalAmount)
	assert.True(t, amounts.VATAmount.Equal(d("16.00")), "vat = %s", amounts.VATAmount)
	assert.True(t, amounts.GrandTotal.Equal(d("116.00")))
}

func TestCalculateRentChargeExclusive(t *testing.T) {
	charge := CalculateRentCharge(d("30000"), d("5000"), VATExclusive, d("16"))
	assert.True(t, charge.Subtotal.Equal(d("35000")))
	assert.True(t, charge.VATAmount.Equal(d("5600")))
	assert.True(t, charge.TotalDue.Equal(d("40600")))
}

func TestCalculateRentChargeInclusive(t *testing.T) {
	charge := CalculateRentCharge(d("30000"), d("5000"), VATInclusive, d("16"))
	assert.True(t, charge.Subtotal.Equal(d("35000")))
	// VAT is carved out of the quoted amount; the tenant still owes 35000.
	assert.True(t, charge.VATAmount.Equal(d("4827.59")), "vat = %s", charge.VATAmount)
	assert.True(t, charge.TotalDue.Equal(d("35000")))
}

func TestCalculateRentChargeNone(t *testing.T) {
	charge := CalculateRentCharge(d("25000"), d("0"), VATNone, d("16"))
	assert.True(t, charge.Subtotal.Equal(d("25000")))
	assert.True(t, charge.VATAmount.IsZero())
	assert.True(t, charge.TotalDue.Equal(d("25000")))
}
