package billing

import "github.com/shopspring/decimal"

// VATType selects how VAT relates to a quoted rent amount.
type VATType string

const (
	// VATExclusive adds VAT on top of the quoted subtotal.
	VATExclusive VATType = "exclusive"
	// VATInclusive treats the quoted subtotal as already containing VAT.
	VATInclusive VATType = "inclusive"
	// VATNone applies no VAT.
	VATNone VATType = "none"
)

var oneHundred = decimal.NewFromInt(100)

// BillAmounts is the output of a metered utility calculation.
type BillAmounts struct {
	Units       decimal.Decimal
	TotalAmount decimal.Decimal
	VATAmount   decimal.Decimal
	GrandTotal  decimal.Decimal
}

// CalculateBill converts a pair of meter readings into bill line amounts.
// vatRate may be nil when the utility is not VAT rated.
func CalculateBill(previousReading, currentReading, chargePerUnit decimal.Decimal, vatRate *decimal.Decimal) (BillAmounts, error) {
	if currentReading.LessThan(previousReading) {
		return BillAmounts{}, &InvalidReadingError{Previous: previousReading, Current: currentReading}
	}

	units := currentReading.Sub(previousReading)
	total := Round(units.Mul(chargePerUnit))

	vat := decimal.Zero
	if vatRate != nil && vatRate.GreaterThan(decimal.Zero) {
		vat = Round(total.Mul(*vatRate).Div(oneHundred))
	}

	return BillAmounts{
		Units:       units,
		TotalAmount: total,
		VATAmount:   vat,
		GrandTotal:  Round(total.Add(vat)),
	}, nil
}

// RentCharge is the output of a recurring rent calculation.
type RentCharge struct {
	Subtotal  decimal.Decimal
	VATAmount decimal.Decimal
	TotalDue  decimal.Decimal
}

// CalculateRentCharge computes the amount due for a rent invoice from the
// tenant's base rent and service charge.
//
// Exclusive VAT is added on top of the subtotal. Inclusive VAT is carved out
// of the quoted amount, leaving the total due unchanged. The two modes must
// never be swapped: doing so silently changes what the tenant owes.
func CalculateRentCharge(rent, serviceCharge decimal.Decimal, vatType VATType, vatRate decimal.Decimal) RentCharge {
	subtotal := Round(rent.Add(serviceCharge))

	switch vatType {
	case VATExclusive:
		vat := Round(subtotal.Mul(vatRate).Div(oneHundred))
		return RentCharge{
			Subtotal:  subtotal,
			VATAmount: vat,
			TotalDue:  Round(subtotal.Add(vat)),
		}
	case VATInclusive:
		divisor := decimal.NewFromInt(1).Add(vatRate.Div(oneHundred))
		vat := Round(subtotal.Sub(subtotal.Div(divisor)))
		return RentCharge{
			Subtotal:  subtotal,
			VATAmount: vat,
			TotalDue:  subtotal,
		}
	default:
		return RentCharge{Subtotal: subtotal, VATAmount: decimal.Zero, TotalDue: subtotal}
	}
}
