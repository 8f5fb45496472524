package billing

import "github.com/shopspring/decimal"

// All monetary amounts are kept at 2 decimal places. Every derived value is
// re-rounded through Round so long payment chains cannot accumulate drift.

// DefaultTolerance is the slack allowed when deciding whether a payment
// settles a document in full. It covers rounding noise from clients that
// still compute amounts in floating point. Overridable via PAYMENT_TOLERANCE.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Round normalizes a monetary amount to 2 decimal places (half up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
