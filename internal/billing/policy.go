package billing

import "time"

// PaymentPolicy is a tenant's invoicing cadence.
type PaymentPolicy string

const (
	PolicyMonthly   PaymentPolicy = "monthly"
	PolicyQuarterly PaymentPolicy = "quarterly"
	PolicyAnnual    PaymentPolicy = "annual"
)

// Valid reports whether the policy is one of the known cadences.
func (p PaymentPolicy) Valid() bool {
	switch p {
	case PolicyMonthly, PolicyQuarterly, PolicyAnnual:
		return true
	}
	return false
}

// NextDueDate returns from advanced by one policy period. Used as the default
// due date for generated invoices when none is supplied.
func (p PaymentPolicy) NextDueDate(from time.Time) time.Time {
	switch p {
	case PolicyQuarterly:
		return from.AddDate(0, 3, 0)
	case PolicyAnnual:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
