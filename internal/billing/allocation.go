package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TargetKind distinguishes the two payable document types an allocation can hit.
type TargetKind string

const (
	TargetInvoice     TargetKind = "invoice"
	TargetBillInvoice TargetKind = "bill_invoice"
)

// AllocationTarget is one outstanding document eligible to receive part of a payment.
type AllocationTarget struct {
	ID      uint
	Kind    TargetKind
	DueDate time.Time
	Balance decimal.Decimal
}

// AllocationSplit is the portion of a payment assigned to one target.
type AllocationSplit struct {
	ID     uint
	Kind   TargetKind
	Amount decimal.Decimal
}

// SortTargetsByDueDate orders targets oldest due date first, preserving the
// original order between equal due dates. Used for the implicit waterfall;
// explicit selections keep the order the caller gave.
func SortTargetsByDueDate(targets []AllocationTarget) []AllocationTarget {
	sorted := make([]AllocationTarget, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})
	return sorted
}

// Allocate distributes amount across targets in the order given, crediting
// each with min(remaining, balance) until the payment is exhausted. It
// returns the splits and whatever could not be applied.
//
// The sum of split amounts always equals min(amount, sum of balances) to
// 2 decimal places; no split exceeds its target's balance.
func Allocate(amount decimal.Decimal, targets []AllocationTarget) ([]AllocationSplit, decimal.Decimal) {
	remaining := Round(amount)
	var splits []AllocationSplit

	for _, t := range targets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if t.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		portion := decimal.Min(remaining, t.Balance)
		portion = Round(portion)
		splits = append(splits, AllocationSplit{ID: t.ID, Kind: t.Kind, Amount: portion})
		remaining = Round(remaining.Sub(portion))
	}

	return splits, remaining
}
