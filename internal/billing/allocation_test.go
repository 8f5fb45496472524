package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestAllocateWaterfall(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 1, Kind: TargetInvoice, DueDate: day(1), Balance: d("1000")},
		{ID: 2, Kind: TargetBillInvoice, DueDate: day(5), Balance: d("500")},
		{ID: 3, Kind: TargetInvoice, DueDate: day(10), Balance: d("2000")},
	}

	splits, leftover := Allocate(d("1800"), targets)

	assert.Len(t, splits, 3)
	assert.True(t, splits[0].Amount.Equal(d("1000")))
	assert.True(t, splits[1].Amount.Equal(d("500")))
	assert.True(t, splits[2].Amount.Equal(d("300")))
	assert.True(t, leftover.IsZero())
}

func TestAllocateLeftover(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 1, Kind: TargetInvoice, DueDate: day(1), Balance: d("1000")},
	}

	splits, leftover := Allocate(d("1500"), targets)

	assert.Len(t, splits, 1)
	assert.True(t, splits[0].Amount.Equal(d("1000")))
	assert.True(t, leftover.Equal(d("500")))
}

func TestAllocateNoTargets(t *testing.T) {
	splits, leftover := Allocate(d("750"), nil)
	assert.Empty(t, splits)
	assert.True(t, leftover.Equal(d("750")))
}

func TestAllocateSkipsSettledTargets(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 1, Kind: TargetInvoice, DueDate: day(1), Balance: decimal.Zero},
		{ID: 2, Kind: TargetInvoice, DueDate: day(2), Balance: d("400")},
	}

	splits, leftover := Allocate(d("400"), targets)

	assert.Len(t, splits, 1)
	assert.Equal(t, uint(2), splits[0].ID)
	assert.True(t, leftover.IsZero())
}

func TestAllocateStopsWhenExhausted(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 1, Kind: TargetInvoice, DueDate: day(1), Balance: d("300")},
		{ID: 2, Kind: TargetInvoice, DueDate: day(2), Balance: d("300")},
		{ID: 3, Kind: TargetInvoice, DueDate: day(3), Balance: d("300")},
	}

	splits, leftover := Allocate(d("450"), targets)

	assert.Len(t, splits, 2)
	assert.True(t, splits[0].Amount.Equal(d("300")))
	assert.True(t, splits[1].Amount.Equal(d("150")))
	assert.True(t, leftover.IsZero())
}

func TestSortTargetsByDueDate(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 3, DueDate: day(10)},
		{ID: 1, DueDate: day(1)},
		{ID: 2, DueDate: day(5)},
	}

	sorted := SortTargetsByDueDate(targets)

	assert.Equal(t, uint(1), sorted[0].ID)
	assert.Equal(t, uint(2), sorted[1].ID)
	assert.Equal(t, uint(3), sorted[2].ID)

	// The input slice is untouched.
	assert.Equal(t, uint(3), targets[0].ID)
}

func TestSortTargetsByDueDateStable(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 7, DueDate: day(5)},
		{ID: 4, DueDate: day(5)},
		{ID: 9, DueDate: day(5)},
	}

	sorted := SortTargetsByDueDate(targets)

	// Equal due dates keep their original relative order.
	assert.Equal(t, uint(7), sorted[0].ID)
	assert.Equal(t, uint(4), sorted[1].ID)
	assert.Equal(t, uint(9), sorted[2].ID)
}

func TestAllocateSplitsSumToAmount(t *testing.T) {
	targets := []AllocationTarget{
		{ID: 1, Kind: TargetInvoice, DueDate: day(1), Balance: d("123.45")},
		{ID: 2, Kind: TargetInvoice, DueDate: day(2), Balance: d("67.89")},
		{ID: 3, Kind: TargetInvoice, DueDate: day(3), Balance: d("910.11")},
	}

	amount := d("500.00")
	splits, leftover := Allocate(amount, targets)

	total := leftover
	for _, s := range splits {
		total = total.Add(s.Amount)
		assert.True(t, s.Amount.GreaterThan(decimal.Zero))
	}
	assert.True(t, total.Equal(amount), "splits+leftover = %s", total)
}
