package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Mock InvoiceRepository (using embedding to avoid implementing all methods)
type mockInvoiceRepository struct {
	repository.InvoiceRepository
	mockFindOutstandingByTenant func(ctx context.Context, tenantID uint) ([]models.Invoice, error)
	mockFindOutstanding         func(ctx context.Context) ([]models.Invoice, error)
}

func (m *mockInvoiceRepository) FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
	if m.mockFindOutstandingByTenant != nil {
		return m.mockFindOutstandingByTenant(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockInvoiceRepository) FindOutstanding(ctx context.Context) ([]models.Invoice, error) {
	if m.mockFindOutstanding != nil {
		return m.mockFindOutstanding(ctx)
	}
	return nil, nil
}

// Mock BillInvoiceRepository
type mockBillInvoiceRepository struct {
	repository.BillInvoiceRepository
	mockFindOutstandingByTenant func(ctx context.Context, tenantID uint) ([]models.BillInvoice, error)
	mockFindOutstanding         func(ctx context.Context) ([]models.BillInvoice, error)
}

func (m *mockBillInvoiceRepository) FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
	if m.mockFindOutstandingByTenant != nil {
		return m.mockFindOutstandingByTenant(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockBillInvoiceRepository) FindOutstanding(ctx context.Context) ([]models.BillInvoice, error) {
	if m.mockFindOutstanding != nil {
		return m.mockFindOutstanding(ctx)
	}
	return nil, nil
}

func item(tenantID uint, name string, balance, paid, due string) ArrearsItem {
	return ArrearsItem{
		TenantID:   tenantID,
		TenantName: name,
		Balance:    d(balance),
		AmountPaid: d(paid),
		TotalDue:   d(due),
	}
}

func TestGroupByTenantFirstOccurrenceOrder(t *testing.T) {
	items := []ArrearsItem{
		item(2, "Wanjiku", "500", "0", "500"),
		item(1, "Otieno", "1200", "300", "1500"),
		item(2, "Wanjiku", "700", "100", "800"),
	}

	groups := GroupByTenant(items)

	assert.Len(t, groups, 2)
	assert.Equal(t, uint(2), groups[0].TenantID)
	assert.Equal(t, uint(1), groups[1].TenantID)

	assert.True(t, groups[0].TotalArrears.Equal(d("1200")))
	assert.True(t, groups[0].TotalPaid.Equal(d("100")))
	assert.True(t, groups[0].TotalAmount.Equal(d("1300")))
	assert.Len(t, groups[0].Items, 2)

	assert.True(t, groups[1].TotalArrears.Equal(d("1200")))
	assert.Len(t, groups[1].Items, 1)
}

func TestGroupByTenantDoesNotMutateInput(t *testing.T) {
	items := []ArrearsItem{
		item(3, "Kamau", "100", "0", "100"),
		item(1, "Otieno", "200", "0", "200"),
	}

	GroupByTenant(items)
	GroupByTenant(items)

	assert.Equal(t, uint(3), items[0].TenantID)
	assert.Equal(t, uint(1), items[1].TenantID)
}

func TestGroupArrearsSortsDescending(t *testing.T) {
	items := []ArrearsItem{
		item(1, "Otieno", "100", "0", "100"),
		item(2, "Wanjiku", "900", "0", "900"),
		item(3, "Kamau", "400", "0", "400"),
	}

	groups := GroupArrears(items)

	assert.Equal(t, uint(2), groups[0].TenantID)
	assert.Equal(t, uint(3), groups[1].TenantID)
	assert.Equal(t, uint(1), groups[2].TenantID)
}

func TestGroupArrearsStableOnTies(t *testing.T) {
	items := []ArrearsItem{
		item(5, "Njeri", "300", "0", "300"),
		item(8, "Mwangi", "300", "0", "300"),
		item(2, "Wanjiku", "300", "0", "300"),
	}

	// Equal totals keep first-occurrence order, run after run.
	for i := 0; i < 5; i++ {
		groups := GroupArrears(items)
		assert.Equal(t, uint(5), groups[0].TenantID)
		assert.Equal(t, uint(8), groups[1].TenantID)
		assert.Equal(t, uint(2), groups[2].TenantID)
	}
}

func TestGroupIncomeSortsByTotalAmount(t *testing.T) {
	items := []ArrearsItem{
		item(1, "Otieno", "50", "950", "1000"),
		item(2, "Wanjiku", "4000", "0", "4000"),
	}

	groups := GroupIncome(items)

	assert.Equal(t, uint(2), groups[0].TenantID)
	assert.Equal(t, uint(1), groups[1].TenantID)
}

func TestTenantItemsMergesInvoicesAndBillInvoices(t *testing.T) {
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	invoiceRepo := &mockInvoiceRepository{
		mockFindOutstandingByTenant: func(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
			return []models.Invoice{{
				ID: 10, TenantID: tenantID, Period: "2026-08",
				TotalDueAmount: d("35000"), AmountPaid: d("10000"),
				Status: billing.StatusPartial, DueDate: due,
			}}, nil
		},
	}
	billInvoiceRepo := &mockBillInvoiceRepository{
		mockFindOutstandingByTenant: func(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
			return []models.BillInvoice{{
				ID: 20, TenantID: tenantID, Period: "2026-08",
				GrandTotal: d("2900"), AmountPaid: decimal.Zero,
				Status: billing.StatusUnpaid, DueDate: due,
			}}, nil
		},
	}

	svc := NewArrearsService(invoiceRepo, billInvoiceRepo)
	items, err := svc.TenantItems(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, billing.TargetInvoice, items[0].Kind)
	assert.True(t, items[0].Balance.Equal(d("25000")))
	assert.Equal(t, billing.TargetBillInvoice, items[1].Kind)
	assert.True(t, items[1].Balance.Equal(d("2900")))
}

func TestOverdueItemsFiltersByEffectiveStatus(t *testing.T) {
	past := time.Now().AddDate(0, 0, -30)
	future := time.Now().AddDate(0, 0, 30)

	invoiceRepo := &mockInvoiceRepository{
		mockFindOutstandingByTenant: func(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
			return []models.Invoice{
				{ID: 1, TenantID: tenantID, Period: "2026-06", TotalDueAmount: d("500"), Status: billing.StatusUnpaid, DueDate: past},
				{ID: 2, TenantID: tenantID, Period: "2026-09", TotalDueAmount: d("800"), Status: billing.StatusUnpaid, DueDate: future},
			}, nil
		},
	}
	billInvoiceRepo := &mockBillInvoiceRepository{
		mockFindOutstandingByTenant: func(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
			return []models.BillInvoice{
				{ID: 3, TenantID: tenantID, Period: "2026-07", GrandTotal: d("1200"), Status: billing.StatusPartial, AmountPaid: d("200"), DueDate: past},
			}, nil
		},
	}

	svc := NewArrearsService(invoiceRepo, billInvoiceRepo)
	overdue, err := svc.OverdueItems(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, overdue, 2)
	for _, it := range overdue {
		assert.Equal(t, billing.StatusOverdue, it.Status)
	}

	// The invoice due in the future stays out of the overdue set.
	total := decimal.Zero
	for _, it := range overdue {
		total = total.Add(it.Balance)
	}
	assert.True(t, total.Equal(d("1500")), "total overdue = %s", total)
}
