package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
)

// ArrearsItem is a read-only view of one outstanding document's balance.
type ArrearsItem struct {
	TenantID   uint               `json:"tenant_id"`
	TenantName string             `json:"tenant_name"`
	DocumentID uint               `json:"document_id"`
	Kind       billing.TargetKind `json:"kind"`
	Period     string             `json:"period"`
	TotalDue   decimal.Decimal    `json:"total_due"`
	AmountPaid decimal.Decimal    `json:"amount_paid"`
	Balance    decimal.Decimal    `json:"balance"`
	DueDate    time.Time          `json:"due_date"`
	Status     billing.Status     `json:"status"`
}

// GroupedArrears aggregates a tenant's outstanding items. Recomputed on
// demand, never persisted.
type GroupedArrears struct {
	TenantID     uint            `json:"tenant_id"`
	TenantName   string          `json:"tenant_name"`
	TotalArrears decimal.Decimal `json:"total_arrears"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []ArrearsItem   `json:"items"`
}

// ArrearsService builds tenant-grouped arrears and income views over the
// outstanding invoices and bill invoices, and feeds the demand-letter
// trigger with a tenant's overdue set.
type ArrearsService struct {
	invoiceRepo     repository.InvoiceRepository
	billInvoiceRepo repository.BillInvoiceRepository
}

func NewArrearsService(invoiceRepo repository.InvoiceRepository, billInvoiceRepo repository.BillInvoiceRepository) *ArrearsService {
	return &ArrearsService{invoiceRepo: invoiceRepo, billInvoiceRepo: billInvoiceRepo}
}

func invoiceItem(inv *models.Invoice, now time.Time) ArrearsItem {
	return ArrearsItem{
		TenantID:   inv.TenantID,
		TenantName: inv.Tenant.FullName,
		DocumentID: inv.ID,
		Kind:       billing.TargetInvoice,
		Period:     inv.Period,
		TotalDue:   inv.TotalDueAmount,
		AmountPaid: inv.AmountPaid,
		Balance:    inv.Balance(),
		DueDate:    inv.DueDate,
		Status:     inv.EffectiveStatus(now),
	}
}

func billInvoiceItem(bi *models.BillInvoice, now time.Time) ArrearsItem {
	return ArrearsItem{
		TenantID:   bi.TenantID,
		TenantName: bi.Tenant.FullName,
		DocumentID: bi.ID,
		Kind:       billing.TargetBillInvoice,
		Period:     bi.Period,
		TotalDue:   bi.GrandTotal,
		AmountPaid: bi.AmountPaid,
		Balance:    bi.Balance(),
		DueDate:    bi.DueDate,
		Status:     bi.EffectiveStatus(now),
	}
}

// GroupByTenant groups items by tenant in first-occurrence order, keeping
// each group's items in their original order. The input is never mutated, so
// repeated calls on the same list yield identical output.
func GroupByTenant(items []ArrearsItem) []GroupedArrears {
	index := make(map[uint]int)
	var groups []GroupedArrears

	for _, item := range items {
		i, ok := index[item.TenantID]
		if !ok {
			i = len(groups)
			index[item.TenantID] = i
			groups = append(groups, GroupedArrears{
				TenantID:     item.TenantID,
				TenantName:   item.TenantName,
				TotalArrears: decimal.Zero,
				TotalPaid:    decimal.Zero,
				TotalAmount:  decimal.Zero,
			})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].TotalArrears = billing.Round(groups[i].TotalArrears.Add(item.Balance))
		groups[i].TotalPaid = billing.Round(groups[i].TotalPaid.Add(item.AmountPaid))
		groups[i].TotalAmount = billing.Round(groups[i].TotalAmount.Add(item.TotalDue))
	}

	return groups
}

// GroupArrears returns tenant groups sorted by total arrears descending.
// Ties keep first-occurrence order.
func GroupArrears(items []ArrearsItem) []GroupedArrears {
	groups := GroupByTenant(items)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalArrears.GreaterThan(groups[j].TotalArrears)
	})
	return groups
}

// GroupIncome returns tenant groups sorted by total amount descending.
// Ties keep first-occurrence order.
func GroupIncome(items []ArrearsItem) []GroupedArrears {
	groups := GroupByTenant(items)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalAmount.GreaterThan(groups[j].TotalAmount)
	})
	return groups
}

// TenantItems returns the tenant's outstanding documents as arrears items.
func (s *ArrearsService) TenantItems(ctx context.Context, tenantID uint) ([]ArrearsItem, error) {
	now := time.Now()

	invoices, err := s.invoiceRepo.FindOutstandingByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	billInvoices, err := s.billInvoiceRepo.FindOutstandingByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]ArrearsItem, 0, len(invoices)+len(billInvoices))
	for i := range invoices {
		items = append(items, invoiceItem(&invoices[i], now))
	}
	for i := range billInvoices {
		items = append(items, billInvoiceItem(&billInvoices[i], now))
	}
	return items, nil
}

// AllArrears builds the portfolio-wide arrears view, grouped per tenant and
// sorted by total arrears descending.
func (s *ArrearsService) AllArrears(ctx context.Context) ([]GroupedArrears, error) {
	now := time.Now()

	invoices, err := s.invoiceRepo.FindOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	billInvoices, err := s.billInvoiceRepo.FindOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ArrearsItem, 0, len(invoices)+len(billInvoices))
	for i := range invoices {
		items = append(items, invoiceItem(&invoices[i], now))
	}
	for i := range billInvoices {
		items = append(items, billInvoiceItem(&billInvoices[i], now))
	}
	return GroupArrears(items), nil
}

// Income builds the income view over the same outstanding set, sorted by
// total amount descending.
func (s *ArrearsService) Income(ctx context.Context) ([]GroupedArrears, error) {
	now := time.Now()

	invoices, err := s.invoiceRepo.FindOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	billInvoices, err := s.billInvoiceRepo.FindOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ArrearsItem, 0, len(invoices)+len(billInvoices))
	for i := range invoices {
		items = append(items, invoiceItem(&invoices[i], now))
	}
	for i := range billInvoices {
		items = append(items, billInvoiceItem(&billInvoices[i], now))
	}
	return GroupIncome(items), nil
}

// OverdueItems returns the tenant's documents that are past due and still
// carry a balance. This is exactly the set a demand letter is drawn from.
func (s *ArrearsService) OverdueItems(ctx context.Context, tenantID uint) ([]ArrearsItem, error) {
	items, err := s.TenantItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var overdue []ArrearsItem
	for _, item := range items {
		if item.Status == billing.StatusOverdue {
			overdue = append(overdue, item)
		}
	}
	return overdue, nil
}
