package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
)

// Mock TenantRepository
type mockTenantRepository struct {
	repository.TenantRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Tenant, error)
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.Tenant{ID: id, FullName: "Test Tenant"}, nil
}

func TestSummarizeOverdue(t *testing.T) {
	items := []ArrearsItem{
		{Period: "2026-07", Balance: d("500")},
		{Period: "2026-05", Balance: d("1200")},
		{Period: "2026-06", Balance: d("0.50")},
	}

	outstanding, start, end := summarizeOverdue(items)

	assert.True(t, outstanding.Equal(d("1700.50")), "outstanding = %s", outstanding)
	assert.Equal(t, "2026-05", start)
	assert.Equal(t, "2026-07", end)
}

func TestSummarizeOverdueSingleItem(t *testing.T) {
	items := []ArrearsItem{{Period: "2026-08", Balance: d("2900")}}

	outstanding, start, end := summarizeOverdue(items)

	assert.True(t, outstanding.Equal(d("2900")))
	assert.Equal(t, "2026-08", start)
	assert.Equal(t, "2026-08", end)
}

func TestCreateDraftRequiresOverdueItems(t *testing.T) {
	tenantRepo := &mockTenantRepository{}
	invoiceRepo := &mockInvoiceRepository{}
	billInvoiceRepo := &mockBillInvoiceRepository{}
	arrearsSvc := NewArrearsService(invoiceRepo, billInvoiceRepo)

	svc := NewDemandLetterService(nil, tenantRepo, arrearsSvc, nil, nil, nil)

	_, err := svc.CreateDraft(context.Background(), 7, 1, "127.0.0.1", "test")

	var noOverdue *billing.NoOverdueInvoicesError
	assert.True(t, errors.As(err, &noOverdue))
	assert.Equal(t, uint(7), noOverdue.TenantID)
}
