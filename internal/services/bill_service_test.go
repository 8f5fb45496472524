package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
)

// Mock BillRepository
type mockBillRepository struct {
	repository.BillRepository
	mockFindByTenantAndPeriod func(ctx context.Context, tenantID uint, utilityType, period string) (*models.Bill, error)
}

func (m *mockBillRepository) FindByTenantAndPeriod(ctx context.Context, tenantID uint, utilityType, period string) (*models.Bill, error) {
	if m.mockFindByTenantAndPeriod != nil {
		return m.mockFindByTenantAndPeriod(ctx, tenantID, utilityType, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func TestCreateBillRejectsDuplicatePeriod(t *testing.T) {
	billRepo := &mockBillRepository{
		mockFindByTenantAndPeriod: func(ctx context.Context, tenantID uint, utilityType, period string) (*models.Bill, error) {
			return &models.Bill{ID: 9, TenantID: tenantID, UtilityType: utilityType, Period: period}, nil
		},
	}
	svc := NewBillService(nil, billRepo, &mockTenantRepository{}, nil, nil, d("0.01"))

	input := CreateBillInput{
		TenantID:        1,
		UtilityType:     models.UtilityWater,
		Period:          "2026-08",
		PreviousReading: d("100"),
		CurrentReading:  d("150"),
		ChargePerUnit:   d("50"),
		DueDate:         time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.Create(context.Background(), input, 1, "127.0.0.1", "test")

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateBillRejectsBackwardReading(t *testing.T) {
	svc := NewBillService(nil, &mockBillRepository{}, &mockTenantRepository{}, nil, nil, d("0.01"))

	input := CreateBillInput{
		TenantID:        1,
		UtilityType:     models.UtilityElectricity,
		Period:          "2026-08",
		PreviousReading: d("150"),
		CurrentReading:  d("100"),
		ChargePerUnit:   d("25"),
		DueDate:         time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.Create(context.Background(), input, 1, "127.0.0.1", "test")

	var invalid *billing.InvalidReadingError
	assert.True(t, errors.As(err, &invalid), "err = %v", err)
	assert.True(t, invalid.Previous.Equal(d("150")))
	assert.True(t, invalid.Current.Equal(d("100")))
}
