package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/models"
)

// PaymentReportRepository defines the interface for payment report data
// access. Reports are append-only: there is no update or delete.
type PaymentReportRepository interface {
	WithTx(tx *gorm.DB) PaymentReportRepository
	FindByID(ctx context.Context, id uint) (*models.PaymentReport, error)
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentReport, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.PaymentReport, error)
	Create(ctx context.Context, report *models.PaymentReport) error
	List(ctx context.Context, query *ListQuery) ([]models.PaymentReport, int64, error)
}

type paymentReportRepository struct {
	db *gorm.DB
}

// NewPaymentReportRepository creates a new payment report repository
func NewPaymentReportRepository(db *gorm.DB) PaymentReportRepository {
	return &paymentReportRepository{db: db}
}

func (r *paymentReportRepository) WithTx(tx *gorm.DB) PaymentReportRepository {
	return &paymentReportRepository{db: tx}
}

func (r *paymentReportRepository) FindByID(ctx context.Context, id uint) (*models.PaymentReport, error) {
	var report models.PaymentReport
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Allocations").
		First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *paymentReportRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentReport, error) {
	var report models.PaymentReport
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Allocations").
		Where("receipt_number = ?", receiptNumber).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *paymentReportRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.PaymentReport, error) {
	var reports []models.PaymentReport
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("tenant_id = ?", tenantID).
		Order("payment_date DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

// Create persists the report together with its allocation rows. gorm
// inserts the Allocations association in the same statement batch.
func (r *paymentReportRepository) Create(ctx context.Context, report *models.PaymentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *paymentReportRepository) List(ctx context.Context, query *ListQuery) ([]models.PaymentReport, int64, error) {
	var reports []models.PaymentReport
	var total int64

	q := r.db.WithContext(ctx).Model(&models.PaymentReport{})

	if status := query.Filters["status"]; status != "" {
		q = q.Where("status = ?", status)
	}
	if period := query.Filters["period"]; period != "" {
		q = q.Where("period = ?", period)
	}
	if tenantID := query.Filters["tenant_id"]; tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Tenant").
		Preload("Allocations").
		Order("payment_date DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&reports).Error
	return reports, total, err
}
