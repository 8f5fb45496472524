package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/makaohq/makao-api/internal/models"
)

// BillRepository defines the interface for bill data access
type BillRepository interface {
	WithTx(tx *gorm.DB) BillRepository
	FindByID(ctx context.Context, id uint) (*models.Bill, error)
	// FindByIDForUpdate loads the bill under a row lock so concurrent
	// payments against it are serialized. Call inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Bill, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.Bill, error)
	FindByTenantAndPeriod(ctx context.Context, tenantID uint, utilityType, period string) (*models.Bill, error)
	Create(ctx context.Context, bill *models.Bill) error
	Update(ctx context.Context, bill *models.Bill) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Bill, int64, error)
	CountInvoices(ctx context.Context, billID uint) (int64, error)
}

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) WithTx(tx *gorm.DB) BillRepository {
	return &billRepository{db: tx}
}

func (r *billRepository) FindByID(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Tenant.Unit.Property").
		First(&bill, id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bill, id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date ASC, id ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) FindByTenantAndPeriod(ctx context.Context, tenantID uint, utilityType, period string) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND utility_type = ? AND period = ?", tenantID, utilityType, period).
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) Update(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Bill{}, id).Error
}

func (r *billRepository) List(ctx context.Context, query *ListQuery) ([]models.Bill, int64, error) {
	var bills []models.Bill
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Bill{})

	if status := query.Filters["status"]; status != "" {
		q = q.Where("status = ?", status)
	}
	if utility := query.Filters["utility_type"]; utility != "" {
		q = q.Where("utility_type = ?", utility)
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
		Order("due_date DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&bills).Error
	return bills, total, err
}

// CountInvoices counts bill invoices generated from a bill. Used to block
// deleting a bill once an invoice exists against it.
func (r *billRepository) CountInvoices(ctx context.Context, billID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillInvoice{}).
		Where("bill_id = ?", billID).
		Count(&count).Error
	return count, err
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	WithTx(tx *gorm.DB) InvoiceRepository
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Invoice, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error)
	FindByTenantAndPeriod(ctx context.Context, tenantID uint, period string) (*models.Invoice, error)
	FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error)
	FindOutstanding(ctx context.Context) ([]models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) WithTx(tx *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: tx}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindByTenantAndPeriod(ctx context.Context, tenantID uint, period string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, outstandingStatuses).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindOutstanding(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("status IN ?", outstandingStatuses).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Invoice{})

	if status := query.Filters["status"]; status != "" {
		q = q.Where("status = ?", status)
	}
	if period := query.Filters["period"]; period != "" {
		q = q.Where("period = ?", period)
	}
	if kind := query.Filters["kind"]; kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if tenantID := query.Filters["tenant_id"]; tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Tenant").
		Order("due_date DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&invoices).Error
	return invoices, total, err
}

// BillInvoiceRepository defines the interface for bill invoice data access
type BillInvoiceRepository interface {
	WithTx(tx *gorm.DB) BillInvoiceRepository
	FindByID(ctx context.Context, id uint) (*models.BillInvoice, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.BillInvoice, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error)
	FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error)
	FindOutstanding(ctx context.Context) ([]models.BillInvoice, error)
	Create(ctx context.Context, billInvoice *models.BillInvoice) error
	Update(ctx context.Context, billInvoice *models.BillInvoice) error
}

type billInvoiceRepository struct {
	db *gorm.DB
}

// NewBillInvoiceRepository creates a new bill invoice repository
func NewBillInvoiceRepository(db *gorm.DB) BillInvoiceRepository {
	return &billInvoiceRepository{db: db}
}

func (r *billInvoiceRepository) WithTx(tx *gorm.DB) BillInvoiceRepository {
	return &billInvoiceRepository{db: tx}
}

func (r *billInvoiceRepository) FindByID(ctx context.Context, id uint) (*models.BillInvoice, error) {
	var billInvoice models.BillInvoice
	err := r.db.WithContext(ctx).
		Preload("Bill").
		Preload("Tenant").
		First(&billInvoice, id).Error
	if err != nil {
		return nil, err
	}
	return &billInvoice, nil
}

func (r *billInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.BillInvoice, error) {
	var billInvoice models.BillInvoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&billInvoice, id).Error
	if err != nil {
		return nil, err
	}
	return &billInvoice, nil
}

func (r *billInvoiceRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
	var billInvoices []models.BillInvoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date ASC, id ASC").
		Find(&billInvoices).Error
	return billInvoices, err
}

func (r *billInvoiceRepository) FindOutstandingByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
	var billInvoices []models.BillInvoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, outstandingStatuses).
		Order("due_date ASC, id ASC").
		Find(&billInvoices).Error
	return billInvoices, err
}

func (r *billInvoiceRepository) FindOutstanding(ctx context.Context) ([]models.BillInvoice, error) {
	var billInvoices []models.BillInvoice
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("status IN ?", outstandingStatuses).
		Order("due_date ASC, id ASC").
		Find(&billInvoices).Error
	return billInvoices, err
}

func (r *billInvoiceRepository) Create(ctx context.Context, billInvoice *models.BillInvoice) error {
	return r.db.WithContext(ctx).Create(billInvoice).Error
}

func (r *billInvoiceRepository) Update(ctx context.Context, billInvoice *models.BillInvoice) error {
	return r.db.WithContext(ctx).Save(billInvoice).Error
}

// outstandingStatuses are the stored statuses that still carry a balance.
// Overdue is included for rows persisted before the lazy rule took over.
var outstandingStatuses = []string{"unpaid", "partial", "overdue"}
