package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/models"
)

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Tenant, error)
	FindByUnit(ctx context.Context, unitID uint) ([]models.Tenant, error)
	Create(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Tenant, int64, error)
	FindDueForOverdueReminder(ctx context.Context) ([]models.Tenant, error)
	MarkOverdueReminderSent(ctx context.Context, tenantIDs []uint) error
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Preload("Unit.Property").
		First(&tenant, id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindByUnit(ctx context.Context, unitID uint) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("created_at ASC").
		Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Tenant{}, id).Error
}

func (r *tenantRepository) List(ctx context.Context, query *ListQuery) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Tenant{})

	if search := query.Filters["search_term"]; search != "" {
		q = q.Where("full_name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if active := query.Filters["active"]; active != "" {
		q = q.Where("active = ?", active == "true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Unit.Property").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&tenants).Error
	return tenants, total, err
}

// FindDueForOverdueReminder returns active tenants with an email address that
// have not been reminded in the last 7 days.
func (r *tenantRepository) FindDueForOverdueReminder(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("email <> ''").
		Where("overdue_reminder_sent_at IS NULL OR overdue_reminder_sent_at < CURRENT_TIMESTAMP - INTERVAL '7 days'").
		Order("id ASC").
		Find(&tenants).Error
	return tenants, err
}

// MarkOverdueReminderSent sets overdue_reminder_sent_at to now for the given tenant IDs.
func (r *tenantRepository) MarkOverdueReminderSent(ctx context.Context, tenantIDs []uint) error {
	if len(tenantIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id IN ?", tenantIDs).
		Update("overdue_reminder_sent_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	List(ctx context.Context, query *ListQuery) ([]models.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Units").
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) List(ctx context.Context, query *ListQuery) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Property{})

	if search := query.Filters["search_term"]; search != "" {
		q = q.Where("name ILIKE ? OR address ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("name ASC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&properties).Error
	return properties, total, err
}

// UnitRepository defines the interface for unit data access
type UnitRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Unit, error)
	FindByProperty(ctx context.Context, propertyID uint) ([]models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Property").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) FindByProperty(ctx context.Context, propertyID uint) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("name ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}
