package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/models"
)

// DemandLetterRepository defines the interface for demand letter data access
type DemandLetterRepository interface {
	FindByID(ctx context.Context, id uint) (*models.DemandLetter, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.DemandLetter, error)
	FindOpenByTenant(ctx context.Context, tenantID uint) ([]models.DemandLetter, error)
	Create(ctx context.Context, letter *models.DemandLetter) error
	Update(ctx context.Context, letter *models.DemandLetter) error
	List(ctx context.Context, query *ListQuery) ([]models.DemandLetter, int64, error)
}

type demandLetterRepository struct {
	db *gorm.DB
}

// NewDemandLetterRepository creates a new demand letter repository
func NewDemandLetterRepository(db *gorm.DB) DemandLetterRepository {
	return &demandLetterRepository{db: db}
}

func (r *demandLetterRepository) FindByID(ctx context.Context, id uint) (*models.DemandLetter, error) {
	var letter models.DemandLetter
	err := r.db.WithContext(ctx).
		Preload("Tenant.Unit.Property").
		First(&letter, id).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *demandLetterRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.DemandLetter, error) {
	var letters []models.DemandLetter
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&letters).Error
	return letters, err
}

// FindOpenByTenant returns letters that have not reached a closed state
// (settled or escalated).
func (r *demandLetterRepository) FindOpenByTenant(ctx context.Context, tenantID uint) ([]models.DemandLetter, error) {
	var letters []models.DemandLetter
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status NOT IN ?", tenantID,
			[]string{models.DemandLetterStatusSettled, models.DemandLetterStatusEscalated}).
		Order("created_at DESC").
		Find(&letters).Error
	return letters, err
}

func (r *demandLetterRepository) Create(ctx context.Context, letter *models.DemandLetter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

func (r *demandLetterRepository) Update(ctx context.Context, letter *models.DemandLetter) error {
	return r.db.WithContext(ctx).Save(letter).Error
}

func (r *demandLetterRepository) List(ctx context.Context, query *ListQuery) ([]models.DemandLetter, int64, error) {
	var letters []models.DemandLetter
	var total int64

	q := r.db.WithContext(ctx).Model(&models.DemandLetter{})

	if status := query.Filters["status"]; status != "" {
		q = q.Where("status = ?", status)
	}
	if tenantID := query.Filters["tenant_id"]; tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Tenant").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&letters).Error
	return letters, total, err
}
