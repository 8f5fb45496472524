package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
)

type TenantService struct {
	repo     repository.TenantRepository
	unitRepo repository.UnitRepository
	auditSvc *AuditService
}

func NewTenantService(repo repository.TenantRepository, unitRepo repository.UnitRepository, auditSvc *AuditService) *TenantService {
	return &TenantService{repo: repo, unitRepo: unitRepo, auditSvc: auditSvc}
}

func (s *TenantService) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return tenant, err
}

func (s *TenantService) List(ctx context.Context, query *repository.ListQuery) ([]models.Tenant, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *TenantService) Create(ctx context.Context, tenant *models.Tenant, actorID uint, ip, userAgent string) error {
	if tenant.PaymentPolicy != "" && !tenant.PaymentPolicy.Valid() {
		return fmt.Errorf("unknown payment policy: %s", tenant.PaymentPolicy)
	}

	unit, err := s.unitRepo.FindByID(ctx, tenant.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		return err
	}

	if unit.Status != models.UnitStatusOccupied {
		unit.Status = models.UnitStatusOccupied
		s.unitRepo.Update(ctx, unit)
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Tenant", tenant.ID,
		fmt.Sprintf("tenant %s on unit #%d", tenant.FullName, tenant.UnitID), ip, userAgent)
	return nil
}

// Update edits a tenant's financial attributes. Identity fields are not
// touched here; rent, service charge, VAT setup and policy are the mutable
// surface.
func (s *TenantService) Update(ctx context.Context, id uint, updated *models.Tenant, actorID uint, ip, userAgent string) (*models.Tenant, error) {
	tenant, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated.PaymentPolicy != "" {
		if !updated.PaymentPolicy.Valid() {
			return nil, fmt.Errorf("unknown payment policy: %s", updated.PaymentPolicy)
		}
		tenant.PaymentPolicy = updated.PaymentPolicy
	}
	if updated.VATType != "" {
		tenant.VATType = updated.VATType
		tenant.VATRate = updated.VATRate
	}
	if !updated.Rent.IsZero() {
		tenant.Rent = updated.Rent
	}
	tenant.ServiceCharge = updated.ServiceCharge
	tenant.Phone = updated.Phone
	tenant.Email = updated.Email
	tenant.Active = updated.Active

	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Tenant", tenant.ID, "financial attributes updated", ip, userAgent)
	return tenant, nil
}

func (s *TenantService) Delete(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	tenant, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tenant.ID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Tenant", tenant.ID, "tenant removed", ip, userAgent)
	return nil
}

// RentCharge exposes the policy-derived charge for one rent period, mostly
// for preview in the operator UI before generating an invoice.
func (s *TenantService) RentCharge(ctx context.Context, id uint) (billing.RentCharge, error) {
	tenant, err := s.FindByID(ctx, id)
	if err != nil {
		return billing.RentCharge{}, err
	}
	return tenant.RentCharge(), nil
}

type PropertyService struct {
	repo     repository.PropertyRepository
	unitRepo repository.UnitRepository
	auditSvc *AuditService
}

func NewPropertyService(repo repository.PropertyRepository, unitRepo repository.UnitRepository, auditSvc *AuditService) *PropertyService {
	return &PropertyService{repo: repo, unitRepo: unitRepo, auditSvc: auditSvc}
}

func (s *PropertyService) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return property, err
}

func (s *PropertyService) List(ctx context.Context, query *repository.ListQuery) ([]models.Property, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *PropertyService) Create(ctx context.Context, property *models.Property, actorID uint, ip, userAgent string) error {
	if err := s.repo.Create(ctx, property); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Property", property.ID, property.Name, ip, userAgent)
	return nil
}

func (s *PropertyService) Update(ctx context.Context, property *models.Property, actorID uint, ip, userAgent string) error {
	if err := s.repo.Update(ctx, property); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Property", property.ID, property.Name, ip, userAgent)
	return nil
}

func (s *PropertyService) FindUnits(ctx context.Context, propertyID uint) ([]models.Unit, error) {
	return s.unitRepo.FindByProperty(ctx, propertyID)
}

func (s *PropertyService) CreateUnit(ctx context.Context, unit *models.Unit, actorID uint, ip, userAgent string) error {
	if _, err := s.FindByID(ctx, unit.PropertyID); err != nil {
		return err
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Unit", unit.ID, unit.Name, ip, userAgent)
	return nil
}
