package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/statemachine"
)

// DemandLetterService drives the demand letter lifecycle. A letter is drawn
// from the tenant's overdue set at draft time; the cited invoices are not
// owned by the letter and keep their own payment lifecycle.
type DemandLetterService struct {
	repo            repository.DemandLetterRepository
	tenantRepo      repository.TenantRepository
	arrearsSvc      *ArrearsService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
}

func NewDemandLetterService(
	repo repository.DemandLetterRepository,
	tenantRepo repository.TenantRepository,
	arrearsSvc *ArrearsService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
) *DemandLetterService {
	return &DemandLetterService{
		repo:            repo,
		tenantRepo:      tenantRepo,
		arrearsSvc:      arrearsSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
	}
}

// summarizeOverdue totals the balances of an overdue set and finds the rental
// period span it covers. Periods are YYYY-MM, so lexical order is
// chronological order.
func summarizeOverdue(items []ArrearsItem) (outstanding decimal.Decimal, periodStart, periodEnd string) {
	outstanding = decimal.Zero
	periodStart = items[0].Period
	periodEnd = items[0].Period
	for _, item := range items {
		outstanding = billing.Round(outstanding.Add(item.Balance))
		if item.Period < periodStart {
			periodStart = item.Period
		}
		if item.Period > periodEnd {
			periodEnd = item.Period
		}
	}
	return outstanding, periodStart, periodEnd
}

func (s *DemandLetterService) FindByID(ctx context.Context, id uint) (*models.DemandLetter, error) {
	letter, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return letter, err
}

func (s *DemandLetterService) FindByTenant(ctx context.Context, tenantID uint) ([]models.DemandLetter, error) {
	return s.repo.FindByTenant(ctx, tenantID)
}

func (s *DemandLetterService) List(ctx context.Context, query *repository.ListQuery) ([]models.DemandLetter, int64, error) {
	return s.repo.List(ctx, query)
}

// CreateDraft composes a draft letter from the tenant's overdue documents.
// The outstanding amount and rental period span are frozen here; a tenant
// with nothing overdue never gets a letter.
func (s *DemandLetterService) CreateDraft(ctx context.Context, tenantID uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	overdue, err := s.arrearsSvc.OverdueItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		return nil, &billing.NoOverdueInvoicesError{TenantID: tenantID}
	}

	outstanding, periodStart, periodEnd := summarizeOverdue(overdue)

	letter := &models.DemandLetter{
		ReferenceNumber:   fmt.Sprintf("DL-%s", uuid.NewString()),
		TenantID:          tenant.ID,
		OutstandingAmount: outstanding,
		RentalPeriodStart: periodStart,
		RentalPeriodEnd:   periodEnd,
		ItemCount:         len(overdue),
		Status:            models.DemandLetterStatusDraft,
	}

	if err := s.repo.Create(ctx, letter); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "DemandLetter", letter.ID,
		fmt.Sprintf("draft %s for %s: Ksh %s over %d items", letter.ReferenceNumber, tenant.FullName, outstanding.StringFixed(2), len(overdue)),
		ip, userAgent)

	return letter, nil
}

// Generate finalizes a draft.
func (s *DemandLetterService) Generate(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	letter, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewDemandLetterFSM(letter)
	if err := fsm.Generate(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repo.Update(ctx, letter); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "GENERATE", "DemandLetter", letter.ID, "letter generated", ip, userAgent)
	return letter, nil
}

// Send delivers the letter to the tenant by email and records the send time.
func (s *DemandLetterService) Send(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	letter, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewDemandLetterFSM(letter)
	if err := fsm.Send(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	letter.SentAt = &now

	if err := s.repo.Update(ctx, letter); err != nil {
		return nil, err
	}

	if letter.Tenant.Email != "" {
		if err := s.emailSvc.SendDemandLetter(ctx, &letter.Tenant, letter); err != nil {
			s.notificationSvc.NotifyAdmins(ctx,
				"Demand Letter Email Failed",
				fmt.Sprintf("Could not email %s to %s", letter.ReferenceNumber, letter.Tenant.Email),
				models.NotificationTypeSystem,
			)
		}
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Demand Letter Sent",
		fmt.Sprintf("%s sent to %s for Ksh %s", letter.ReferenceNumber, letter.Tenant.FullName, letter.OutstandingAmount.StringFixed(2)),
		models.NotificationTypeDemandLetterSent,
	)
	s.auditSvc.Log(ctx, actorID, "SEND", "DemandLetter", letter.ID, "letter sent", ip, userAgent)

	return letter, nil
}

// Acknowledge records the tenant's acknowledgement.
func (s *DemandLetterService) Acknowledge(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	letter, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewDemandLetterFSM(letter)
	if err := fsm.Acknowledge(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	letter.AcknowledgedAt = &now

	if err := s.repo.Update(ctx, letter); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "ACKNOWLEDGE", "DemandLetter", letter.ID, "letter acknowledged", ip, userAgent)
	return letter, nil
}

// Settle closes the letter after the cited arrears were cleared.
func (s *DemandLetterService) Settle(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	letter, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewDemandLetterFSM(letter)
	if err := fsm.Settle(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	letter.SettledAt = &now

	if err := s.repo.Update(ctx, letter); err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Demand Letter Settled",
		fmt.Sprintf("%s settled", letter.ReferenceNumber),
		models.NotificationTypeDemandLetterClosed,
	)
	s.auditSvc.Log(ctx, actorID, "SETTLE", "DemandLetter", letter.ID, "letter settled", ip, userAgent)

	return letter, nil
}

// Escalate closes the letter unresolved, handing the case to collections.
func (s *DemandLetterService) Escalate(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
	letter, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewDemandLetterFSM(letter)
	if err := fsm.Escalate(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repo.Update(ctx, letter); err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Demand Letter Escalated",
		fmt.Sprintf("%s escalated with Ksh %s outstanding", letter.ReferenceNumber, letter.OutstandingAmount.StringFixed(2)),
		models.NotificationTypeDemandLetterClosed,
	)
	s.auditSvc.Log(ctx, actorID, "ESCALATE", "DemandLetter", letter.ID, "letter escalated", ip, userAgent)

	return letter, nil
}
