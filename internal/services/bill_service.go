package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/statemachine"
)

// CreateBillInput carries the raw meter readings and rates for a new bill.
type CreateBillInput struct {
	TenantID        uint
	UtilityType     string
	Period          string
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	ChargePerUnit   decimal.Decimal
	VATRate         *decimal.Decimal
	DueDate         time.Time
}

type BillService struct {
	db              *gorm.DB
	repo            repository.BillRepository
	tenantRepo      repository.TenantRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	tolerance       decimal.Decimal
}

func NewBillService(
	db *gorm.DB,
	repo repository.BillRepository,
	tenantRepo repository.TenantRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	tolerance decimal.Decimal,
) *BillService {
	return &BillService{
		db:              db,
		repo:            repo,
		tenantRepo:      tenantRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		tolerance:       tolerance,
	}
}

func (s *BillService) FindByID(ctx context.Context, id uint) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return bill, err
}

func (s *BillService) FindByTenant(ctx context.Context, tenantID uint) ([]models.Bill, error) {
	return s.repo.FindByTenant(ctx, tenantID)
}

func (s *BillService) List(ctx context.Context, query *repository.ListQuery) ([]models.Bill, int64, error) {
	return s.repo.List(ctx, query)
}

// Create derives the bill amounts from the meter readings and persists the
// bill. Amounts are frozen here; nothing recomputes them afterwards. One bill
// per tenant per utility type per period.
func (s *BillService) Create(ctx context.Context, input CreateBillInput, actorID uint, ip, userAgent string) (*models.Bill, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.repo.FindByTenantAndPeriod(ctx, input.TenantID, input.UtilityType, input.Period); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	amounts, err := billing.CalculateBill(input.PreviousReading, input.CurrentReading, input.ChargePerUnit, input.VATRate)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		TenantID:        tenant.ID,
		UtilityType:     input.UtilityType,
		Period:          input.Period,
		PreviousReading: input.PreviousReading,
		CurrentReading:  input.CurrentReading,
		ChargePerUnit:   input.ChargePerUnit,
		VATRate:         input.VATRate,
		Units:           amounts.Units,
		TotalAmount:     amounts.TotalAmount,
		VATAmount:       amounts.VATAmount,
		GrandTotal:      amounts.GrandTotal,
		AmountPaid:      decimal.Zero,
		Status:          billing.StatusUnpaid,
		DueDate:         input.DueDate,
	}

	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Bill Created",
		fmt.Sprintf("%s bill for %s (%s): Ksh %s", input.UtilityType, tenant.FullName, input.Period, amounts.GrandTotal.StringFixed(2)),
		models.NotificationTypeBillCreated,
	)
	s.auditSvc.Log(ctx, actorID, "CREATE", "Bill", bill.ID,
		fmt.Sprintf("created %s bill for period %s, grand total Ksh %s", input.UtilityType, input.Period, amounts.GrandTotal.StringFixed(2)),
		ip, userAgent)

	return bill, nil
}

// RecordPayment applies a direct payment against a bill. The read-compute-write
// runs inside one transaction with the bill row locked, so two concurrent
// payments cannot both read the same stale balance.
func (s *BillService) RecordPayment(ctx context.Context, id uint, amount decimal.Decimal, actorID uint, ip, userAgent string) (*models.Bill, error) {
	var bill *models.Bill

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		bill, err = repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fsm := statemachine.NewPayableFSM(bill)
		if _, err := fsm.ApplyPayment(ctx, amount, s.tolerance); err != nil {
			return err
		}

		return repo.Update(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Payment Recorded",
		fmt.Sprintf("Ksh %s received against bill #%d, balance Ksh %s", amount.StringFixed(2), bill.ID, bill.Balance().StringFixed(2)),
		models.NotificationTypePaymentRecorded,
	)
	s.auditSvc.Log(ctx, actorID, "PAYMENT", "Bill", bill.ID,
		fmt.Sprintf("payment of Ksh %s, new status %s", amount.StringFixed(2), bill.Status),
		ip, userAgent)

	return bill, nil
}

// Cancel moves a bill to the terminal cancelled state.
func (s *BillService) Cancel(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Bill, error) {
	var bill *models.Bill

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		bill, err = repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fsm := statemachine.NewPayableFSM(bill)
		if err := fsm.Cancel(ctx); err != nil {
			return ErrInvalidState
		}

		return repo.Update(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CANCEL", "Bill", bill.ID, "bill cancelled", ip, userAgent)
	return bill, nil
}

// Delete removes a bill. Blocked once an invoice has been generated against
// it; the invoice froze the balance and must stay reconcilable to its source.
func (s *BillService) Delete(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	bill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	count, err := s.repo.CountInvoices(ctx, bill.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBillInvoiced
	}

	if err := s.repo.Delete(ctx, bill.ID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Bill", bill.ID, "bill deleted", ip, userAgent)
	return nil
}
