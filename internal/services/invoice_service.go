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

type InvoiceService struct {
	db              *gorm.DB
	repo            repository.InvoiceRepository
	billInvoiceRepo repository.BillInvoiceRepository
	billRepo        repository.BillRepository
	tenantRepo      repository.TenantRepository
	reportRepo      repository.PaymentReportRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	tolerance       decimal.Decimal
}

func NewInvoiceService(
	db *gorm.DB,
	repo repository.InvoiceRepository,
	billInvoiceRepo repository.BillInvoiceRepository,
	billRepo repository.BillRepository,
	tenantRepo repository.TenantRepository,
	reportRepo repository.PaymentReportRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	tolerance decimal.Decimal,
) *InvoiceService {
	return &InvoiceService{
		db:              db,
		repo:            repo,
		billInvoiceRepo: billInvoiceRepo,
		billRepo:        billRepo,
		tenantRepo:      tenantRepo,
		reportRepo:      reportRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		tolerance:       tolerance,
	}
}

// newRentInvoice builds an unpaid rent invoice from the tenant's policy-derived
// charge. The due date defaults to today advanced by one policy period.
func newRentInvoice(tenant *models.Tenant, period string, dueDate *time.Time, now time.Time) *models.Invoice {
	charge := tenant.RentCharge()

	due := tenant.PaymentPolicy.NextDueDate(now)
	if dueDate != nil {
		due = *dueDate
	}

	return &models.Invoice{
		TenantID:       tenant.ID,
		Kind:           models.InvoiceKindRent,
		Period:         period,
		Subtotal:       charge.Subtotal,
		VATAmount:      charge.VATAmount,
		TotalDueAmount: charge.TotalDue,
		AmountPaid:     decimal.Zero,
		Status:         billing.StatusUnpaid,
		DueDate:        due,
	}
}

func (s *InvoiceService) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return invoice, err
}

func (s *InvoiceService) FindBillInvoiceByID(ctx context.Context, id uint) (*models.BillInvoice, error) {
	billInvoice, err := s.billInvoiceRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return billInvoice, err
}

func (s *InvoiceService) FindByTenant(ctx context.Context, tenantID uint) ([]models.Invoice, error) {
	return s.repo.FindByTenant(ctx, tenantID)
}

func (s *InvoiceService) FindBillInvoicesByTenant(ctx context.Context, tenantID uint) ([]models.BillInvoice, error) {
	return s.billInvoiceRepo.FindByTenant(ctx, tenantID)
}

func (s *InvoiceService) List(ctx context.Context, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, query)
}

// GenerateRentInvoice creates the recurring rent invoice for a payment period.
// One invoice per tenant per period.
func (s *InvoiceService) GenerateRentInvoice(ctx context.Context, tenantID uint, period string, dueDate *time.Time, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.repo.FindByTenantAndPeriod(ctx, tenantID, period); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invoice := newRentInvoice(tenant, period, dueDate, time.Now())
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Invoice Generated",
		fmt.Sprintf("Rent invoice for %s (%s): Ksh %s", tenant.FullName, period, invoice.TotalDueAmount.StringFixed(2)),
		models.NotificationTypeInvoiceGenerated,
	)
	s.auditSvc.Log(ctx, actorID, "GENERATE", "Invoice", invoice.ID,
		fmt.Sprintf("rent invoice for period %s, total due Ksh %s", period, invoice.TotalDueAmount.StringFixed(2)),
		ip, userAgent)

	return invoice, nil
}

// newBillInvoice freezes the bill's remaining balance onto a new bill invoice.
// A cancelled bill cannot be invoiced; an exhausted balance means there is
// nothing to invoice, whether the bill was paid in full or never charged. VAT
// is carved out of the balance in the same proportion it held in the bill.
func newBillInvoice(bill *models.Bill, tenant *models.Tenant, dueDate *time.Time, now time.Time) (*models.BillInvoice, error) {
	if bill.Status == billing.StatusCancelled {
		return nil, ErrInvalidState
	}

	balance := bill.Balance()
	if balance.LessThanOrEqual(decimal.Zero) {
		return nil, &billing.NothingToInvoiceError{Balance: balance}
	}

	due := tenant.PaymentPolicy.NextDueDate(now)
	if dueDate != nil {
		due = *dueDate
	}

	vat := decimal.Zero
	if bill.GrandTotal.GreaterThan(decimal.Zero) {
		vat = billing.Round(bill.VATAmount.Mul(balance).Div(bill.GrandTotal))
	}

	return &models.BillInvoice{
		BillID:        bill.ID,
		TenantID:      bill.TenantID,
		UtilityType:   bill.UtilityType,
		Period:        bill.Period,
		Units:         bill.Units,
		ChargePerUnit: bill.ChargePerUnit,
		TotalAmount:   billing.Round(balance.Sub(vat)),
		VATAmount:     vat,
		GrandTotal:    balance,
		AmountPaid:    decimal.Zero,
		Status:        billing.StatusUnpaid,
		DueDate:       due,
	}, nil
}

// GenerateBillInvoice creates a bill invoice from the bill's remaining balance
// at this moment. The balance is frozen onto the new document; later payments
// against the bill do not change it.
func (s *InvoiceService) GenerateBillInvoice(ctx context.Context, billID uint, dueDate *time.Time, actorID uint, ip, userAgent string) (*models.BillInvoice, error) {
	var billInvoice *models.BillInvoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		billRepo := s.billRepo.WithTx(tx)

		bill, err := billRepo.FindByIDForUpdate(ctx, billID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		tenant, err := s.tenantRepo.FindByID(ctx, bill.TenantID)
		if err != nil {
			return err
		}

		billInvoice, err = newBillInvoice(bill, tenant, dueDate, time.Now())
		if err != nil {
			return err
		}

		return s.billInvoiceRepo.WithTx(tx).Create(ctx, billInvoice)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "GENERATE", "BillInvoice", billInvoice.ID,
		fmt.Sprintf("bill invoice from bill #%d, grand total Ksh %s", billInvoice.BillID, billInvoice.GrandTotal.StringFixed(2)),
		ip, userAgent)

	return billInvoice, nil
}

// GenerateArrearsInvoice creates a balance invoice from a partial payment
// report's arrears. Idempotent per report: a second call finds the existing
// invoice and refuses.
func (s *InvoiceService) GenerateArrearsInvoice(ctx context.Context, reportID uint, dueDate *time.Time, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if report.Arrears.LessThanOrEqual(decimal.Zero) {
		return nil, &billing.NothingToInvoiceError{Balance: report.Arrears}
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("payment_report_id = ?", report.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDuplicate
	}

	tenant, err := s.tenantRepo.FindByID(ctx, report.TenantID)
	if err != nil {
		return nil, err
	}

	due := tenant.PaymentPolicy.NextDueDate(time.Now())
	if dueDate != nil {
		due = *dueDate
	}

	invoice := &models.Invoice{
		TenantID:        tenant.ID,
		Kind:            models.InvoiceKindBalance,
		Period:          report.Period,
		Subtotal:        report.Arrears,
		VATAmount:       decimal.Zero,
		TotalDueAmount:  report.Arrears,
		AmountPaid:      decimal.Zero,
		Status:          billing.StatusUnpaid,
		DueDate:         due,
		PaymentReportID: &report.ID,
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "GENERATE", "Invoice", invoice.ID,
		fmt.Sprintf("balance invoice from report %s, total due Ksh %s", report.ReceiptNumber, invoice.TotalDueAmount.StringFixed(2)),
		ip, userAgent)

	return invoice, nil
}

// RecordPayment applies a direct payment against an invoice under a row lock.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uint, amount decimal.Decimal, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	var invoice *models.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		invoice, err = repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fsm := statemachine.NewPayableFSM(invoice)
		if _, err := fsm.ApplyPayment(ctx, amount, s.tolerance); err != nil {
			return err
		}

		return repo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "PAYMENT", "Invoice", invoice.ID,
		fmt.Sprintf("payment of Ksh %s, new status %s", amount.StringFixed(2), invoice.Status),
		ip, userAgent)

	return invoice, nil
}

// RecordBillInvoicePayment applies a direct payment against a bill invoice.
func (s *InvoiceService) RecordBillInvoicePayment(ctx context.Context, id uint, amount decimal.Decimal, actorID uint, ip, userAgent string) (*models.BillInvoice, error) {
	var billInvoice *models.BillInvoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.billInvoiceRepo.WithTx(tx)

		var err error
		billInvoice, err = repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fsm := statemachine.NewPayableFSM(billInvoice)
		if _, err := fsm.ApplyPayment(ctx, amount, s.tolerance); err != nil {
			return err
		}

		return repo.Update(ctx, billInvoice)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "PAYMENT", "BillInvoice", billInvoice.ID,
		fmt.Sprintf("payment of Ksh %s, new status %s", amount.StringFixed(2), billInvoice.Status),
		ip, userAgent)

	return billInvoice, nil
}

// Cancel moves an invoice to the terminal cancelled state.
func (s *InvoiceService) Cancel(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Invoice, error) {
	var invoice *models.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		invoice, err = repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fsm := statemachine.NewPayableFSM(invoice)
		if err := fsm.Cancel(ctx); err != nil {
			return ErrInvalidState
		}

		return repo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CANCEL", "Invoice", invoice.ID, "invoice cancelled", ip, userAgent)
	return invoice, nil
}
