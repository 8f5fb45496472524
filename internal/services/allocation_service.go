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

// AllocatePaymentInput carries one payment event and the policy switches that
// control how it lands on the tenant's outstanding documents.
type AllocatePaymentInput struct {
	TenantID    uint
	Amount      decimal.Decimal
	Period      string
	PaymentDate time.Time

	// Explicit selection. When either list is non-empty only the listed
	// documents receive money, in the order given; excess never spills onto
	// unselected documents.
	InvoiceIDs     []uint
	BillInvoiceIDs []uint

	// CreateMissingInvoices generates the period's rent invoice first when
	// none exists.
	CreateMissingInvoices bool
	// AutoGenerateBalanceInvoice spins off a balance invoice for the arrears
	// when the payment does not cover the period's total due.
	AutoGenerateBalanceInvoice bool
	// UpdateExistingInvoices applies the payment oldest-first across the
	// tenant's outstanding documents. When false (and no explicit selection
	// is given) the whole amount is recorded unapplied.
	UpdateExistingInvoices bool
}

// AllocationService distributes payments across a tenant's outstanding
// invoices and bill invoices, producing an immutable PaymentReport per
// payment event. All document mutation in the system funnels through here or
// through the single-document payment paths, never through handlers directly.
type AllocationService struct {
	db              *gorm.DB
	invoiceRepo     repository.InvoiceRepository
	billInvoiceRepo repository.BillInvoiceRepository
	tenantRepo      repository.TenantRepository
	reportRepo      repository.PaymentReportRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	tolerance       decimal.Decimal
}

func NewAllocationService(
	db *gorm.DB,
	invoiceRepo repository.InvoiceRepository,
	billInvoiceRepo repository.BillInvoiceRepository,
	tenantRepo repository.TenantRepository,
	reportRepo repository.PaymentReportRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	tolerance decimal.Decimal,
) *AllocationService {
	return &AllocationService{
		db:              db,
		invoiceRepo:     invoiceRepo,
		billInvoiceRepo: billInvoiceRepo,
		tenantRepo:      tenantRepo,
		reportRepo:      reportRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		tolerance:       tolerance,
	}
}

func (s *AllocationService) FindReportByID(ctx context.Context, id uint) (*models.PaymentReport, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return report, err
}

func (s *AllocationService) FindReportsByTenant(ctx context.Context, tenantID uint) ([]models.PaymentReport, error) {
	return s.reportRepo.FindByTenant(ctx, tenantID)
}

func (s *AllocationService) ListReports(ctx context.Context, query *repository.ListQuery) ([]models.PaymentReport, int64, error) {
	return s.reportRepo.List(ctx, query)
}

// AllocatePayment applies one payment against a tenant's outstanding
// documents inside a single transaction, with every touched row locked for
// update. The waterfall is oldest due date first unless the caller selected
// specific documents, in which case only those are eligible, in the order
// selected.
func (s *AllocationService) AllocatePayment(ctx context.Context, input AllocatePaymentInput, actorID uint, ip, userAgent string) (*models.PaymentReport, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &billing.InvalidPaymentAmountError{Amount: input.Amount}
	}

	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var report *models.PaymentReport

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiceRepo := s.invoiceRepo.WithTx(tx)
		billInvoiceRepo := s.billInvoiceRepo.WithTx(tx)

		explicit := len(input.InvoiceIDs) > 0 || len(input.BillInvoiceIDs) > 0

		if input.CreateMissingInvoices && !explicit {
			if _, err := invoiceRepo.FindByTenantAndPeriod(ctx, tenant.ID, input.Period); err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				invoice := newRentInvoice(tenant, input.Period, nil, time.Now())
				if err := invoiceRepo.Create(ctx, invoice); err != nil {
					return err
				}
			}
		}

		invoices := make(map[uint]*models.Invoice)
		billInvoices := make(map[uint]*models.BillInvoice)
		var targets []billing.AllocationTarget

		addInvoice := func(inv *models.Invoice) {
			if inv.Status.IsTerminal() || inv.Balance().LessThanOrEqual(decimal.Zero) {
				return
			}
			invoices[inv.ID] = inv
			targets = append(targets, billing.AllocationTarget{
				ID:      inv.ID,
				Kind:    billing.TargetInvoice,
				DueDate: inv.DueDate,
				Balance: inv.Balance(),
			})
		}
		addBillInvoice := func(bi *models.BillInvoice) {
			if bi.Status.IsTerminal() || bi.Balance().LessThanOrEqual(decimal.Zero) {
				return
			}
			billInvoices[bi.ID] = bi
			targets = append(targets, billing.AllocationTarget{
				ID:      bi.ID,
				Kind:    billing.TargetBillInvoice,
				DueDate: bi.DueDate,
				Balance: bi.Balance(),
			})
		}

		switch {
		case explicit:
			for _, id := range input.InvoiceIDs {
				inv, err := invoiceRepo.FindByIDForUpdate(ctx, id)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrNotFound
					}
					return err
				}
				if inv.TenantID != tenant.ID {
					return ErrNotFound
				}
				addInvoice(inv)
			}
			for _, id := range input.BillInvoiceIDs {
				bi, err := billInvoiceRepo.FindByIDForUpdate(ctx, id)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrNotFound
					}
					return err
				}
				if bi.TenantID != tenant.ID {
					return ErrNotFound
				}
				addBillInvoice(bi)
			}

		case input.UpdateExistingInvoices:
			outstanding, err := invoiceRepo.FindOutstandingByTenant(ctx, tenant.ID)
			if err != nil {
				return err
			}
			for i := range outstanding {
				inv, err := invoiceRepo.FindByIDForUpdate(ctx, outstanding[i].ID)
				if err != nil {
					return err
				}
				addInvoice(inv)
			}

			outstandingBI, err := billInvoiceRepo.FindOutstandingByTenant(ctx, tenant.ID)
			if err != nil {
				return err
			}
			for i := range outstandingBI {
				bi, err := billInvoiceRepo.FindByIDForUpdate(ctx, outstandingBI[i].ID)
				if err != nil {
					return err
				}
				addBillInvoice(bi)
			}

			targets = billing.SortTargetsByDueDate(targets)
		}

		splits, leftover := billing.Allocate(input.Amount, targets)

		var allocations []models.PaymentAllocation
		for _, split := range splits {
			switch split.Kind {
			case billing.TargetInvoice:
				inv := invoices[split.ID]
				fsm := statemachine.NewPayableFSM(inv)
				if _, err := fsm.ApplyPayment(ctx, split.Amount, s.tolerance); err != nil {
					return err
				}
				if err := invoiceRepo.Update(ctx, inv); err != nil {
					return err
				}
				id := split.ID
				allocations = append(allocations, models.PaymentAllocation{InvoiceID: &id, Amount: split.Amount})

			case billing.TargetBillInvoice:
				bi := billInvoices[split.ID]
				fsm := statemachine.NewPayableFSM(bi)
				if _, err := fsm.ApplyPayment(ctx, split.Amount, s.tolerance); err != nil {
					return err
				}
				if err := billInvoiceRepo.Update(ctx, bi); err != nil {
					return err
				}
				id := split.ID
				allocations = append(allocations, models.PaymentAllocation{BillInvoiceID: &id, Amount: split.Amount})
			}
		}

		totalDue, err := s.periodTotalDue(tx, tenant.ID, input.Period)
		if err != nil {
			return err
		}

		amount := billing.Round(input.Amount)
		arrears := decimal.Max(decimal.Zero, billing.Round(totalDue.Sub(amount)))

		report = &models.PaymentReport{
			ReceiptNumber:   uuid.NewString(),
			TenantID:        tenant.ID,
			Period:          input.Period,
			AmountPaid:      amount,
			TotalDue:        totalDue,
			Arrears:         arrears,
			UnappliedAmount: leftover,
			Status:          reportStatus(billing.StatusFor(totalDue, amount, s.tolerance)),
			PaymentDate:     paymentDate,
			Allocations:     allocations,
		}

		if err := s.reportRepo.WithTx(tx).Create(ctx, report); err != nil {
			return err
		}

		if input.AutoGenerateBalanceInvoice && arrears.GreaterThan(decimal.Zero) {
			balanceInvoice := &models.Invoice{
				TenantID:        tenant.ID,
				Kind:            models.InvoiceKindBalance,
				Period:          input.Period,
				Subtotal:        arrears,
				VATAmount:       decimal.Zero,
				TotalDueAmount:  arrears,
				AmountPaid:      decimal.Zero,
				Status:          billing.StatusUnpaid,
				DueDate:         tenant.PaymentPolicy.NextDueDate(time.Now()),
				PaymentReportID: &report.ID,
			}
			if err := invoiceRepo.Create(ctx, balanceInvoice); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Payment Recorded",
		fmt.Sprintf("Ksh %s received from %s for period %s (%s)", report.AmountPaid.StringFixed(2), tenant.FullName, report.Period, report.Status),
		models.NotificationTypePaymentRecorded,
	)
	s.auditSvc.Log(ctx, actorID, "PAYMENT", "PaymentReport", report.ID,
		fmt.Sprintf("receipt %s: Ksh %s against period %s, arrears Ksh %s", report.ReceiptNumber, report.AmountPaid.StringFixed(2), report.Period, report.Arrears.StringFixed(2)),
		ip, userAgent)

	if tenant.Email != "" {
		if err := s.emailSvc.SendPaymentReceipt(ctx, tenant, report); err != nil {
			// Email failure does not undo a committed payment.
			s.notificationSvc.NotifyAdmins(ctx,
				"Receipt Email Failed",
				fmt.Sprintf("Could not email receipt %s to %s", report.ReceiptNumber, tenant.Email),
				models.NotificationTypeSystem,
			)
		}
	}

	return report, nil
}

// periodTotalDue sums what the tenant owes for a payment period across rent
// invoices and bill invoices, ignoring cancelled documents. The report status
// derives from this figure, not from how the payment was distributed.
func (s *AllocationService) periodTotalDue(tx *gorm.DB, tenantID uint, period string) (decimal.Decimal, error) {
	var invoiceDue, billInvoiceDue decimal.Decimal

	err := tx.Model(&models.Invoice{}).
		Where("tenant_id = ? AND period = ? AND status <> ?", tenantID, period, billing.StatusCancelled).
		Select("COALESCE(SUM(total_due), 0)").
		Scan(&invoiceDue).Error
	if err != nil {
		return decimal.Zero, err
	}

	err = tx.Model(&models.BillInvoice{}).
		Where("tenant_id = ? AND period = ? AND status <> ?", tenantID, period, billing.StatusCancelled).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&billInvoiceDue).Error
	if err != nil {
		return decimal.Zero, err
	}

	return billing.Round(invoiceDue.Add(billInvoiceDue)), nil
}

func reportStatus(status billing.Status) string {
	switch status {
	case billing.StatusPaid:
		return models.ReportStatusPaid
	case billing.StatusPartial:
		return models.ReportStatusPartial
	default:
		return models.ReportStatusUnpaid
	}
}
