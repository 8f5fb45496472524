package services

import (
	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/config"
	"github.com/makaohq/makao-api/internal/jobs"
	"github.com/makaohq/makao-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Tenant       *TenantService
	Property     *PropertyService
	Bill         *BillService
	Invoice      *InvoiceService
	Allocation   *AllocationService
	Arrears      *ArrearsService
	DemandLetter *DemandLetterService
	Notification *NotificationService
	Email        *EmailService
	Audit        *AuditService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	arrearsSvc := NewArrearsService(repos.Invoice, repos.BillInvoice)

	tolerance := cfg.PaymentTolerance

	return &Services{
		Tenant:       NewTenantService(repos.Tenant, repos.Unit, auditSvc),
		Property:     NewPropertyService(repos.Property, repos.Unit, auditSvc),
		Bill:         NewBillService(db, repos.Bill, repos.Tenant, notificationSvc, auditSvc, tolerance),
		Invoice:      NewInvoiceService(db, repos.Invoice, repos.BillInvoice, repos.Bill, repos.Tenant, repos.PaymentReport, notificationSvc, auditSvc, tolerance),
		Allocation:   NewAllocationService(db, repos.Invoice, repos.BillInvoice, repos.Tenant, repos.PaymentReport, notificationSvc, emailSvc, auditSvc, tolerance),
		Arrears:      arrearsSvc,
		DemandLetter: NewDemandLetterService(repos.DemandLetter, repos.Tenant, arrearsSvc, notificationSvc, emailSvc, auditSvc),
		Notification: notificationSvc,
		Email:        emailSvc,
		Audit:        auditSvc,
		Job:          NewJobService(worker),
	}
}
