package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Tenant        TenantRepository
	Property      PropertyRepository
	Unit          UnitRepository
	Bill          BillRepository
	Invoice       InvoiceRepository
	BillInvoice   BillInvoiceRepository
	PaymentReport PaymentReportRepository
	DemandLetter  DemandLetterRepository
	Notification  NotificationRepository
	User          UserRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant:        NewTenantRepository(db),
		Property:      NewPropertyRepository(db),
		Unit:          NewUnitRepository(db),
		Bill:          NewBillRepository(db),
		Invoice:       NewInvoiceRepository(db),
		BillInvoice:   NewBillInvoiceRepository(db),
		PaymentReport: NewPaymentReportRepository(db),
		DemandLetter:  NewDemandLetterRepository(db),
		Notification:  NewNotificationRepository(db),
		User:          NewUserRepository(db),
	}
}

// ListQuery carries pagination, sorting and filter parameters for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		SortDir: "desc",
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}
