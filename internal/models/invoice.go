package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
)

// Invoice represents a payable rent document for one payment period, or a
// balance invoice spun off from a partially paid period. TotalDue is frozen
// at generation time; later payments against the source never change it.
type Invoice struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TenantID        uint            `gorm:"not null;index" json:"tenant_id"`
	Kind            string          `gorm:"type:varchar(20);default:rent;not null" json:"kind"`
	Period          string          `gorm:"type:varchar(10);not null;index" json:"period"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	VATAmount       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	TotalDueAmount  decimal.Decimal `gorm:"column:total_due;type:decimal(15,2);not null" json:"total_due"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	Status          billing.Status  `gorm:"type:varchar(20);default:unpaid;not null;index" json:"status"`
	DueDate         time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	PaymentReportID *uint           `gorm:"index" json:"payment_report_id,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice kind constants
const (
	InvoiceKindRent    = "rent"
	InvoiceKindBalance = "balance"
)

// Balance returns the unpaid remainder of the invoice.
func (i *Invoice) Balance() decimal.Decimal {
	return billing.Round(i.TotalDueAmount.Sub(i.AmountPaid))
}

// EffectiveStatus reads the status with the lazy overdue rule applied.
func (i *Invoice) EffectiveStatus(now time.Time) billing.Status {
	return billing.EffectiveStatus(i.Status, i.DueDate, now)
}

// DocumentID implements Payable
func (i *Invoice) DocumentID() uint { return i.ID }

// TotalDue implements Payable
func (i *Invoice) TotalDue() decimal.Decimal { return i.TotalDueAmount }

// Paid implements Payable
func (i *Invoice) Paid() decimal.Decimal { return i.AmountPaid }

// SetPaid implements Payable
func (i *Invoice) SetPaid(d decimal.Decimal) { i.AmountPaid = d }

// CurrentStatus implements Payable
func (i *Invoice) CurrentStatus() billing.Status { return i.Status }

// SetStatus implements Payable
func (i *Invoice) SetStatus(s billing.Status) { i.Status = s }

// DueOn implements Payable
func (i *Invoice) DueOn() time.Time { return i.DueDate }

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID         uint            `json:"id"`
	TenantID   uint            `json:"tenant_id"`
	Kind       string          `json:"kind"`
	Period     string          `json:"period"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	TotalDue   decimal.Decimal `json:"total_due"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	DueDate    time.Time       `json:"due_date"`
	TenantName string          `json:"tenant_name,omitempty"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:         i.ID,
		TenantID:   i.TenantID,
		Kind:       i.Kind,
		Period:     i.Period,
		Subtotal:   i.Subtotal,
		VATAmount:  i.VATAmount,
		TotalDue:   i.TotalDueAmount,
		AmountPaid: i.AmountPaid,
		Balance:    i.Balance(),
		Status:     string(i.EffectiveStatus(time.Now())),
		DueDate:    i.DueDate,
	}

	if i.Tenant.ID != 0 {
		resp.TenantName = i.Tenant.FullName
	}

	return resp
}
