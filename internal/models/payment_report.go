package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReport is an immutable record of one payment event against a
// tenant for a payment period. Corrections are new records, never edits.
type PaymentReport struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ReceiptNumber   string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"receipt_number"`
	TenantID        uint            `gorm:"not null;index" json:"tenant_id"`
	Period          string          `gorm:"type:varchar(10);not null;index" json:"period"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_paid"`
	TotalDue        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_due"`
	Arrears         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"arrears"`
	UnappliedAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"unapplied_amount"`
	Status          string          `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentDate     time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Tenant      Tenant              `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentReportID" json:"allocations,omitempty"`
}

// TableName specifies the table name for PaymentReport
func (PaymentReport) TableName() string {
	return "payment_reports"
}

// Payment report status constants. Derived from the period's total due
// against the amount paid, independent of how the amount was distributed.
const (
	ReportStatusPaid    = "paid"
	ReportStatusPartial = "partial"
	ReportStatusUnpaid  = "unpaid"
)

// PaymentAllocation records how much of a payment report landed on one
// invoice or bill invoice. Exactly one of InvoiceID/BillInvoiceID is set.
type PaymentAllocation struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PaymentReportID uint            `gorm:"not null;index" json:"payment_report_id"`
	InvoiceID       *uint           `gorm:"index" json:"invoice_id,omitempty"`
	BillInvoiceID   *uint           `gorm:"index" json:"bill_invoice_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName specifies the table name for PaymentAllocation
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}

// PaymentReportResponse is the JSON response format for payment reports
type PaymentReportResponse struct {
	ID              uint                `json:"id"`
	ReceiptNumber   string              `json:"receipt_number"`
	TenantID        uint                `json:"tenant_id"`
	Period          string              `json:"period"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	TotalDue        decimal.Decimal     `json:"total_due"`
	Arrears         decimal.Decimal     `json:"arrears"`
	UnappliedAmount decimal.Decimal     `json:"unapplied_amount"`
	Status          string              `json:"status"`
	PaymentDate     time.Time           `json:"payment_date"`
	TenantName      string              `json:"tenant_name,omitempty"`
	Allocations     []PaymentAllocation `json:"allocations,omitempty"`
}

// ToResponse converts PaymentReport to PaymentReportResponse
func (r *PaymentReport) ToResponse() PaymentReportResponse {
	resp := PaymentReportResponse{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		TenantID:        r.TenantID,
		Period:          r.Period,
		AmountPaid:      r.AmountPaid,
		TotalDue:        r.TotalDue,
		Arrears:         r.Arrears,
		UnappliedAmount: r.UnappliedAmount,
		Status:          r.Status,
		PaymentDate:     r.PaymentDate,
		Allocations:     r.Allocations,
	}

	if r.Tenant.ID != 0 {
		resp.TenantName = r.Tenant.FullName
	}

	return resp
}
