package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
)

// BillInvoice represents a payable document generated from a Bill's
// remaining balance at generation time, never from its original total.
// Generation requires the source bill to still carry a positive balance.
type BillInvoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BillID        uint            `gorm:"not null;index" json:"bill_id"`
	TenantID      uint            `gorm:"not null;index" json:"tenant_id"`
	UtilityType   string          `gorm:"type:varchar(20);not null" json:"utility_type"`
	Period        string          `gorm:"type:varchar(10);not null;index" json:"period"`
	Units         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"units"`
	ChargePerUnit decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"charge_per_unit"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"grand_total"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	Status        billing.Status  `gorm:"type:varchar(20);default:unpaid;not null;index" json:"status"`
	DueDate       time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Bill   Bill   `gorm:"foreignKey:BillID" json:"bill,omitempty"`
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for BillInvoice
func (BillInvoice) TableName() string {
	return "bill_invoices"
}

// Balance returns the unpaid remainder of the bill invoice.
func (bi *BillInvoice) Balance() decimal.Decimal {
	return billing.Round(bi.GrandTotal.Sub(bi.AmountPaid))
}

// EffectiveStatus reads the status with the lazy overdue rule applied.
func (bi *BillInvoice) EffectiveStatus(now time.Time) billing.Status {
	return billing.EffectiveStatus(bi.Status, bi.DueDate, now)
}

// DocumentID implements Payable
func (bi *BillInvoice) DocumentID() uint { return bi.ID }

// TotalDue implements Payable
func (bi *BillInvoice) TotalDue() decimal.Decimal { return bi.GrandTotal }

// Paid implements Payable
func (bi *BillInvoice) Paid() decimal.Decimal { return bi.AmountPaid }

// SetPaid implements Payable
func (bi *BillInvoice) SetPaid(d decimal.Decimal) { bi.AmountPaid = d }

// CurrentStatus implements Payable
func (bi *BillInvoice) CurrentStatus() billing.Status { return bi.Status }

// SetStatus implements Payable
func (bi *BillInvoice) SetStatus(s billing.Status) { bi.Status = s }

// DueOn implements Payable
func (bi *BillInvoice) DueOn() time.Time { return bi.DueDate }

// BillInvoiceResponse is the JSON response format for bill invoices
type BillInvoiceResponse struct {
	ID            uint            `json:"id"`
	BillID        uint            `json:"bill_id"`
	TenantID      uint            `json:"tenant_id"`
	UtilityType   string          `json:"utility_type"`
	Period        string          `json:"period"`
	Units         decimal.Decimal `json:"units"`
	ChargePerUnit decimal.Decimal `json:"charge_per_unit"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"due_date"`
}

// ToResponse converts BillInvoice to BillInvoiceResponse
func (bi *BillInvoice) ToResponse() BillInvoiceResponse {
	return BillInvoiceResponse{
		ID:            bi.ID,
		BillID:        bi.BillID,
		TenantID:      bi.TenantID,
		UtilityType:   bi.UtilityType,
		Period:        bi.Period,
		Units:         bi.Units,
		ChargePerUnit: bi.ChargePerUnit,
		TotalAmount:   bi.TotalAmount,
		VATAmount:     bi.VATAmount,
		GrandTotal:    bi.GrandTotal,
		AmountPaid:    bi.AmountPaid,
		Balance:       bi.Balance(),
		Status:        string(bi.EffectiveStatus(time.Now())),
		DueDate:       bi.DueDate,
	}
}
