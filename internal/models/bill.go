package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
)

// Bill represents one metering period of one utility type for a tenant.
// Amounts are derived from the readings at creation time and never
// recomputed; payments mutate only AmountPaid and Status.
type Bill struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	TenantID        uint             `gorm:"not null;index" json:"tenant_id"`
	UtilityType     string           `gorm:"type:varchar(20);not null;index" json:"utility_type"`
	Period          string           `gorm:"type:varchar(10);not null;index" json:"period"`
	PreviousReading decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"previous_reading"`
	CurrentReading  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"current_reading"`
	ChargePerUnit   decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"charge_per_unit"`
	VATRate         *decimal.Decimal `gorm:"type:decimal(5,2)" json:"vat_rate"`
	Units           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"units"`
	TotalAmount     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	VATAmount       decimal.Decimal  `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	GrandTotal      decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"grand_total"`
	AmountPaid      decimal.Decimal  `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	Status          billing.Status   `gorm:"type:varchar(20);default:unpaid;not null;index" json:"status"`
	DueDate         time.Time        `gorm:"type:date;not null;index" json:"due_date"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Associations
	Tenant       Tenant        `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	BillInvoices []BillInvoice `gorm:"foreignKey:BillID" json:"bill_invoices,omitempty"`
}

// TableName specifies the table name for Bill
func (Bill) TableName() string {
	return "bills"
}

// Utility type constants
const (
	UtilityWater       = "water"
	UtilityElectricity = "electricity"
)

// Balance returns the unpaid remainder of the bill.
func (b *Bill) Balance() decimal.Decimal {
	return billing.Round(b.GrandTotal.Sub(b.AmountPaid))
}

// EffectiveStatus reads the status with the lazy overdue rule applied.
func (b *Bill) EffectiveStatus(now time.Time) billing.Status {
	return billing.EffectiveStatus(b.Status, b.DueDate, now)
}

// DocumentID implements Payable
func (b *Bill) DocumentID() uint { return b.ID }

// TotalDue implements Payable
func (b *Bill) TotalDue() decimal.Decimal { return b.GrandTotal }

// Paid implements Payable
func (b *Bill) Paid() decimal.Decimal { return b.AmountPaid }

// SetPaid implements Payable
func (b *Bill) SetPaid(d decimal.Decimal) { b.AmountPaid = d }

// CurrentStatus implements Payable
func (b *Bill) CurrentStatus() billing.Status { return b.Status }

// SetStatus implements Payable
func (b *Bill) SetStatus(s billing.Status) { b.Status = s }

// DueOn implements Payable
func (b *Bill) DueOn() time.Time { return b.DueDate }

// BillResponse is the JSON response format for bills
type BillResponse struct {
	ID              uint             `json:"id"`
	TenantID        uint             `json:"tenant_id"`
	UtilityType     string           `json:"utility_type"`
	Period          string           `json:"period"`
	PreviousReading decimal.Decimal  `json:"previous_reading"`
	CurrentReading  decimal.Decimal  `json:"current_reading"`
	ChargePerUnit   decimal.Decimal  `json:"charge_per_unit"`
	VATRate         *decimal.Decimal `json:"vat_rate,omitempty"`
	Units           decimal.Decimal  `json:"units"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	VATAmount       decimal.Decimal  `json:"vat_amount"`
	GrandTotal      decimal.Decimal  `json:"grand_total"`
	AmountPaid      decimal.Decimal  `json:"amount_paid"`
	Balance         decimal.Decimal  `json:"balance"`
	Status          string           `json:"status"`
	DueDate         time.Time        `json:"due_date"`
	TenantName      string           `json:"tenant_name,omitempty"`
}

// ToResponse converts Bill to BillResponse
func (b *Bill) ToResponse() BillResponse {
	resp := BillResponse{
		ID:              b.ID,
		TenantID:        b.TenantID,
		UtilityType:     b.UtilityType,
		Period:          b.Period,
		PreviousReading: b.PreviousReading,
		CurrentReading:  b.CurrentReading,
		ChargePerUnit:   b.ChargePerUnit,
		VATRate:         b.VATRate,
		Units:           b.Units,
		TotalAmount:     b.TotalAmount,
		VATAmount:       b.VATAmount,
		GrandTotal:      b.GrandTotal,
		AmountPaid:      b.AmountPaid,
		Balance:         b.Balance(),
		Status:          string(b.EffectiveStatus(time.Now())),
		DueDate:         b.DueDate,
	}

	if b.Tenant.ID != 0 {
		resp.TenantName = b.Tenant.FullName
	}

	return resp
}
