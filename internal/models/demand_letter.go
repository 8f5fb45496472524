package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandLetter is a formal notice derived from a tenant's overdue invoices.
// It cites those invoices but does not own them; the outstanding amount is
// frozen when the draft is created.
type DemandLetter struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ReferenceNumber   string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"reference_number"`
	TenantID          uint            `gorm:"not null;index" json:"tenant_id"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"outstanding_amount"`
	RentalPeriodStart string          `gorm:"type:varchar(10);not null" json:"rental_period_start"`
	RentalPeriodEnd   string          `gorm:"type:varchar(10);not null" json:"rental_period_end"`
	ItemCount         int             `gorm:"not null" json:"item_count"`
	Status            string          `gorm:"type:varchar(20);default:draft;not null;index" json:"status"`
	SentAt            *time.Time      `json:"sent_at"`
	AcknowledgedAt    *time.Time      `json:"acknowledged_at"`
	SettledAt         *time.Time      `json:"settled_at"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for DemandLetter
func (DemandLetter) TableName() string {
	return "demand_letters"
}

// Demand letter status constants
const (
	DemandLetterStatusDraft        = "draft"
	DemandLetterStatusGenerated    = "generated"
	DemandLetterStatusSent         = "sent"
	DemandLetterStatusAcknowledged = "acknowledged"
	DemandLetterStatusSettled      = "settled"
	DemandLetterStatusEscalated    = "escalated"
)

// MayGenerate returns true if the letter can move from draft to generated
func (d *DemandLetter) MayGenerate() bool {
	return d.Status == DemandLetterStatusDraft
}

// MaySend returns true if the letter can be sent
func (d *DemandLetter) MaySend() bool {
	return d.Status == DemandLetterStatusGenerated
}

// MayAcknowledge returns true if the letter can be acknowledged
func (d *DemandLetter) MayAcknowledge() bool {
	return d.Status == DemandLetterStatusSent
}

// MaySettle returns true if the letter can be settled
func (d *DemandLetter) MaySettle() bool {
	return d.Status == DemandLetterStatusSent || d.Status == DemandLetterStatusAcknowledged
}

// MayEscalate returns true if the letter can be escalated
func (d *DemandLetter) MayEscalate() bool {
	return d.Status == DemandLetterStatusSent || d.Status == DemandLetterStatusAcknowledged
}

// DemandLetterResponse is the JSON response format for demand letters
type DemandLetterResponse struct {
	ID                uint            `json:"id"`
	ReferenceNumber   string          `json:"reference_number"`
	TenantID          uint            `json:"tenant_id"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	RentalPeriodStart string          `json:"rental_period_start"`
	RentalPeriodEnd   string          `json:"rental_period_end"`
	ItemCount         int             `json:"item_count"`
	Status            string          `json:"status"`
	SentAt            *time.Time      `json:"sent_at"`
	TenantName        string          `json:"tenant_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToResponse converts DemandLetter to DemandLetterResponse
func (d *DemandLetter) ToResponse() DemandLetterResponse {
	resp := DemandLetterResponse{
		ID:                d.ID,
		ReferenceNumber:   d.ReferenceNumber,
		TenantID:          d.TenantID,
		OutstandingAmount: d.OutstandingAmount,
		RentalPeriodStart: d.RentalPeriodStart,
		RentalPeriodEnd:   d.RentalPeriodEnd,
		ItemCount:         d.ItemCount,
		Status:            d.Status,
		SentAt:            d.SentAt,
		CreatedAt:         d.CreatedAt,
	}

	if d.Tenant.ID != 0 {
		resp.TenantName = d.Tenant.FullName
	}

	return resp
}
