package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/makaohq/makao-api/internal/billing"
)

// Tenant represents a tenant occupying a unit. Identity is immutable once
// created; the financial attributes (rent, service charge, VAT setup,
// payment policy) are operator-editable.
type Tenant struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	UnitID        uint                  `gorm:"not null;index" json:"unit_id"`
	FullName      string                `gorm:"not null" json:"full_name"`
	Email         string                `gorm:"index" json:"email"`
	Phone         string                `json:"phone"`
	PaymentPolicy billing.PaymentPolicy `gorm:"type:varchar(20);default:monthly;not null" json:"payment_policy"`
	Rent          decimal.Decimal       `gorm:"type:decimal(15,2);not null" json:"rent"`
	ServiceCharge decimal.Decimal       `gorm:"type:decimal(15,2);default:0" json:"service_charge"`
	VATType       billing.VATType       `gorm:"type:varchar(20);default:none" json:"vat_type"`
	VATRate       decimal.Decimal       `gorm:"type:decimal(5,2);default:0" json:"vat_rate"`
	Active        bool                  `gorm:"default:true;index" json:"active"`
	MoveInDate    *time.Time            `gorm:"type:date" json:"move_in_date"`

	// OverdueReminderSentAt throttles the daily reminder job; it never
	// affects document statuses.
	OverdueReminderSentAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Associations
	Unit         Unit          `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Bills        []Bill        `gorm:"foreignKey:TenantID" json:"bills,omitempty"`
	Invoices     []Invoice     `gorm:"foreignKey:TenantID" json:"invoices,omitempty"`
	BillInvoices []BillInvoice `gorm:"foreignKey:TenantID" json:"bill_invoices,omitempty"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate hook for setting defaults
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.PaymentPolicy == "" {
		t.PaymentPolicy = billing.PolicyMonthly
	}
	if t.VATType == "" {
		t.VATType = billing.VATNone
	}
	return nil
}

// RentCharge computes the policy-derived amount due for one rent invoice.
func (t *Tenant) RentCharge() billing.RentCharge {
	return billing.CalculateRentCharge(t.Rent, t.ServiceCharge, t.VATType, t.VATRate)
}

// TenantResponse is the JSON response format for tenants
type TenantResponse struct {
	ID            uint            `json:"id"`
	UnitID        uint            `json:"unit_id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	PaymentPolicy string          `json:"payment_policy"`
	Rent          decimal.Decimal `json:"rent"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	VATType       string          `json:"vat_type"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	Active        bool            `json:"active"`
	UnitName      string          `json:"unit_name,omitempty"`
	PropertyName  string          `json:"property_name,omitempty"`
}

// ToResponse converts Tenant to TenantResponse
func (t *Tenant) ToResponse() TenantResponse {
	resp := TenantResponse{
		ID:            t.ID,
		UnitID:        t.UnitID,
		FullName:      t.FullName,
		Email:         t.Email,
		Phone:         t.Phone,
		PaymentPolicy: string(t.PaymentPolicy),
		Rent:          t.Rent,
		ServiceCharge: t.ServiceCharge,
		VATType:       string(t.VATType),
		VATRate:       t.VATRate,
		Active:        t.Active,
	}

	if t.Unit.ID != 0 {
		resp.UnitName = t.Unit.Name
		if t.Unit.Property.ID != 0 {
			resp.PropertyName = t.Unit.Property.Name
		}
	}

	return resp
}
