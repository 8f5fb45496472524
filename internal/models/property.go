package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a managed property
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `gorm:"not null" json:"address"`
	City      string    `json:"city"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Units []Unit `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Unit represents a rentable unit within a property
type Unit struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	PropertyID uint            `gorm:"not null;index" json:"property_id"`
	Name       string          `gorm:"not null" json:"name"`
	Floor      *string         `json:"floor"`
	BaseRent   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"base_rent"`
	Status     string          `gorm:"default:vacant;index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenants  []Tenant `gorm:"foreignKey:UnitID" json:"tenants,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// Unit status constants
const (
	UnitStatusVacant   = "vacant"
	UnitStatusOccupied = "occupied"
)
