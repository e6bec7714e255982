// internal/models/invoice.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the accounting entry generated when a property sale
// completes: one commission line plus fixed administrative fees.
type Invoice struct {
	BaseModel
	PropertyID uuid.UUID     `json:"property_id" gorm:"type:uuid;not null;uniqueIndex"`
	PartnerID  uuid.UUID     `json:"partner_id" gorm:"type:uuid;not null;index"`
	Status     InvoiceStatus `json:"status" gorm:"type:varchar(10);default:'draft'"`
	Total      float64       `json:"total" gorm:"type:decimal(12,2);not null"`
	IssuedAt   time.Time     `json:"issued_at"`

	// Relationships
	Property Property      `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Partner  Partner       `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
	Lines    []InvoiceLine `json:"lines,omitempty" gorm:"foreignKey:InvoiceID"`
}

type InvoiceLine struct {
	BaseModel
	InvoiceID uuid.UUID `json:"invoice_id" gorm:"type:uuid;not null;index"`
	Label     string    `json:"label" gorm:"size:255;not null"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
}
