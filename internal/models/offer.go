// internal/models/offer.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a bid from a partner against a single property. Validity is
// the authoritative duration field; the deadline is derived from it and
// the property's creation date.
type Offer struct {
	BaseModel
	Price    float64     `json:"price" gorm:"type:decimal(12,2);not null;check:price > 0"`
	Validity int         `json:"validity" gorm:"default:7"`
	Status   OfferStatus `json:"status" gorm:"type:varchar(10)"`

	BuyerID    uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID `json:"property_id" gorm:"type:uuid;not null;index"`

	// Projection of the property's type, persisted for query efficiency.
	PropertyTypeID *uuid.UUID `json:"property_type_id" gorm:"type:uuid;index"`

	DateDeadline time.Time `json:"date_deadline" gorm:"-"`

	// Relationships
	Buyer        Partner       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Property     *Property     `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	PropertyType *PropertyType `json:"property_type,omitempty" gorm:"foreignKey:PropertyTypeID"`
}

// DeadlineFrom derives the offer deadline from the property's creation
// date and the validity window.
func (o *Offer) DeadlineFrom(propertyCreatedAt time.Time) time.Time {
	return truncateToDay(propertyCreatedAt).AddDate(0, 0, o.Validity)
}

// ValidityUntil rewrites validity so that the deadline lands on the
// given date. The inverse of DeadlineFrom.
func (o *Offer) ValidityUntil(deadline, propertyCreatedAt time.Time) int {
	return int(truncateToDay(deadline).Sub(truncateToDay(propertyCreatedAt)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
