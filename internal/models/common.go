// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type PropertyState string

const (
	PropertyStateNew           PropertyState = "new"
	PropertyStateOfferReceived PropertyState = "offer_received"
	PropertyStateOfferAccepted PropertyState = "offer_accepted"
	PropertyStateSold          PropertyState = "sold"
	PropertyStateCanceled      PropertyState = "canceled"
)

type GardenOrientation string

const (
	GardenOrientationNorth GardenOrientation = "north"
	GardenOrientationSouth GardenOrientation = "south"
	GardenOrientationEast  GardenOrientation = "east"
	GardenOrientationWest  GardenOrientation = "west"
)

type OfferStatus string

const (
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRefused  OfferStatus = "refused"
)

type UserRole string

const (
	UserRoleAgent UserRole = "agent"
	UserRoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusPosted InvoiceStatus = "posted"
)
