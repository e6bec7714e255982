// internal/models/partner.go
package models

// Partner is an external contact, typically a prospective buyer placing
// offers. Kept separate from User: partners never authenticate.
type Partner struct {
	BaseModel
	Name  string `json:"name" gorm:"size:255;not null"`
	Email string `json:"email" gorm:"size:255;index"`
	Phone string `json:"phone" gorm:"size:50"`

	// Relationships
	Offers []Offer `json:"offers,omitempty" gorm:"foreignKey:BuyerID"`
}
