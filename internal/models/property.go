// internal/models/property.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Property struct {
	BaseModel
	Name              string            `json:"name" gorm:"size:255;not null"`
	Description       string            `json:"description" gorm:"type:text"`
	Postcode          string            `json:"postcode" gorm:"size:20;index"`
	DateAvailability  time.Time         `json:"date_availability"`
	ExpectedPrice     float64           `json:"expected_price" gorm:"type:decimal(12,2);not null;check:expected_price >= 0"`
	SellingPrice      float64           `json:"selling_price" gorm:"type:decimal(12,2);default:0;check:selling_price >= 0"`
	Bedrooms          int               `json:"bedrooms" gorm:"default:2"`
	LivingArea        int               `json:"living_area" gorm:"default:0"`
	Facades           int               `json:"facades" gorm:"default:0"`
	Garage            bool              `json:"garage" gorm:"default:false"`
	Garden            bool              `json:"garden" gorm:"default:false"`
	GardenArea        int               `json:"garden_area" gorm:"default:0"`
	GardenOrientation GardenOrientation `json:"garden_orientation" gorm:"type:varchar(10);default:'north'"`
	State             PropertyState     `json:"state" gorm:"type:varchar(20);not null;default:'new';index"`
	Active            bool              `json:"active" gorm:"default:true"`
	Photos            pq.StringArray    `json:"photos" gorm:"type:text[]"`

	PropertyTypeID *uuid.UUID `json:"property_type_id" gorm:"type:uuid;index"`
	SalesmanID     uuid.UUID  `json:"salesman_id" gorm:"type:uuid;not null;index"`
	BuyerID        *uuid.UUID `json:"buyer_id" gorm:"type:uuid;index"`

	// Derived, recomputed on load
	TotalArea int     `json:"total_area" gorm:"-"`
	BestPrice float64 `json:"best_price" gorm:"-"`

	// Relationships
	PropertyType *PropertyType `json:"property_type,omitempty" gorm:"foreignKey:PropertyTypeID"`
	Salesman     User          `json:"salesman,omitempty" gorm:"foreignKey:SalesmanID"`
	Buyer        *Partner      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Tags         []Tag         `json:"tags,omitempty" gorm:"many2many:property_tags"`
	Offers       []Offer       `json:"offers,omitempty" gorm:"foreignKey:PropertyID"`
}

func (p *Property) AfterFind(tx *gorm.DB) error {
	p.ComputeDerived()
	return nil
}

// ComputeDerived refreshes total_area and best_price from their inputs.
// BestPrice only reflects offers currently loaded on the record.
func (p *Property) ComputeDerived() {
	p.TotalArea = p.LivingArea + p.GardenArea
	p.BestPrice = BestOfferPrice(p.Offers)
}

func BestOfferPrice(offers []Offer) float64 {
	best := 0.0
	for _, o := range offers {
		if o.Price > best {
			best = o.Price
		}
	}
	return best
}

// CanDelete reports whether the listing may be removed at all. The
// service re-checks this inside the delete transaction.
func (p *Property) CanDelete() bool {
	return p.State == PropertyStateNew || p.State == PropertyStateCanceled
}

// GardenSuggestion is the UI-assist default applied when the garden flag
// is toggled on a form. It is a suggestion for uncommitted records, not
// a persisted-write constraint.
type GardenSuggestion struct {
	GardenArea        int               `json:"garden_area"`
	GardenOrientation GardenOrientation `json:"garden_orientation"`
}

func SuggestGardenDefaults(enabled bool) GardenSuggestion {
	if enabled {
		return GardenSuggestion{GardenArea: 10, GardenOrientation: GardenOrientationNorth}
	}
	return GardenSuggestion{GardenArea: 0, GardenOrientation: ""}
}
