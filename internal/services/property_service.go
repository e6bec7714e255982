// internal/services/property_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

type PropertyService struct {
	db                *gorm.DB
	accountingService *AccountingService
}

type CreatePropertyRequest struct {
	Name              string      `json:"name" validate:"required,min=1,max=255"`
	Description       string      `json:"description,omitempty"`
	Postcode          string      `json:"postcode,omitempty" validate:"omitempty,max=20"`
	DateAvailability  *time.Time  `json:"date_availability,omitempty"`
	ExpectedPrice     float64     `json:"expected_price" validate:"min=0"`
	Bedrooms          *int        `json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	LivingArea        int         `json:"living_area,omitempty" validate:"min=0"`
	Facades           int         `json:"facades,omitempty" validate:"min=0"`
	Garage            bool        `json:"garage,omitempty"`
	Garden            bool        `json:"garden,omitempty"`
	GardenArea        int         `json:"garden_area,omitempty" validate:"min=0"`
	GardenOrientation string      `json:"garden_orientation,omitempty" validate:"garden_orientation"`
	PropertyTypeID    *uuid.UUID  `json:"property_type_id,omitempty"`
	TagIDs            []uuid.UUID `json:"tag_ids,omitempty"`
}

type UpdatePropertyRequest struct {
	Name              string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description       *string     `json:"description,omitempty"`
	Postcode          *string     `json:"postcode,omitempty"`
	DateAvailability  *time.Time  `json:"date_availability,omitempty"`
	ExpectedPrice     *float64    `json:"expected_price,omitempty" validate:"omitempty,min=0"`
	Bedrooms          *int        `json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	LivingArea        *int        `json:"living_area,omitempty" validate:"omitempty,min=0"`
	Facades           *int        `json:"facades,omitempty" validate:"omitempty,min=0"`
	Garage            *bool       `json:"garage,omitempty"`
	Garden            *bool       `json:"garden,omitempty"`
	GardenArea        *int        `json:"garden_area,omitempty" validate:"omitempty,min=0"`
	GardenOrientation string      `json:"garden_orientation,omitempty" validate:"garden_orientation"`
	PropertyTypeID    *uuid.UUID  `json:"property_type_id,omitempty"`
	TagIDs            []uuid.UUID `json:"tag_ids,omitempty"`
}

type PropertySearchParams struct {
	utils.PaginationParams
	State         *models.PropertyState `json:"state,omitempty"`
	TypeID        *uuid.UUID            `json:"type_id,omitempty"`
	SalesmanID    *uuid.UUID            `json:"salesman_id,omitempty"`
	Postcode      string                `json:"postcode,omitempty"`
	PriceMin      *float64              `json:"price_min,omitempty"`
	PriceMax      *float64              `json:"price_max,omitempty"`
	AvailableBy   *time.Time            `json:"available_by,omitempty"`
	IncludeClosed bool                  `json:"include_closed,omitempty"`
}

func NewPropertyService(db *gorm.DB, accountingService *AccountingService) *PropertyService {
	return &PropertyService{
		db:                db,
		accountingService: accountingService,
	}
}

// CreateProperty registers a new listing. The acting user is the
// default salesman; availability defaults to three months out.
func (s *PropertyService) CreateProperty(salesmanID uuid.UUID, req *CreatePropertyRequest) (*models.Property, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var salesman models.User
	if err := s.db.First(&salesman, salesmanID).Error; err != nil {
		return nil, fmt.Errorf("salesman not found: %w", err)
	}

	if salesman.Status != models.UserStatusActive {
		return nil, errors.New("salesman account is not active")
	}

	property := &models.Property{
		Name:              req.Name,
		Description:       req.Description,
		Postcode:          req.Postcode,
		ExpectedPrice:     req.ExpectedPrice,
		Bedrooms:          2,
		LivingArea:        req.LivingArea,
		Facades:           req.Facades,
		Garage:            req.Garage,
		Garden:            req.Garden,
		GardenArea:        req.GardenArea,
		GardenOrientation: models.GardenOrientationNorth,
		State:             models.PropertyStateNew,
		Active:            true,
		SalesmanID:        salesmanID,
		PropertyTypeID:    req.PropertyTypeID,
	}

	if req.DateAvailability != nil {
		property.DateAvailability = *req.DateAvailability
	} else {
		property.DateAvailability = time.Now().AddDate(0, 3, 0)
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.GardenOrientation != "" {
		property.GardenOrientation = models.GardenOrientation(req.GardenOrientation)
	}

	if len(req.TagIDs) > 0 {
		tags, err := s.resolveTags(req.TagIDs)
		if err != nil {
			return nil, err
		}
		property.Tags = tags
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return s.GetProperty(property.ID)
}

func (s *PropertyService) GetProperty(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := s.db.Preload("PropertyType").Preload("Salesman").Preload("Buyer").
		Preload("Tags").Preload("Offers").
		First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &property, nil
}

func (s *PropertyService) SearchProperties(params PropertySearchParams) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{}).
		Preload("PropertyType").Preload("Tags").Preload("Offers")

	if params.State != nil {
		query = query.Where("state = ?", *params.State)
	} else if !params.IncludeClosed {
		query = query.Where("state NOT IN ?", []models.PropertyState{
			models.PropertyStateSold, models.PropertyStateCanceled,
		})
	}

	query = query.Where("active = ?", true)

	if params.TypeID != nil {
		query = query.Where("property_type_id = ?", *params.TypeID)
	}

	if params.SalesmanID != nil {
		query = query.Where("salesman_id = ?", *params.SalesmanID)
	}

	if params.Postcode != "" {
		query = query.Where("postcode = ?", params.Postcode)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("expected_price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("expected_price <= ?", *params.PriceMax)
	}

	if params.AvailableBy != nil {
		query = query.Where("date_availability <= ?", *params.AvailableBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "expected_price", "date_availability", "state"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

// UpdateProperty changes descriptive attributes and the expected price.
// State and selling price are never caller-writable; the price invariant
// is re-checked against the persisted selling price.
func (s *PropertyService) UpdateProperty(id uuid.UUID, req *UpdatePropertyRequest) (*models.Property, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("property not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := make(map[string]interface{})
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Postcode != nil {
			updates["postcode"] = *req.Postcode
		}
		if req.DateAvailability != nil {
			updates["date_availability"] = *req.DateAvailability
		}
		if req.ExpectedPrice != nil {
			if err := checkPriceInvariant(property.SellingPrice, *req.ExpectedPrice); err != nil {
				return err
			}
			updates["expected_price"] = *req.ExpectedPrice
		}
		if req.Bedrooms != nil {
			updates["bedrooms"] = *req.Bedrooms
		}
		if req.LivingArea != nil {
			updates["living_area"] = *req.LivingArea
		}
		if req.Facades != nil {
			updates["facades"] = *req.Facades
		}
		if req.Garage != nil {
			updates["garage"] = *req.Garage
		}
		if req.Garden != nil {
			updates["garden"] = *req.Garden
		}
		if req.GardenArea != nil {
			updates["garden_area"] = *req.GardenArea
		}
		if req.GardenOrientation != "" {
			updates["garden_orientation"] = req.GardenOrientation
		}
		if req.PropertyTypeID != nil {
			updates["property_type_id"] = *req.PropertyTypeID
		}

		if len(updates) > 0 {
			if err := tx.Model(&property).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update property: %w", err)
			}
		}

		if req.TagIDs != nil {
			tags, err := s.resolveTagsTx(tx, req.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&property).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to update tags: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProperty(id)
}

// DeleteProperty removes a listing and its offers. Permitted only while
// the property is still new or already canceled; the state is re-read
// under lock so a racing transition cannot slip through.
func (s *PropertyService) DeleteProperty(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("property not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !property.CanDelete() {
			logrus.WithFields(logrus.Fields{
				"property_id": property.ID,
				"name":        property.Name,
				"state":       property.State,
			}).Warn("Rejected property deletion")
			return fmt.Errorf("%s: %w", property.Name, ErrDeleteActiveProperty)
		}

		if err := tx.Where("property_id = ?", id).Delete(&models.Offer{}).Error; err != nil {
			return fmt.Errorf("failed to delete offers: %w", err)
		}

		if err := tx.Delete(&property).Error; err != nil {
			return fmt.Errorf("failed to delete property: %w", err)
		}

		return nil
	})
}

// MarkSold completes the sale and, when a buyer is on record, creates
// the accounting entry in the same transaction.
func (s *PropertyService) MarkSold(id uuid.UUID) (*models.Property, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("property not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if property.State == models.PropertyStateCanceled {
			return ErrSellCanceledProperty
		}
		if property.State == models.PropertyStateSold {
			return nil
		}

		if err := tx.Model(&property).Update("state", models.PropertyStateSold).Error; err != nil {
			return fmt.Errorf("failed to mark property sold: %w", err)
		}
		property.State = models.PropertyStateSold

		if property.BuyerID != nil {
			if _, err := s.accountingService.CreateSaleInvoice(tx, &property); err != nil {
				return fmt.Errorf("failed to create sale invoice: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProperty(id)
}

func (s *PropertyService) CancelProperty(id uuid.UUID) (*models.Property, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("property not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if property.State == models.PropertyStateSold {
			return ErrCancelSoldProperty
		}
		if property.State == models.PropertyStateCanceled {
			return nil
		}

		if err := tx.Model(&property).Update("state", models.PropertyStateCanceled).Error; err != nil {
			return fmt.Errorf("failed to cancel property: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProperty(id)
}

// DuplicateProperty copies a listing for relisting. Availability resets
// to the default window; selling price, state, buyer, and offers are
// never carried over.
func (s *PropertyService) DuplicateProperty(id uuid.UUID, salesmanID uuid.UUID) (*models.Property, error) {
	original, err := s.GetProperty(id)
	if err != nil {
		return nil, err
	}

	clone := &models.Property{
		Name:              original.Name + " (copy)",
		Description:       original.Description,
		Postcode:          original.Postcode,
		DateAvailability:  time.Now().AddDate(0, 3, 0),
		ExpectedPrice:     original.ExpectedPrice,
		Bedrooms:          original.Bedrooms,
		LivingArea:        original.LivingArea,
		Facades:           original.Facades,
		Garage:            original.Garage,
		Garden:            original.Garden,
		GardenArea:        original.GardenArea,
		GardenOrientation: original.GardenOrientation,
		State:             models.PropertyStateNew,
		Active:            true,
		Photos:            original.Photos,
		PropertyTypeID:    original.PropertyTypeID,
		SalesmanID:        salesmanID,
		Tags:              original.Tags,
	}

	if err := s.db.Create(clone).Error; err != nil {
		return nil, fmt.Errorf("failed to duplicate property: %w", err)
	}

	return s.GetProperty(clone.ID)
}

// AddPhotos appends uploaded photo URLs to the listing.
func (s *PropertyService) AddPhotos(id uuid.UUID, urls []string) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	property.Photos = append(property.Photos, urls...)
	if err := s.db.Model(&property).Update("photos", property.Photos).Error; err != nil {
		return nil, fmt.Errorf("failed to save photos: %w", err)
	}

	return s.GetProperty(id)
}

// checkPriceInvariant enforces the 90% floor: a non-zero selling price
// must stay at or above 90% of the expected price, with rounding
// tolerance of one cent.
func checkPriceInvariant(sellingPrice, expectedPrice float64) error {
	if utils.FloatIsZero(sellingPrice) {
		return nil
	}
	if utils.FloatCompare(sellingPrice, expectedPrice*0.9) < 0 {
		return ErrSellingPriceTooLow
	}
	return nil
}

func (s *PropertyService) resolveTags(ids []uuid.UUID) ([]models.Tag, error) {
	return s.resolveTagsTx(s.db, ids)
}

func (s *PropertyService) resolveTagsTx(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, errors.New("one or more tags not found")
	}
	return tags, nil
}
