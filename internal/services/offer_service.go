// internal/services/offer_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

type OfferService struct {
	db             *gorm.DB
	paymentService *PaymentService
}

type SubmitOfferRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	BuyerID    uuid.UUID `json:"buyer_id" validate:"required"`
	Price      float64   `json:"price" validate:"required,gt=0"`
	Validity   *int      `json:"validity,omitempty" validate:"omitempty,min=1"`
}

type UpdateDeadlineRequest struct {
	DateDeadline time.Time `json:"date_deadline" validate:"required"`
}

func NewOfferService(db *gorm.DB, paymentService *PaymentService) *OfferService {
	return &OfferService{
		db:             db,
		paymentService: paymentService,
	}
}

// SubmitOffer admits a new bid. The price must strictly exceed every
// existing offer on the property; the max is read under lock so two
// racing bids cannot both pass against stale state.
func (s *OfferService) SubmitOffer(req *SubmitOfferRequest) (*models.Offer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var offer *models.Offer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, req.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("property not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		var buyer models.Partner
		if err := tx.First(&buyer, req.BuyerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("buyer not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		var existing []models.Offer
		if err := tx.Where("property_id = ?", req.PropertyID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load existing offers: %w", err)
		}

		if len(existing) > 0 {
			maxPrice := models.BestOfferPrice(existing)
			if utils.FloatCompare(req.Price, maxPrice) <= 0 {
				return fmt.Errorf("the offer must be higher than %.2f", maxPrice)
			}
		}

		offer = &models.Offer{
			Price:          req.Price,
			Validity:       7,
			BuyerID:        req.BuyerID,
			PropertyID:     req.PropertyID,
			PropertyTypeID: property.PropertyTypeID,
		}
		if req.Validity != nil {
			offer.Validity = *req.Validity
		}

		if err := tx.Create(offer).Error; err != nil {
			return fmt.Errorf("failed to create offer: %w", err)
		}

		if property.State == models.PropertyStateNew {
			if err := tx.Model(&property).Update("state", models.PropertyStateOfferReceived).Error; err != nil {
				return fmt.Errorf("failed to update property state: %w", err)
			}
		}

		offer.DateDeadline = offer.DeadlineFrom(property.CreatedAt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOffer(offer.ID)
}

func (s *OfferService) GetOffer(id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.Preload("Buyer").Preload("Property").Preload("PropertyType").
		First(&offer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("offer not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if offer.Property != nil {
		offer.DateDeadline = offer.DeadlineFrom(offer.Property.CreatedAt)
	}
	return &offer, nil
}

// AcceptOffer is terminal for the offer and atomically pushes the sale
// onto the property: state, selling price, and buyer move together or
// not at all. The 90% price floor is checked before anything commits.
func (s *OfferService) AcceptOffer(id uuid.UUID) (*models.Offer, error) {
	var accepted *models.Offer
	var property models.Property

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var offer models.Offer
		if err := lockForUpdate(tx).First(&offer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("offer not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if offer.Status == models.OfferStatusAccepted {
			return ErrOfferAlreadyAccepted
		}

		if err := lockForUpdate(tx).First(&property, offer.PropertyID).Error; err != nil {
			return fmt.Errorf("failed to load property: %w", err)
		}

		if err := checkPriceInvariant(offer.Price, property.ExpectedPrice); err != nil {
			return err
		}

		if err := tx.Model(&offer).Update("status", models.OfferStatusAccepted).Error; err != nil {
			return fmt.Errorf("failed to accept offer: %w", err)
		}

		updates := map[string]interface{}{
			"state":         models.PropertyStateOfferAccepted,
			"selling_price": offer.Price,
			"buyer_id":      offer.BuyerID,
		}
		if err := tx.Model(&property).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}

		accepted = &offer
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Down-payment collection is best effort and never blocks the
	// acceptance that already committed.
	if s.paymentService != nil {
		if _, err := s.paymentService.CreateDepositIntent(&property, accepted); err != nil {
			logrus.WithError(err).WithField("offer_id", accepted.ID).
				Warn("Failed to create deposit payment intent")
		}
	}

	return s.GetOffer(id)
}

// RefuseOffer marks the offer refused. No effect on the property.
func (s *OfferService) RefuseOffer(id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := s.db.First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("offer not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&offer).Update("status", models.OfferStatusRefused).Error; err != nil {
		return nil, fmt.Errorf("failed to refuse offer: %w", err)
	}

	return s.GetOffer(id)
}

// UpdateDeadline edits the derived deadline by rewriting validity, the
// authoritative field, as the day count from the property's creation
// date to the new deadline.
func (s *OfferService) UpdateDeadline(id uuid.UUID, req *UpdateDeadlineRequest) (*models.Offer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	offer, err := s.GetOffer(id)
	if err != nil {
		return nil, err
	}
	if offer.Property == nil {
		return nil, errors.New("offer has no property")
	}

	validity := offer.ValidityUntil(req.DateDeadline, offer.Property.CreatedAt)
	if validity < 1 {
		return nil, errors.New("deadline must be after the property listing date")
	}

	if err := s.db.Model(&models.Offer{}).Where("id = ?", id).
		Update("validity", validity).Error; err != nil {
		return nil, fmt.Errorf("failed to update validity: %w", err)
	}

	return s.GetOffer(id)
}

func (s *OfferService) ListByProperty(propertyID uuid.UUID, params utils.PaginationParams) ([]models.Offer, int64, error) {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, errors.New("property not found")
		}
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query := s.db.Model(&models.Offer{}).Where("property_id = ?", propertyID).
		Preload("Buyer").Preload("PropertyType")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count offers: %w", err)
	}

	allowedSortFields := []string{"created_at", "price", "validity", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var offers []models.Offer
	if err := query.Find(&offers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch offers: %w", err)
	}

	for i := range offers {
		offers[i].DateDeadline = offers[i].DeadlineFrom(property.CreatedAt)
	}

	return offers, total, nil
}
