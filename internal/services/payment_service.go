// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/config"
	"github.com/homestead/estate-backend/internal/models"
)

// PaymentService optionally collects a down payment from the buyer when
// their offer is accepted. Disabled unless a Stripe key is configured.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

func (s *PaymentService) CreateDepositIntent(property *models.Property, offer *models.Offer) (*PaymentIntentResponse, error) {
	if !s.config.Payment.CollectDeposits || s.config.Payment.StripeSecretKey == "" {
		return nil, nil
	}

	deposit := offer.Price * s.config.Payment.DepositPercent / 100
	amountInCents := int64(deposit * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.DepositCurrency),
	}
	params.AddMetadata("property_id", property.ID.String())
	params.AddMetadata("offer_id", offer.ID.String())
	params.AddMetadata("buyer_id", offer.BuyerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}
