// internal/services/accounting_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/config"
	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

// AccountingService is the collaborator notified when a property sale
// completes. One sale produces one invoice: a commission line plus
// fixed administrative fees.
type AccountingService struct {
	db     *gorm.DB
	config *config.Config
}

func NewAccountingService(db *gorm.DB, config *config.Config) *AccountingService {
	return &AccountingService{
		db:     db,
		config: config,
	}
}

// CreateSaleInvoice runs inside the caller's transaction so the invoice
// commits atomically with the sold transition.
func (s *AccountingService) CreateSaleInvoice(tx *gorm.DB, property *models.Property) (*models.Invoice, error) {
	if property.BuyerID == nil {
		return nil, errors.New("property has no buyer")
	}
	if utils.FloatIsZero(property.SellingPrice) {
		return nil, errors.New("property has no selling price")
	}

	commission := property.SellingPrice * s.config.Estate.CommissionPercent / 100
	fees := s.config.Estate.AdministrativeFees

	invoice := &models.Invoice{
		PropertyID: property.ID,
		PartnerID:  *property.BuyerID,
		Status:     models.InvoiceStatusDraft,
		Total:      commission + fees,
		IssuedAt:   time.Now(),
		Lines: []models.InvoiceLine{
			{
				Label:  fmt.Sprintf("%.2f%% commission on %s", s.config.Estate.CommissionPercent, property.Name),
				Amount: commission,
			},
			{
				Label:  "Administrative fees",
				Amount: fees,
			},
		},
	}

	if err := tx.Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"invoice_id":  invoice.ID,
		"property_id": property.ID,
		"total":       invoice.Total,
	}).Info("Sale invoice created")

	return invoice, nil
}

func (s *AccountingService) GetInvoiceForProperty(propertyID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Lines").Preload("Partner").
		Where("property_id = ?", propertyID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invoice not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &invoice, nil
}

func (s *AccountingService) ListInvoices(params utils.PaginationParams) ([]models.Invoice, int64, error) {
	query := s.db.Model(&models.Invoice{}).Preload("Lines").Preload("Partner")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	allowedSortFields := []string{"created_at", "issued_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	return invoices, total, nil
}
