// internal/services/partner_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

type PartnerService struct {
	db *gorm.DB
}

type CreatePartnerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

func (s *PartnerService) CreatePartner(req *CreatePartnerRequest) (*models.Partner, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	partner := &models.Partner{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	if err := s.db.Create(partner).Error; err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	return partner, nil
}

func (s *PartnerService) GetPartner(id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := s.db.Preload("Offers").First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("partner not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &partner, nil
}

func (s *PartnerService) ListPartners(params utils.PaginationParams) ([]models.Partner, int64, error) {
	query := s.db.Model(&models.Partner{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var partners []models.Partner
	if err := query.Find(&partners).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch partners: %w", err)
	}

	return partners, total, nil
}
