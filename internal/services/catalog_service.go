// internal/services/catalog_service.go
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

// CatalogService manages the flat lookup entities: property types and
// tags.
type CatalogService struct {
	db *gorm.DB
}

type CreatePropertyTypeRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Sequence int    `json:"sequence,omitempty" validate:"omitempty,min=0"`
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color int    `json:"color,omitempty" validate:"omitempty,min=0"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) CreatePropertyType(req *CreatePropertyTypeRequest) (*models.PropertyType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	propertyType := &models.PropertyType{
		Name:     req.Name,
		Sequence: req.Sequence,
	}
	if propertyType.Sequence == 0 {
		propertyType.Sequence = 10
	}

	if err := s.db.Create(propertyType).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errors.New("property type name already exists")
		}
		return nil, fmt.Errorf("failed to create property type: %w", err)
	}

	return propertyType, nil
}

func (s *CatalogService) ListPropertyTypes() ([]models.PropertyType, error) {
	var types []models.PropertyType
	if err := s.db.Order("sequence asc, name asc").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch property types: %w", err)
	}
	return types, nil
}

func (s *CatalogService) DeletePropertyType(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Property{}).Where("property_type_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check property type usage: %w", err)
	}
	if count > 0 {
		return errors.New("property type is still assigned to properties")
	}

	result := s.db.Delete(&models.PropertyType{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete property type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("property type not found")
	}
	return nil
}

// CreateTag enforces exact-match name uniqueness across the catalog.
func (s *CatalogService) CreateTag(req *CreateTagRequest) (*models.Tag, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Tag{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check tag name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateTagName
	}

	tag := &models.Tag{
		Name:  req.Name,
		Color: req.Color,
	}

	if err := s.db.Create(tag).Error; err != nil {
		// The unique index backstops a racing insert.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTagName
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

func (s *CatalogService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogService) DeleteTag(id uuid.UUID) error {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("tag not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Exec("DELETE FROM property_tags WHERE tag_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}

	if err := s.db.Delete(&tag).Error; err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
