// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /property-types
func (h *CatalogHandler) GetPropertyTypes(c *gin.Context) {
	types, err := h.catalogService.ListPropertyTypes()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"property_types": types})
}

// POST /property-types
func (h *CatalogHandler) CreatePropertyType(c *gin.Context) {
	var req services.CreatePropertyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	propertyType, err := h.catalogService.CreatePropertyType(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"property_type": propertyType})
}

// DELETE /property-types/:id
func (h *CatalogHandler) DeletePropertyType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeletePropertyType(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Property type deleted"})
}

// GET /tags
func (h *CatalogHandler) GetTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"tags": tags})
}

// POST /tags
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req services.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	tag, err := h.catalogService.CreateTag(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"tag": tag})
}

// DELETE /tags/:id
func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteTag(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Tag deleted"})
}
