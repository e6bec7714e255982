// internal/handlers/property.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	storageService  *services.StorageService
}

func NewPropertyHandler(propertyService *services.PropertyService, storageService *services.StorageService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		storageService:  storageService,
	}
}

// GET /properties
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.PropertySearchParams{
		PaginationParams: params,
	}

	if state := c.Query("state"); state != "" {
		propertyState := models.PropertyState(state)
		searchParams.State = &propertyState
	}

	if typeIDStr := c.Query("type_id"); typeIDStr != "" {
		if typeID, err := uuid.Parse(typeIDStr); err == nil {
			searchParams.TypeID = &typeID
		}
	}

	if salesmanIDStr := c.Query("salesman_id"); salesmanIDStr != "" {
		if salesmanID, err := uuid.Parse(salesmanIDStr); err == nil {
			searchParams.SalesmanID = &salesmanID
		}
	}

	if postcode := c.Query("postcode"); postcode != "" {
		searchParams.Postcode = postcode
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	if availableByStr := c.Query("available_by"); availableByStr != "" {
		if availableBy, err := time.Parse("2006-01-02", availableByStr); err == nil {
			searchParams.AvailableBy = &availableBy
		}
	}

	if includeClosedStr := c.Query("include_closed"); includeClosedStr != "" {
		if includeClosed, err := strconv.ParseBool(includeClosedStr); err == nil {
			searchParams.IncludeClosed = includeClosed
		}
	}

	properties, total, err := h.propertyService.SearchProperties(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(properties, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /properties
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	salesmanID, ok := actingUser(c)
	if !ok {
		return
	}

	var req services.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	property, err := h.propertyService.CreateProperty(salesmanID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"property": property})
}

// GET /properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"property": property})
}

// PUT /properties/:id
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	property, err := h.propertyService.UpdateProperty(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"property": property})
}

// DELETE /properties/:id
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Property deleted"})
}

// POST /properties/:id/sold
func (h *PropertyHandler) MarkSold(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.MarkSold(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"property": property})
}

// POST /properties/:id/cancel
func (h *PropertyHandler) CancelProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.CancelProperty(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"property": property})
}

// POST /properties/:id/duplicate
func (h *PropertyHandler) DuplicateProperty(c *gin.Context) {
	salesmanID, ok := actingUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.DuplicateProperty(id, salesmanID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"property": property})
}

// GET /properties/garden-defaults
//
// Form assist for the garden toggle: suggested values for an
// uncommitted record, not a server-side constraint.
func (h *PropertyHandler) GardenDefaults(c *gin.Context) {
	enabled, err := strconv.ParseBool(c.DefaultQuery("enabled", "true"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid enabled flag", nil)
		return
	}

	utils.SuccessResponse(c, models.SuggestGardenDefaults(enabled))
}

// POST /properties/:id/photos
func (h *PropertyHandler) UploadPhotos(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No photos provided", nil)
		return
	}

	var urls []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read file", err.Error())
			return
		}

		result, err := h.storageService.UploadPropertyPhoto(id, file, header)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		urls = append(urls, result.URL)
	}

	property, err := h.propertyService.AddPhotos(id, urls)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"property": property, "uploaded": urls})
}
