// internal/handlers/offer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

type OfferHandler struct {
	offerService *services.OfferService
}

func NewOfferHandler(offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// POST /offers
func (h *OfferHandler) SubmitOffer(c *gin.Context) {
	var req services.SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	offer, err := h.offerService.SubmitOffer(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"offer": offer})
}

// GET /offers/:id
func (h *OfferHandler) GetOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.GetOffer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"offer": offer})
}

// POST /offers/:id/accept
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.AcceptOffer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"offer": offer})
}

// POST /offers/:id/refuse
func (h *OfferHandler) RefuseOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.RefuseOffer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"offer": offer})
}

// PUT /offers/:id/deadline
func (h *OfferHandler) UpdateDeadline(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	offer, err := h.offerService.UpdateDeadline(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"offer": offer})
}

// GET /properties/:id/offers
func (h *OfferHandler) GetPropertyOffers(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	offers, total, err := h.offerService.ListByProperty(propertyID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(offers, total, params)
	utils.PaginatedResponse(c, result)
}
