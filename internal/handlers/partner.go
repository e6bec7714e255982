// internal/handlers/partner.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// GET /partners
func (h *PartnerHandler) GetPartners(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	partners, total, err := h.partnerService.ListPartners(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(partners, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /partners
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req services.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	partner, err := h.partnerService.CreatePartner(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"partner": partner})
}

// GET /partners/:id
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	partner, err := h.partnerService.GetPartner(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"partner": partner})
}
