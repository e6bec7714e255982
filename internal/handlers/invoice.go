// internal/handlers/invoice.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

type InvoiceHandler struct {
	accountingService *services.AccountingService
}

func NewInvoiceHandler(accountingService *services.AccountingService) *InvoiceHandler {
	return &InvoiceHandler{accountingService: accountingService}
}

// GET /invoices
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	invoices, total, err := h.accountingService.ListInvoices(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(invoices, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /properties/:id/invoice
func (h *InvoiceHandler) GetPropertyInvoice(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.accountingService.GetInvoiceForProperty(propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"invoice": invoice})
}
