// internal/handlers/common.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homestead/estate-backend/internal/services"
	"github.com/homestead/estate-backend/internal/utils"
)

// actingUser resolves the authenticated user id from the request
// context. Operations that default the salesman take it explicitly
// rather than reading ambient session state further down.
func actingUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service failures onto the response envelope:
// rule violations are 422, missing records 404, everything else 400.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsRuleViolation(err):
		utils.UnprocessableResponse(c, err.Error())
	case strings.Contains(err.Error(), "not found"):
		utils.NotFoundResponse(c, strings.TrimSuffix(err.Error(), " not found"))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
