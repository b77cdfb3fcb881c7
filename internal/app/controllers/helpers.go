// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meetapp/backend/internal/app/models/dto"
)

// currentUserID pulls the authenticated caller's id out of the gin context.
// The auth middleware stores it under "userID"; a miss means the route was
// wired without authentication.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// requireUserID responds with 401 and returns false when no caller identity
// is present.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses the named path parameter as a UUID. Malformed ids get
// a 404 rather than a 400 so that guessing ids is indistinguishable from
// missing resources.
func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
