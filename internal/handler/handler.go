package handler

import (
	"workorder-api/internal/apperror"
	"workorder-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseID reads a UUID path parameter, writing a 400 when it is malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.WriteError(c, apperror.Validation("Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body into dst, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.WriteError(c, apperror.Validation("Invalid request body: "+err.Error()))
		return false
	}
	return true
}
