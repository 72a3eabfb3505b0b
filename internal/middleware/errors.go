package middleware

import (
	"errors"
	"net/http"

	"workorder-api/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const internalErrorDetail = "Internal server error"

// WriteError aborts the request with a {"detail": ...} body. Server errors only expose
// their cause when gin runs in debug mode.
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	detail := internalErrorDetail

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status = appErr.Kind.Status()
		detail = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		if gin.IsDebugging() {
			detail = detail + ": " + err.Error()
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
