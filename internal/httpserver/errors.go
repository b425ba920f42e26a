package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

// writeError maps domain error kinds to HTTP statuses. Errors of no known
// kind get the fallback status.
func writeError(c *gin.Context, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrIncorrectPassword):
		status = http.StatusBadRequest
	}

	detail := err.Error()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		detail = "Internal server error: " + detail
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return false
	}
	return true
}
