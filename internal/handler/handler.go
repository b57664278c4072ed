package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
)

// respondError maps a service error onto the HTTP surface: not-found errors
// become 404, validation errors 400, storage timeouts 503 (retryable), and
// everything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case service.NotFound(err):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
	case service.Validation(err):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "storage temporarily unavailable",
			Message: "the request timed out, it is safe to retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
}

// currentUserID reads the authenticated user injected by the auth middleware
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}
