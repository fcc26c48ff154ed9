package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chatbottax/your-nemt-app/internal/repository"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error             string `json:"error"`
	ConflictingTripID string `json:"conflicting_trip_id,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:             conflict.Error(),
			ConflictingTripID: conflict.ConflictingTripID,
		})
		return
	}

	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidStudentID),
		errors.Is(err, service.ErrInvalidRouteName),
		errors.Is(err, service.ErrNegativePay),
		errors.Is(err, service.ErrInvalidSummaryRange),
		errors.Is(err, service.ErrUnresolvedStudentRow),
		errors.Is(err, service.ErrStudentLocationUnresolved):
		return http.StatusBadRequest

	// Contention on the same trip
	case errors.Is(err, service.ErrTripBeingAssigned):
		return http.StatusConflict

	// No candidates to assign
	case errors.Is(err, service.ErrNoDrivers):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
