package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chatbottax/your-nemt-app/internal/service"
)

// IntakeHandler handles HTTP requests for document intake acceptance.
type IntakeHandler struct {
	intakeService *service.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(intakeService *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// IntakeStudentRow is one reviewed student row in an accept request.
type IntakeStudentRow struct {
	Name                   string   `json:"name"`
	PickupFormattedAddress string   `json:"pickup_formatted_address"`
	PickupPlaceID          string   `json:"pickup_place_id"`
	PickupLat              *float64 `json:"pickup_lat"`
	PickupLng              *float64 `json:"pickup_lng"`
}

// AcceptIntakeRequest is the HTTP request body for accepting reviewed rows.
type AcceptIntakeRequest struct {
	RouteID  string             `json:"route_id"`
	Students []IntakeStudentRow `json:"students"`
}

// Accept handles POST /v1/intake/accept
func (h *IntakeHandler) Accept(c *gin.Context) {
	var req AcceptIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rows := make([]service.StudentRow, 0, len(req.Students))
	for _, s := range req.Students {
		rows = append(rows, service.StudentRow{
			Name:             s.Name,
			FormattedAddress: s.PickupFormattedAddress,
			PlaceID:          s.PickupPlaceID,
			Lat:              s.PickupLat,
			Lng:              s.PickupLng,
		})
	}

	students, err := h.intakeService.Accept(c.Request.Context(), req.RouteID, rows)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		response = append(response, toStudentResponse(s))
	}

	c.JSON(http.StatusCreated, gin.H{"students": response})
}
