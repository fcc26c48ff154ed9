package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

// TripHandler handles HTTP requests for trips and assignment.
type TripHandler struct {
	assignmentService *service.AssignmentService
	tripRepo          repository.TripRepository
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(assignmentService *service.AssignmentService, tripRepo repository.TripRepository) *TripHandler {
	return &TripHandler{assignmentService: assignmentService, tripRepo: tripRepo}
}

// CreateTripRequest is the HTTP request body for creating a trip.
// Pickup/dropoff are optional RFC 3339 timestamps.
type CreateTripRequest struct {
	RouteID     string `json:"route_id"`
	StudentID   string `json:"student_id"`
	PickupTime  string `json:"pickup_time"`
	DropoffTime string `json:"dropoff_time"`
}

// AssignTripRequest is the HTTP request body for assigning a trip.
// An empty driver_id asks the engine to rank drivers automatically.
type AssignTripRequest struct {
	DriverID string `json:"driver_id"`
}

// AssignmentResponse is the HTTP shape of an assignment record.
type AssignmentResponse struct {
	DriverID        string `json:"driver_id"`
	DurationSeconds int64  `json:"duration_s"`
	DistanceMeters  int64  `json:"distance_m"`
	DecidedAt       string `json:"decided_at"`
	Method          string `json:"method"`
}

// TripResponse is the HTTP response for trip data.
type TripResponse struct {
	ID               string              `json:"id"`
	RouteID          string              `json:"route_id"`
	StudentID        string              `json:"student_id"`
	PickupTime       string              `json:"pickup_time,omitempty"`
	DropoffTime      string              `json:"dropoff_time,omitempty"`
	AssignedDriverID string              `json:"assigned_driver_id,omitempty"`
	Assignment       *AssignmentResponse `json:"assignment,omitempty"`
	CreatedAt        string              `json:"created_at"`
}

func toAssignmentResponse(a *domain.Assignment) *AssignmentResponse {
	if a == nil {
		return nil
	}
	return &AssignmentResponse{
		DriverID:        a.DriverID,
		DurationSeconds: a.DurationSeconds,
		DistanceMeters:  a.DistanceMeters,
		DecidedAt:       a.DecidedAt.Format(time.RFC3339),
		Method:          string(a.Method),
	}
}

func toTripResponse(t *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:               t.ID,
		RouteID:          t.RouteID,
		StudentID:        t.StudentID,
		AssignedDriverID: t.AssignedDriverID,
		Assignment:       toAssignmentResponse(t.Assignment),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
	}
	if !t.PickupTime.IsZero() {
		resp.PickupTime = t.PickupTime.Format(time.RFC3339)
	}
	if !t.DropoffTime.IsZero() {
		resp.DropoffTime = t.DropoffTime.Format(time.RFC3339)
	}
	return resp
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.RouteID == "" || req.StudentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "route_id and student_id are required"})
		return
	}

	trip := &domain.Trip{
		ID:        uuid.New().String(),
		RouteID:   req.RouteID,
		StudentID: req.StudentID,
		CreatedAt: time.Now(),
	}

	if req.PickupTime != "" {
		t, err := time.Parse(time.RFC3339, req.PickupTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pickup_time"})
			return
		}
		trip.PickupTime = t
	}
	if req.DropoffTime != "" {
		t, err := time.Parse(time.RFC3339, req.DropoffTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid dropoff_time"})
			return
		}
		trip.DropoffTime = t
	}

	if err := h.tripRepo.Create(c.Request.Context(), trip); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTripResponse(trip))
}

// GetByDay handles GET /v1/trips?day=YYYY-MM-DD
func (h *TripHandler) GetByDay(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "day query parameter is required"})
		return
	}

	from, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid day, expected YYYY-MM-DD"})
		return
	}
	to := from.AddDate(0, 0, 1)

	trips, err := h.tripRepo.ListByCreatedRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		response = append(response, toTripResponse(t))
	}

	c.JSON(http.StatusOK, response)
}

// Assign handles POST /v1/trips/:id/assign
func (h *TripHandler) Assign(c *gin.Context) {
	tripID := c.Param("id")

	// The body is optional: absent means automatic assignment.
	var req AssignTripRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	trip, err := h.assignmentService.Assign(c.Request.Context(), service.AssignRequest{
		TripID:   tripID,
		DriverID: req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

// Propose handles POST /v1/trips/:id/propose — ranks drivers without
// persisting, so dispatchers can preview the engine's choice.
func (h *TripHandler) Propose(c *gin.Context) {
	tripID := c.Param("id")

	trip, err := h.tripRepo.GetByID(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	assignment, err := h.assignmentService.Propose(c.Request.Context(), trip)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAssignmentResponse(assignment))
}
