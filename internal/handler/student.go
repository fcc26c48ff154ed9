package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// StudentHandler handles HTTP requests for students.
type StudentHandler struct {
	studentRepo repository.StudentRepository
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentRepo repository.StudentRepository) *StudentHandler {
	return &StudentHandler{studentRepo: studentRepo}
}

// CreateStudentRequest is the HTTP request body for student intake.
type CreateStudentRequest struct {
	Name                   string  `json:"name"`
	PickupFormattedAddress string  `json:"pickup_formatted_address"`
	PickupPlaceID          string  `json:"pickup_place_id"`
	PickupLat              float64 `json:"pickup_lat"`
	PickupLng              float64 `json:"pickup_lng"`
}

// StudentResponse is the HTTP response for student data.
type StudentResponse struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	PickupFormattedAddress string  `json:"pickup_formatted_address"`
	PickupPlaceID          string  `json:"pickup_place_id"`
	PickupLat              float64 `json:"pickup_lat"`
	PickupLng              float64 `json:"pickup_lng"`
}

func toStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		ID:                     s.ID,
		Name:                   s.Name,
		PickupFormattedAddress: s.Pickup.FormattedAddress,
		PickupPlaceID:          s.Pickup.PlaceID,
		PickupLat:              s.Pickup.Lat,
		PickupLng:              s.Pickup.Lng,
	}
}

// Create handles POST /v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.PickupPlaceID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and pickup_place_id are required"})
		return
	}

	student := &domain.Student{
		ID:   uuid.New().String(),
		Name: req.Name,
		Pickup: domain.Location{
			FormattedAddress: req.PickupFormattedAddress,
			PlaceID:          req.PickupPlaceID,
			Lat:              req.PickupLat,
			Lng:              req.PickupLng,
		},
		CreatedAt: time.Now(),
	}

	if err := h.studentRepo.Create(c.Request.Context(), student); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toStudentResponse(student))
}

// GetAll handles GET /v1/students
func (h *StudentHandler) GetAll(c *gin.Context) {
	students, err := h.studentRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		response = append(response, toStudentResponse(s))
	}

	c.JSON(http.StatusOK, response)
}
