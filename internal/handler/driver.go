package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverRepo repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverRepo repository.DriverRepository) *DriverHandler {
	return &DriverHandler{driverRepo: driverRepo}
}

// CreateDriverRequest is the HTTP request body for driver intake.
type CreateDriverRequest struct {
	Name                 string  `json:"name"`
	HomeFormattedAddress string  `json:"home_formatted_address"`
	HomePlaceID          string  `json:"home_place_id"`
	HomeLat              float64 `json:"home_lat"`
	HomeLng              float64 `json:"home_lng"`
}

// UpdateDriverRequest is the HTTP request body for profile edits. All fields
// are optional; absent fields keep their stored values.
type UpdateDriverRequest struct {
	Name                 *string  `json:"name"`
	HomeFormattedAddress *string  `json:"home_formatted_address"`
	HomePlaceID          *string  `json:"home_place_id"`
	HomeLat              *float64 `json:"home_lat"`
	HomeLng              *float64 `json:"home_lng"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	HomeFormattedAddress string  `json:"home_formatted_address"`
	HomePlaceID          string  `json:"home_place_id"`
	HomeLat              float64 `json:"home_lat"`
	HomeLng              float64 `json:"home_lng"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:                   d.ID,
		Name:                 d.Name,
		HomeFormattedAddress: d.Home.FormattedAddress,
		HomePlaceID:          d.Home.PlaceID,
		HomeLat:              d.Home.Lat,
		HomeLng:              d.Home.Lng,
	}
}

// Create handles POST /v1/drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.HomePlaceID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and home_place_id are required"})
		return
	}

	// Place IDs are unique; reject a duplicate intake up front.
	existing, err := h.driverRepo.GetByPlaceID(c.Request.Context(), req.HomePlaceID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Driver already registered at this address",
			"driver":  toDriverResponse(existing),
		})
		return
	}

	driver := &domain.Driver{
		ID:   uuid.New().String(),
		Name: req.Name,
		Home: domain.Location{
			FormattedAddress: req.HomeFormattedAddress,
			PlaceID:          req.HomePlaceID,
			Lat:              req.HomeLat,
			Lng:              req.HomeLng,
		},
		CreatedAt: time.Now(),
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, toDriverResponse(d))
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PATCH /v1/drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	driverID := c.Param("id")

	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverRepo.GetByID(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.HomeFormattedAddress != nil {
		driver.Home.FormattedAddress = *req.HomeFormattedAddress
	}
	if req.HomePlaceID != nil {
		driver.Home.PlaceID = *req.HomePlaceID
	}
	if req.HomeLat != nil {
		driver.Home.Lat = *req.HomeLat
	}
	if req.HomeLng != nil {
		driver.Home.Lng = *req.HomeLng
	}

	if err := h.driverRepo.Update(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDriverResponse(driver))
}
