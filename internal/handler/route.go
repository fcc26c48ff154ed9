package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService *service.RouteService
	routeRepo    repository.RouteRepository
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService, routeRepo repository.RouteRepository) *RouteHandler {
	return &RouteHandler{routeService: routeService, routeRepo: routeRepo}
}

// CreateRouteRequest is the HTTP request body for creating a route.
// Total pay and profit are derived server-side and cannot be supplied.
type CreateRouteRequest struct {
	Name           string `json:"name"`
	PayOneWayCents int64  `json:"pay_one_way_cents"`
	DriverPayCents int64  `json:"driver_pay_cents"`
}

// UpdateRouteRequest is the HTTP request body for editing a route.
type UpdateRouteRequest struct {
	Name           string `json:"name"`
	PayOneWayCents *int64 `json:"pay_one_way_cents"`
	DriverPayCents *int64 `json:"driver_pay_cents"`
}

// RouteResponse is the HTTP response for route data.
type RouteResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PayOneWayCents int64  `json:"pay_one_way_cents"`
	PayTotalCents  int64  `json:"pay_total_cents"`
	DriverPayCents int64  `json:"driver_pay_cents"`
	ProfitCents    int64  `json:"profit_cents"`
}

func toRouteResponse(r *domain.Route) RouteResponse {
	return RouteResponse{
		ID:             r.ID,
		Name:           r.Name,
		PayOneWayCents: r.PayOneWayCents,
		PayTotalCents:  r.PayTotalCents,
		DriverPayCents: r.DriverPayCents,
		ProfitCents:    r.ProfitCents,
	}
}

// Create handles POST /v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), service.CreateRouteRequest{
		Name:           req.Name,
		PayOneWayCents: req.PayOneWayCents,
		DriverPayCents: req.DriverPayCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRouteResponse(route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	routes, err := h.routeRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, toRouteResponse(r))
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PATCH /v1/routes/:id
func (h *RouteHandler) Update(c *gin.Context) {
	routeID := c.Param("id")

	var req UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.PayOneWayCents == nil || req.DriverPayCents == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pay_one_way_cents and driver_pay_cents are required"})
		return
	}

	route, err := h.routeService.UpdateRoute(c.Request.Context(), service.UpdateRouteRequest{
		RouteID:        routeID,
		Name:           req.Name,
		PayOneWayCents: *req.PayOneWayCents,
		DriverPayCents: *req.DriverPayCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRouteResponse(route))
}
