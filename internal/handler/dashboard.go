package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chatbottax/your-nemt-app/internal/service"
)

// DashboardHandler handles HTTP requests for the KPI dashboard.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles GET /v1/dashboard/summary?range=day|week
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
