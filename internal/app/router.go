package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Chatbottax/your-nemt-app/internal/handler"
	"github.com/Chatbottax/your-nemt-app/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	DriverHandler    *handler.DriverHandler
	StudentHandler   *handler.StudentHandler
	RouteHandler     *handler.RouteHandler
	TripHandler      *handler.TripHandler
	IntakeHandler    *handler.IntakeHandler
	DashboardHandler *handler.DashboardHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Create)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.PATCH("/:id", deps.DriverHandler.Update)
		}

		students := v1.Group("/students")
		{
			students.POST("", deps.StudentHandler.Create)
			students.GET("", deps.StudentHandler.GetAll)
		}

		routes := v1.Group("/routes")
		{
			routes.POST("", deps.RouteHandler.Create)
			routes.GET("", deps.RouteHandler.GetAll)
			routes.PATCH("/:id", deps.RouteHandler.Update)
		}

		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.GetByDay)
			trips.POST("/:id/assign", deps.TripHandler.Assign)
			trips.POST("/:id/propose", deps.TripHandler.Propose)
		}

		intake := v1.Group("/intake")
		{
			intake.POST("/accept", deps.IntakeHandler.Accept)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", deps.DashboardHandler.Summary)
		}
	}

	return router
}
