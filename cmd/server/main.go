package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Chatbottax/your-nemt-app/internal/app"
	"github.com/Chatbottax/your-nemt-app/internal/config"
	"github.com/Chatbottax/your-nemt-app/internal/distance"
	"github.com/Chatbottax/your-nemt-app/internal/handler"
	internalRedis "github.com/Chatbottax/your-nemt-app/internal/redis"
	"github.com/Chatbottax/your-nemt-app/internal/repository/postgres"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Redis is optional; without it locks, caches and idempotency degrade
	// gracefully.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores when Redis is configured.
	var cacheStore *internalRedis.CacheStore
	var lockStore internalRedis.LockStoreInterface
	if redisClient != nil {
		cacheStore = internalRedis.NewCacheStore(redisClient)
		lockStore = internalRedis.NewLockStore(redisClient)
	}

	// Initialize repositories.
	driverRepo := postgres.NewDriverRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	routeRepo := postgres.NewRouteRepository(db)
	tripRepo := postgres.NewTripRepository(db)

	// The remote ranking strategy is only configured when a credential is
	// present; otherwise the engine always uses the geometric fallback.
	var matrix distance.Client
	if cfg.DistanceMatrix.APIKey != "" {
		matrix = distance.NewMatrixClient(cfg.DistanceMatrix.BaseURL, cfg.DistanceMatrix.APIKey, cfg.DistanceMatrix.Timeout)
		if cacheStore != nil {
			matrix = distance.NewCachedClient(matrix, cacheStore)
		}
	}

	// Initialize services.
	assignmentService := service.NewAssignmentService(db, lockStore, driverRepo, studentRepo, tripRepo, matrix)
	routeService := service.NewRouteService(routeRepo, cacheStore)
	dashboardService := service.NewDashboardService(routeRepo, cacheStore)
	intakeService := service.NewIntakeService(db, routeRepo, studentRepo, tripRepo)

	// Initialize handlers.
	driverHandler := handler.NewDriverHandler(driverRepo)
	studentHandler := handler.NewStudentHandler(studentRepo)
	routeHandler := handler.NewRouteHandler(routeService, routeRepo)
	tripHandler := handler.NewTripHandler(assignmentService, tripRepo)
	intakeHandler := handler.NewIntakeHandler(intakeService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		DriverHandler:    driverHandler,
		StudentHandler:   studentHandler,
		RouteHandler:     routeHandler,
		TripHandler:      tripHandler,
		IntakeHandler:    intakeHandler,
		DashboardHandler: dashboardHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
