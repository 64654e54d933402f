package main

import (
	"time"

	"github.com/Euaell/Car-Dealership/internal/config"
	"github.com/Euaell/Car-Dealership/internal/database"
	"github.com/Euaell/Car-Dealership/internal/handlers"
	"github.com/Euaell/Car-Dealership/internal/logger"
	"github.com/Euaell/Car-Dealership/internal/middleware"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/redis"
	"github.com/Euaell/Car-Dealership/internal/repository"
	"github.com/Euaell/Car-Dealership/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Info("Database connected and migrated")

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	partRepo := repository.NewSparePartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	testDriveRepo := repository.NewTestDriveRepository(db)

	// Initialize services
	jwtTTL := time.Duration(cfg.JWTExpiryHours) * time.Hour
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	userService := services.NewUserService(userRepo, cfg.JWTSecret, jwtTTL, log)
	carService := services.NewCarService(carRepo, log)
	partService := services.NewSparePartService(db, partRepo, redisClient, log)
	orderService := services.NewOrderService(db, orderRepo, carRepo, partRepo, userRepo, log)
	scheduler := services.NewServiceScheduler(db, serviceRepo, carRepo, userRepo, log)
	testDriveService := services.NewTestDriveService(testDriveRepo, carRepo, userRepo, log)
	dashboardService := services.NewDashboardService(carRepo, orderRepo, partRepo, serviceRepo, redisClient, cacheTTL, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	carHandler := handlers.NewCarHandler(carService)
	partHandler := handlers.NewSparePartHandler(partService)
	orderHandler := handlers.NewOrderHandler(orderService)
	serviceHandler := handlers.NewServiceHandler(scheduler)
	testDriveHandler := handlers.NewTestDriveHandler(testDriveService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup routes
	router := gin.Default()
	router.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.Authenticate(cfg.JWTSecret))
	{
		authed.GET("/auth/profile", authHandler.Profile)

		perm := func(resource models.Resource, action models.Action) gin.HandlerFunc {
			return middleware.RequirePermission(userService, resource, action)
		}

		authed.GET("/cars", perm(models.ResourceCars, models.ActionRead), carHandler.List)
		authed.GET("/cars/:id", perm(models.ResourceCars, models.ActionRead), carHandler.Get)
		authed.POST("/cars", perm(models.ResourceCars, models.ActionCreate), carHandler.Create)
		authed.PUT("/cars/:id", perm(models.ResourceCars, models.ActionUpdate), carHandler.Update)
		authed.DELETE("/cars/:id", perm(models.ResourceCars, models.ActionDelete), carHandler.Delete)
		authed.POST("/cars/:id/maintenance", perm(models.ResourceCars, models.ActionUpdate), carHandler.SetMaintenance)

		authed.GET("/spare-parts", perm(models.ResourceSpareParts, models.ActionRead), partHandler.List)
		authed.GET("/spare-parts/low-stock", perm(models.ResourceSpareParts, models.ActionRead), partHandler.LowStock)
		authed.GET("/spare-parts/:id", perm(models.ResourceSpareParts, models.ActionRead), partHandler.Get)
		authed.POST("/spare-parts", perm(models.ResourceSpareParts, models.ActionCreate), partHandler.Create)
		authed.PUT("/spare-parts/:id", perm(models.ResourceSpareParts, models.ActionUpdate), partHandler.Update)
		authed.DELETE("/spare-parts/:id", perm(models.ResourceSpareParts, models.ActionDelete), partHandler.Delete)
		authed.POST("/spare-parts/:id/adjust-stock", perm(models.ResourceSpareParts, models.ActionUpdate), partHandler.AdjustStock)

		authed.GET("/orders", perm(models.ResourceOrders, models.ActionRead), orderHandler.List)
		authed.GET("/orders/:id", perm(models.ResourceOrders, models.ActionRead), orderHandler.Get)
		authed.POST("/orders", perm(models.ResourceOrders, models.ActionCreate), orderHandler.Create)
		authed.PUT("/orders/:id/status", perm(models.ResourceOrders, models.ActionUpdate), orderHandler.UpdateStatus)
		authed.POST("/orders/:id/cancel", perm(models.ResourceOrders, models.ActionUpdate), orderHandler.Cancel)

		authed.GET("/services", perm(models.ResourceServices, models.ActionRead), serviceHandler.List)
		authed.GET("/services/types", perm(models.ResourceServices, models.ActionRead), serviceHandler.ListTypes)
		authed.GET("/services/:id", perm(models.ResourceServices, models.ActionRead), serviceHandler.Get)
		authed.POST("/services", perm(models.ResourceServices, models.ActionCreate), serviceHandler.Create)
		authed.PUT("/services/:id", perm(models.ResourceServices, models.ActionUpdate), serviceHandler.Update)
		authed.POST("/services/:id/cancel", perm(models.ResourceServices, models.ActionUpdate), serviceHandler.Cancel)

		authed.GET("/test-drives", perm(models.ResourceTestDrives, models.ActionRead), testDriveHandler.List)
		authed.POST("/test-drives", perm(models.ResourceTestDrives, models.ActionCreate), testDriveHandler.Create)
		authed.POST("/test-drives/:id/complete", perm(models.ResourceTestDrives, models.ActionUpdate), testDriveHandler.Complete)
		authed.POST("/test-drives/:id/cancel", perm(models.ResourceTestDrives, models.ActionUpdate), testDriveHandler.Cancel)

		authed.GET("/dashboard/summary", perm(models.ResourceDashboard, models.ActionRead), dashboardHandler.Summary)
	}

	// Start server
	log.Infof("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
