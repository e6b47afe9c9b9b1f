// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stagepass/internal/analytics"
	"stagepass/internal/auth"
	"stagepass/internal/notifications"
	"stagepass/internal/orders"
	"stagepass/internal/payments"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/users"
	"stagepass/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	cacheSvc  cache.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	var cacheSvc cache.Service
	if db.Redis != nil {
		cacheSvc = cache.NewService(db.Redis)
	}

	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		cacheSvc:  cacheSvc,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupUserRoutes(api)

		// Seats carry both the public map and the admin management routes
		r.setupSeatRoutes(api)

		// Payments finalize through the order service
		orderService := r.setupOrderRoutes(api)
		r.setupPaymentRoutes(api, orderService)

		r.setupNotificationRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagepass-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagepass-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupUserRoutes configures profile routes
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	userService := users.NewService(userRepo)
	userController := users.NewController(userService)

	users.SetupUserRoutes(rg, userController)
}

// setupSeatRoutes configures the seat map, selection, and admin seat routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(
		seatRepo,
		r.cacheSvc,
		r.publisher,
		r.config.Booking.SeatLockTTL,
		r.config.Booking.MaxSeatsPerSelection,
	)
	seatController := seats.NewController(seatService, r.config.Booking.AdminPageSize)

	seats.SetupSeatRoutes(rg, seatController)
	seats.SetupAdminSeatRoutes(rg, seatController)
}

// setupOrderRoutes configures customer and admin order routes
func (r *Router) setupOrderRoutes(rg *gin.RouterGroup) orders.Service {
	orderRepo := orders.NewRepository(r.db.GetPostgreSQL())
	orderService := orders.NewService(orderRepo, r.cacheSvc, r.publisher)
	orderController := orders.NewController(orderService, r.config.Booking.AdminPageSize)

	orders.SetupOrderRoutes(rg, orderController)
	orders.SetupAdminOrderRoutes(rg, orderController)
	return orderService
}

// setupPaymentRoutes configures checkout and webhook routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup, orderService orders.Service) {
	provider := payments.NewStubProvider(r.config.Payment.CheckoutBaseURL)
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	paymentService := payments.NewService(
		provider,
		seatRepo,
		orderService,
		r.cacheSvc,
		r.config.Payment.WebhookSecret,
		r.config.Payment.ProcessingFeePct,
	)
	paymentController := payments.NewController(paymentService)

	payments.SetupPaymentRoutes(rg, paymentController)
}

// setupNotificationRoutes configures the per-user notification feed
func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	notificationRepo := notifications.NewRepository(r.db.GetPostgreSQL())
	notificationController := notifications.NewController(notificationRepo)

	notifications.SetupNotificationRoutes(rg, notificationController)
}

// setupAnalyticsRoutes configures admin analytics routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo, r.cacheSvc)
	analyticsController := analytics.NewController(analyticsService)

	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}
