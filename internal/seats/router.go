package seats

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/middleware"
)

// SetupSeatRoutes configures the public seat map and selection routes
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	seatRoutes := rg.Group("/seats")
	{
		// Seat map is public; OptionalAuth lets logged-in viewers see
		// their own locks flagged
		seatRoutes.GET("", middleware.OptionalAuth(), controller.GetSeats)

		// Anonymous callers get an empty list rather than a 401; the UI
		// calls this unconditionally on page load
		seatRoutes.GET("/my-locked", middleware.OptionalAuth(), controller.GetMyLockedSeats)
		seatRoutes.POST("/select", middleware.JWTAuth(), controller.SelectSeats)
	}
}

// SetupAdminSeatRoutes configures the admin seat management routes
func SetupAdminSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	adminRoutes := rg.Group("/admin/seats")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.GET("", controller.ListSeatsAdmin)
		adminRoutes.PATCH("/:id/status", controller.UpdateSeatStatus)
	}
}
