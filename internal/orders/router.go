package orders

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/middleware"
)

// SetupOrderRoutes configures customer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, controller *Controller) {
	orderRoutes := rg.Group("/orders")
	orderRoutes.Use(middleware.JWTAuth())
	{
		orderRoutes.GET("", controller.GetMyOrders)
		orderRoutes.GET("/:id", controller.GetOrder)
	}
}

// SetupAdminOrderRoutes configures admin order routes
func SetupAdminOrderRoutes(rg *gin.RouterGroup, controller *Controller) {
	adminRoutes := rg.Group("/admin/orders")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.GET("", controller.ListAllAdmin)
	}
}
