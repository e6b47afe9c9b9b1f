package analytics

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/middleware"
)

// SetupAnalyticsRoutes configures the admin analytics routes
func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller) {
	analyticsRoutes := rg.Group("/admin/analytics")
	analyticsRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		analyticsRoutes.GET("/sales", controller.GetSalesSummary)
	}
}
