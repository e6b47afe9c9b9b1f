package notifications

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/middleware"
)

// SetupNotificationRoutes configures the per-user notification feed
func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	notificationRoutes := rg.Group("/notifications")
	notificationRoutes.Use(middleware.JWTAuth())
	{
		notificationRoutes.GET("", controller.GetMyNotifications)
	}
}
