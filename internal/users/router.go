package users

import (
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes configures profile routes
func SetupUserRoutes(rg *gin.RouterGroup, controller *Controller) {
	profile := rg.Group("/users")
	profile.Use(middleware.JWTAuth())
	{
		profile.GET("/profile", controller.GetProfile)
		profile.PUT("/profile", controller.UpdateProfile)
	}
}
