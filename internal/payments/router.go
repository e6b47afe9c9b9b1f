package payments

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/middleware"
)

// SetupPaymentRoutes configures checkout and webhook routes. The webhook is
// unauthenticated; it is protected by the HMAC signature instead.
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	paymentRoutes := rg.Group("/payments")
	{
		paymentRoutes.POST("/checkout", middleware.JWTAuth(), controller.CreateCheckout)
		paymentRoutes.GET("/checkout/:sessionID", middleware.JWTAuth(), controller.GetCheckoutSession)
		paymentRoutes.POST("/webhook", controller.HandleWebhook)
	}
}
