package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSalesSummary handles GET /api/v1/admin/analytics/sales
func (c *Controller) GetSalesSummary(ctx *gin.Context) {
	summary, err := c.service.GetSalesSummary(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to compute sales summary", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "sales summary retrieved", summary, nil)
}
