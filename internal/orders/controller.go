package orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass/internal/shared/middleware"
	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	service       Service
	adminPageSize int
}

func NewController(service Service, adminPageSize int) *Controller {
	return &Controller{service: service, adminPageSize: adminPageSize}
}

// GetMyOrders handles GET /api/v1/orders
func (c *Controller) GetMyOrders(ctx *gin.Context) {
	userID, ok := c.requireUserID(ctx)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))

	result, err := c.service.GetMyOrders(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to list orders", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "orders retrieved", result, nil)
}

// GetOrder handles GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	userID, ok := c.requireUserID(ctx)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid order id", nil, nil)
		return
	}

	order, err := c.service.GetOrder(ctx.Request.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "order not found", nil, nil)
		case errors.Is(err, ErrNotOrderOwner):
			// Surface as not found so order ids cannot be probed
			response.RespondJSON(ctx, "error", http.StatusNotFound, "order not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load order", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "order retrieved", order, nil)
}

// ListAllAdmin handles GET /api/v1/admin/orders
func (c *Controller) ListAllAdmin(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(c.adminPageSize)))
	search := ctx.Query("search")

	result, err := c.service.ListAllAdmin(ctx.Request.Context(), page, pageSize, search)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to list orders", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "orders retrieved", result, nil)
}

func (c *Controller) requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDStr, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid user identity", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}
