package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass/internal/shared/middleware"
	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	repo Repository
}

func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// GetMyNotifications handles GET /api/v1/notifications
//
// Returns the caller's processed event feed, newest first. The feed is
// whatever the consumer workers have recorded, so an event published moments
// ago may not appear yet.
func (c *Controller) GetMyNotifications(ctx *gin.Context) {
	userIDStr, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid user identity", nil, nil)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	logs, err := c.repo.ListByUser(ctx.Request.Context(), userID, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load notifications", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "notifications retrieved", gin.H{
		"notifications": logs,
		"count":         len(logs),
	}, nil)
}
