package users

import (
	"errors"
	"net/http"

	"stagepass/internal/shared/middleware"
	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetProfile handles GET /api/v1/users/profile
func (c *Controller) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "user not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load profile", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "profile retrieved", profile, nil)
}

// UpdateProfile handles PUT /api/v1/users/profile
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			response.RespondJSON(ctx, "error", http.StatusConflict, "email already in use", nil, nil)
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "user not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to update profile", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "profile updated", profile, nil)
}
