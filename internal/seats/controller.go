package seats

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

// GetSeats handles GET /api/v1/seats
//
// Works with or without authentication. An authenticated viewer sees their
// own live locks flagged; everyone else sees those seats as occupied.
func (c *Controller) GetSeats(ctx *gin.Context) {
	viewerID := uuid.Nil
	if userIDStr, ok := middleware.UserIDFromContext(ctx); ok {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			viewerID = parsed
		}
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), viewerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load seat map", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "seat map retrieved", seatMap, nil)
}

// GetMyLockedSeats handles GET /api/v1/seats/my-locked
//
// Anonymous callers hold no locks, so they get an empty list, not a 401.
func (c *Controller) GetMyLockedSeats(ctx *gin.Context) {
	userIDStr, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "success", http.StatusOK, "locked seats retrieved", &MyLockedSeatsResponse{Seats: []SeatView{}}, nil)
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid user identity", nil, nil)
		return
	}

	locked, err := c.service.GetMyLockedSeats(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load locked seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "locked seats retrieved", locked, nil)
}

// SelectSeats handles POST /api/v1/seats/select
func (c *Controller) SelectSeats(ctx *gin.Context) {
	userID, ok := c.requireUserID(ctx)
	if !ok {
		return
	}

	var req SelectSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.TrySelect(ctx.Request.Context(), userID, req.SeatIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSeatsRequested):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "no seats requested", nil, nil)
		case errors.Is(err, ErrTooManySeats):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "too many seats requested", nil, nil)
		case errors.Is(err, ErrSeatNotFound):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid seat id", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to select seats", nil, err.Error())
		}
		return
	}

	// Placement failures and lost lock races are a successful response
	// carrying per-seat detail; the client highlights the failed seats
	response.RespondJSON(ctx, "success", http.StatusOK, "selection processed", result, nil)
}

// ADMIN HANDLERS

// ListSeatsAdmin handles GET /api/v1/admin/seats
func (c *Controller) ListSeatsAdmin(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(c.adminPageSize)))
	search := ctx.Query("search")

	result, err := c.service.ListSeatsAdmin(ctx.Request.Context(), SeatListQuery{
		Page:       page,
		PageSize:   pageSize,
		SearchTerm: search,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to list seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "seats retrieved", result, nil)
}

// UpdateSeatStatus handles PATCH /api/v1/admin/seats/:id/status
func (c *Controller) UpdateSeatStatus(ctx *gin.Context) {
	seatID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid seat id", nil, nil)
		return
	}

	var req UpdateSeatStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid request body", nil, err.Error())
		return
	}

	seat, err := c.service.UpdateSeatStatus(ctx.Request.Context(), seatID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrSeatNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "seat not found", nil, nil)
		case errors.Is(err, ErrSeatPurchased):
			response.RespondJSON(ctx, "error", http.StatusPreconditionFailed, "seat belongs to a completed order", nil, nil)
		case errors.Is(err, ErrStatusUnchanged):
			response.RespondJSON(ctx, "error", http.StatusPreconditionFailed, "seat already has that status", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to update seat", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "seat updated", seat, nil)
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
