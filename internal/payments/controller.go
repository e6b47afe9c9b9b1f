package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass/internal/orders"
	"stagepass/internal/shared/middleware"
	"stagepass/internal/shared/utils/response"
)

const signatureHeader = "X-Payment-Signature"

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateCheckout handles POST /api/v1/payments/checkout
func (c *Controller) CreateCheckout(ctx *gin.Context) {
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

	checkout, err := c.service.CreateCheckout(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoLockedSeats) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "no locked seats to check out", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to create checkout session", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "checkout session created", checkout, nil)
}

// GetCheckoutSession handles GET /api/v1/payments/checkout/:sessionID
//
// Returns 404 until the webhook has finalized the session into an order;
// the success page polls until it gets a 200.
func (c *Controller) GetCheckoutSession(ctx *gin.Context) {
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

	order, err := c.service.GetSessionOrder(ctx.Request.Context(), userID, ctx.Param("sessionID"))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "session not finalized", nil, nil)
		case errors.Is(err, orders.ErrNotOrderOwner):
			// Someone else's session looks the same as an unknown one
			response.RespondJSON(ctx, "error", http.StatusNotFound, "session not finalized", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to load session order", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "order retrieved", order, nil)
}

// HandleWebhook handles POST /api/v1/payments/webhook
//
// The body is read raw before binding because the HMAC covers the exact
// bytes the gateway sent.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	rawBody, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "unreadable body", nil, nil)
		return
	}

	var event PaymentCompletedEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event payload", nil, err.Error())
		return
	}
	if event.Type == "" || event.SessionID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event payload", nil, nil)
		return
	}

	order, err := c.service.HandleCompletedEvent(ctx.Request.Context(), rawBody, ctx.GetHeader(signatureHeader), event)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid signature", nil, nil)
		case errors.Is(err, ErrUnexpectedEvent):
			// Acknowledged so the gateway stops retrying event types we
			// do not handle
			response.RespondJSON(ctx, "success", http.StatusOK, "event ignored", nil, nil)
		case errors.Is(err, ErrUnknownSession):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "unknown checkout session", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "failed to process event", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "order finalized", order, nil)
}
