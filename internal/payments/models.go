package payments

import (
	"time"
)

// PendingSession is cached while the buyer completes payment. The webhook
// cross-checks its event against this record.
type PendingSession struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	SeatIDs       []string  `json:"seat_ids"`
	Amount        float64   `json:"amount"`
	ProcessingFee float64   `json:"processing_fee"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CheckoutResponse is returned from POST /payments/checkout
type CheckoutResponse struct {
	SessionID     string    `json:"session_id"`
	CheckoutURL   string    `json:"checkout_url"`
	Amount        float64   `json:"amount"`
	ProcessingFee float64   `json:"processing_fee"`
	Total         float64   `json:"total"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// PaymentCompletedEvent is the webhook payload posted by the payment
// gateway when a checkout session finishes
type PaymentCompletedEvent struct {
	Type             string  `json:"type" binding:"required"`
	SessionID        string  `json:"session_id" binding:"required"`
	AmountPaid       float64 `json:"amount_paid"`
	PaymentMethod    string  `json:"payment_method"`
	CollectionMethod string  `json:"collection_method"`
	ReceiptURL       *string `json:"receipt_url,omitempty"`
}

const EventTypeCheckoutCompleted = "checkout.session.completed"
