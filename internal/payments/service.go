package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/orders"
	"stagepass/internal/seats"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

var (
	// ErrNoLockedSeats means the caller has no live locks to pay for
	ErrNoLockedSeats = errors.New("no locked seats to check out")

	ErrInvalidSignature = errors.New("webhook signature mismatch")
	ErrUnknownSession   = errors.New("unknown checkout session")
	ErrUnexpectedEvent  = errors.New("unexpected event type")
)

type Service interface {
	// CreateCheckout opens a hosted checkout session covering every seat
	// the user currently holds a live lock on.
	CreateCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error)

	// HandleCompletedEvent finalizes the order for a completed session.
	// rawBody and signature come straight off the webhook request.
	HandleCompletedEvent(ctx context.Context, rawBody []byte, signature string, event PaymentCompletedEvent) (*orders.OrderView, error)

	// GetSessionOrder reports whether a checkout session has been
	// finalized into an order yet. The success page polls this.
	GetSessionOrder(ctx context.Context, userID uuid.UUID, sessionID string) (*orders.OrderView, error)
}

type service struct {
	provider      Provider
	seatRepo      seats.Repository
	orderService  orders.Service
	cacheService  cache.Service
	log           *logger.Logger
	webhookSecret string
	feePct        float64
}

func NewService(provider Provider, seatRepo seats.Repository, orderService orders.Service, cacheService cache.Service, webhookSecret string, feePct float64) Service {
	return &service{
		provider:      provider,
		seatRepo:      seatRepo,
		orderService:  orderService,
		cacheService:  cacheService,
		log:           logger.GetDefault(),
		webhookSecret: webhookSecret,
		feePct:        feePct,
	}
}

func (s *service) CreateCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error) {
	now := time.Now()
	lockedSeats, err := s.seatRepo.GetSeatsLockedByUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if len(lockedSeats) == 0 {
		return nil, ErrNoLockedSeats
	}

	var amount float64
	seatIDs := make([]string, 0, len(lockedSeats))
	expiresAt := *lockedSeats[0].LockedTill
	for _, seat := range lockedSeats {
		amount += seat.Price
		seatIDs = append(seatIDs, seat.ID.String())
		if seat.LockedTill.Before(expiresAt) {
			expiresAt = *seat.LockedTill
		}
	}
	fee := roundMoney(amount * s.feePct / 100)

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutParams{
		UserID:    userID.String(),
		SeatIDs:   seatIDs,
		Amount:    amount + fee,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	pending := PendingSession{
		SessionID:     session.ID,
		UserID:        userID.String(),
		SeatIDs:       seatIDs,
		Amount:        amount,
		ProcessingFee: fee,
		ExpiresAt:     expiresAt,
	}
	// The pending record outlives the seat locks a little so a payment
	// completing right at the lock boundary can still be matched
	ttl := time.Until(expiresAt) + 5*time.Minute
	if err := s.cacheService.Set(ctx, constants.CheckoutSessionKey(session.ID), pending, ttl); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		SessionID:     session.ID,
		CheckoutURL:   session.CheckoutURL,
		Amount:        amount,
		ProcessingFee: fee,
		Total:         amount + fee,
		ExpiresAt:     expiresAt,
	}, nil
}

func (s *service) HandleCompletedEvent(ctx context.Context, rawBody []byte, signature string, event PaymentCompletedEvent) (*orders.OrderView, error) {
	if !s.verifySignature(rawBody, signature) {
		return nil, ErrInvalidSignature
	}
	if event.Type != EventTypeCheckoutCompleted {
		return nil, ErrUnexpectedEvent
	}

	var pending PendingSession
	if err := s.cacheService.Get(ctx, constants.CheckoutSessionKey(event.SessionID), &pending); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}

	userID, err := uuid.Parse(pending.UserID)
	if err != nil {
		return nil, ErrUnknownSession
	}
	seatIDs := make([]uuid.UUID, 0, len(pending.SeatIDs))
	for _, raw := range pending.SeatIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, ErrUnknownSession
		}
		seatIDs = append(seatIDs, id)
	}

	paid := event.AmountPaid
	if paid == 0 {
		paid = pending.Amount + pending.ProcessingFee
	}

	order, err := s.orderService.Finalize(ctx, orders.FinalizeInput{
		CheckoutSessionID: event.SessionID,
		UserID:            userID,
		SeatIDs:           seatIDs,
		PaidAmount:        paid,
		ProcessingFee:     pending.ProcessingFee,
		PaymentMethod:     event.PaymentMethod,
		CollectionMethod:  event.CollectionMethod,
		ReceiptURL:        event.ReceiptURL,
	})
	if err != nil {
		return nil, err
	}

	// Consumed sessions stay cached; a replayed webhook re-reads them and
	// Finalize returns the same order without side effects
	return order, nil
}

func (s *service) GetSessionOrder(ctx context.Context, userID uuid.UUID, sessionID string) (*orders.OrderView, error) {
	return s.orderService.GetOrderBySession(ctx, userID, sessionID)
}

func (s *service) verifySignature(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
