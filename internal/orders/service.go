package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/notifications"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

// ErrNotOrderOwner is returned when a user requests an order that exists but
// belongs to someone else
var ErrNotOrderOwner = errors.New("order belongs to another user")

type Service interface {
	// Finalize turns a completed checkout session into an order. Safe to
	// call any number of times for the same session.
	Finalize(ctx context.Context, input FinalizeInput) (*OrderView, error)

	GetMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) (*OrderListResponse, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error)
	GetOrderBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*OrderView, error)
	ListAllAdmin(ctx context.Context, page, pageSize int, search string) (*AdminOrderListResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, publisher notifications.Publisher) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		publisher:    publisher,
		log:          logger.GetDefault(),
	}
}

// Finalize is keyed on the checkout session id. The fast path finds an
// existing order and returns it unchanged. The slow path creates the order
// and claims its seats transactionally; if two payment events for the same
// session race, the unique index on checkout_session_id lets exactly one
// insert win, and the loser re-reads the winner's order.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*OrderView, error) {
	existing, err := s.repo.GetByCheckoutSessionID(ctx, input.CheckoutSessionID)
	if err == nil {
		view := toOrderView(*existing)
		return &view, nil
	}
	if !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}

	order := &Order{
		UserID:              input.UserID,
		CheckoutSessionID:   input.CheckoutSessionID,
		Status:              OrderStatusCompleted,
		PaidAmount:          input.PaidAmount,
		ProcessingFeeAmount: input.ProcessingFee,
		PaymentMethod:       input.PaymentMethod,
		CollectionMethod:    input.CollectionMethod,
		ReceiptURL:          input.ReceiptURL,
	}

	if err := s.repo.CreateWithSeats(ctx, order, input.SeatIDs); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race to a concurrent event for this session
			winner, getErr := s.repo.GetByCheckoutSessionID(ctx, input.CheckoutSessionID)
			if getErr != nil {
				return nil, getErr
			}
			view := toOrderView(*winner)
			return &view, nil
		}
		return nil, err
	}

	s.invalidateSeatMap(ctx)
	s.log.LogOrderFinalized(ctx, order.ID.String(), input.CheckoutSessionID, input.UserID.String())
	if s.publisher != nil {
		s.publisher.Publish(ctx, notifications.Event{
			Type:   notifications.EventOrderFinalized,
			UserID: input.UserID.String(),
			Payload: map[string]interface{}{
				"order_id":            order.ID.String(),
				"checkout_session_id": input.CheckoutSessionID,
				"paid_amount":         input.PaidAmount,
			},
			Timestamp: time.Now(),
		})
	}

	created, err := s.repo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	view := toOrderView(*created)
	return &view, nil
}

func (s *service) GetMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) (*OrderListResponse, error) {
	orderRows, total, err := s.repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orderRows))
	for _, order := range orderRows {
		views = append(views, toOrderView(order))
	}

	return &OrderListResponse{
		Orders:     views,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	view := toOrderView(*order)
	return &view, nil
}

// GetOrderBySession answers "has my checkout session become an order yet".
// ErrOrderNotFound while the webhook is still in flight is the expected
// polling answer, not a failure.
func (s *service) GetOrderBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*OrderView, error) {
	order, err := s.repo.GetByCheckoutSessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	view := toOrderView(*order)
	return &view, nil
}

func (s *service) ListAllAdmin(ctx context.Context, page, pageSize int, search string) (*AdminOrderListResponse, error) {
	orderRows, total, err := s.repo.ListAll(ctx, page, pageSize, search)
	if err != nil {
		return nil, err
	}

	views := make([]AdminOrderView, 0, len(orderRows))
	for _, order := range orderRows {
		views = append(views, toAdminOrderView(order))
	}

	return &AdminOrderListResponse{
		Orders:     views,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

func buildPagination(page, pageSize int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

func (s *service) invalidateSeatMap(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.SeatMapKey()); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate seat map cache", map[string]interface{}{"error": err.Error()})
	}
}
