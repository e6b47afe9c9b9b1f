package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/seats"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrSeatsNotClaimable means at least one seat in the finalize request
	// was already sold to a different order
	ErrSeatsNotClaimable = errors.New("seats not claimable for this order")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*Order, error)
	CreateWithSeats(ctx context.Context, order *Order, seatIDs []uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Order, int64, error)
	ListAll(ctx context.Context, page, pageSize int, search string) ([]Order, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Preload("Seats").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Preload("Seats").First(&order, "checkout_session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CreateWithSeats inserts the order and claims its seats in one transaction.
// Claiming clears the lock columns and marks seats occupied, conditioned on
// the seat not already belonging to another order. A short row count means a
// seat was sold to someone else, and the whole transaction rolls back.
func (r *repository) CreateWithSeats(ctx context.Context, order *Order, seatIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		result := tx.Model(&seats.Seat{}).
			Where("id IN ?", seatIDs).
			Where("order_id IS NULL").
			Updates(map[string]interface{}{
				"status":            seats.StatusOccupied,
				"order_id":          order.ID,
				"locked_by_user_id": nil,
				"locked_till":       nil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to claim seats: %w", result.Error)
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatsNotClaimable
		}
		return nil
	})
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var orderRows []Order
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID)
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Seats").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderRows).Error

	return orderRows, totalCount, err
}

func (r *repository) ListAll(ctx context.Context, page, pageSize int, search string) ([]Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var orderRows []Order
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).Model(&Order{})
	if search != "" {
		baseQuery = baseQuery.Where("checkout_session_id ILIKE ?", "%"+search+"%")
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Seats").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderRows).Error

	return orderRows, totalCount, err
}
