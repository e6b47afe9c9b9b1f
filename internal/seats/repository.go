package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Seat CRUD
	CreateSeats(ctx context.Context, seats []Seat) error
	GetAllSeats(ctx context.Context) ([]Seat, error)
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error)
	CountSeats(ctx context.Context) (int64, error)

	// Lock reads
	GetSeatsLockedByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]Seat, error)
	GetSeatsLockedByUserIn(ctx context.Context, userID uuid.UUID, seatIDs []uuid.UUID, now time.Time) ([]Seat, error)

	// Conditional lock write
	LockSeats(ctx context.Context, seatIDs []uuid.UUID, userID uuid.UUID, now, till time.Time) error

	// Admin operations
	ListSeats(ctx context.Context, query SeatListQuery) ([]Seat, int64, error)
	UpdateSeatStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// SeatListQuery carries admin listing parameters
type SeatListQuery struct {
	Page       int
	PageSize   int
	SearchTerm string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// SEAT CRUD

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).Create(&seats).Error
}

// GetAllSeats loads the full venue. Placement validation needs sibling
// context for every section, so callers always read the whole layout.
// Ordering matches physical placement: the validator trusts array order.
func (r *repository) GetAllSeats(ctx context.Context) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Order(`"row" ASC, "column" ASC, index_from_left ASC`).
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("id IN ?", seatIDs).
		Order(`"row" ASC, "column" ASC, index_from_left ASC`).
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountSeats(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).Count(&count).Error
	return count, err
}

// LOCK READS

func (r *repository) GetSeatsLockedByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("locked_by_user_id = ? AND locked_till > ?", userID, now).
		Order(`"row" ASC, "column" ASC, index_from_left ASC`).
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsLockedByUserIn(ctx context.Context, userID uuid.UUID, seatIDs []uuid.UUID, now time.Time) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("id IN ?", seatIDs).
		Where("locked_by_user_id = ? AND locked_till > ?", userID, now).
		Find(&seats).Error
	return seats, err
}

// CONDITIONAL LOCK WRITE

// LockSeats grants or renews a time-boxed lock on every requested seat in one
// transaction. The update is conditioned on each row still being eligible at
// write time: not sold, and either unlocked, expired, or locked by this same
// user. If the affected row count is short of the request, another writer won
// the race for at least one seat; the transaction rolls back and nothing is
// kept. This is the only guard against concurrent selectors; there is no
// in-process mutex, so it must stay correct across multiple server instances.
func (r *repository) LockSeats(ctx context.Context, seatIDs []uuid.UUID, userID uuid.UUID, now, till time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("id IN ?", seatIDs).
			Where("status = ?", StatusEmpty).
			Where("order_id IS NULL").
			Where("locked_by_user_id IS NULL OR locked_by_user_id = ? OR locked_till <= ?", userID, now).
			Updates(map[string]interface{}{
				"locked_by_user_id": userID,
				"locked_till":       till,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to lock seats: %w", result.Error)
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrLockConflict
		}
		return nil
	})
}

// ADMIN OPERATIONS

func (r *repository) ListSeats(ctx context.Context, query SeatListQuery) ([]Seat, int64, error) {
	var seatRows []Seat
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Seat{})
	if query.SearchTerm != "" {
		baseQuery = baseQuery.Where("label ILIKE ?", "%"+query.SearchTerm+"%")
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PageSize
	err := baseQuery.
		Order("label ASC").
		Offset(offset).
		Limit(query.PageSize).
		Find(&seatRows).Error

	return seatRows, totalCount, err
}

// UpdateSeatStatus applies an admin status edit with its preconditions inside
// one transaction: a purchased seat is immutable, and a no-op edit is rejected
// so the admin UI can tell the difference.
func (r *repository) UpdateSeatStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seat Seat
		if err := tx.First(&seat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSeatNotFound
			}
			return err
		}

		if seat.OrderID != nil {
			return ErrSeatPurchased
		}
		if seat.Status == status {
			return ErrStatusUnchanged
		}

		return tx.Model(&Seat{}).
			Where("id = ?", id).
			Update("status", status).Error
	})
}
