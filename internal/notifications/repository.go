package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	RecordEvent(ctx context.Context, logEntry *NotificationLog) error
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*NotificationLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]NotificationLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// RecordEvent inserts a log row for a consumed event. Redeliveries of the
// same event hit the unique index on event_id and are treated as success.
func (r *repository) RecordEvent(ctx context.Context, logEntry *NotificationLog) error {
	err := r.db.WithContext(ctx).Create(logEntry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*NotificationLog, error) {
	var logEntry NotificationLog
	err := r.db.WithContext(ctx).First(&logEntry, "event_id = ?", eventID).Error
	if err != nil {
		return nil, err
	}
	return &logEntry, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]NotificationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []NotificationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("processed_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
