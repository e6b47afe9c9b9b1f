package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a booking lifecycle event
type EventType string

const (
	EventSeatsLocked    EventType = "seats.locked"
	EventOrderFinalized EventType = "order.finalized"
	EventPaymentFailed  EventType = "payment.failed"
)

// Event is the wire format published to the booking topic
type Event struct {
	ID        uuid.UUID              `json:"id"`
	Type      EventType              `json:"type"`
	UserID    string                 `json:"user_id"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetPartitionKey keeps each user's events in order within a partition
func (e *Event) GetPartitionKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.ID.String()
}

// Publisher is implemented by the Kafka producer and the no-op fallback
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Delivery status of a consumed event
type LogStatus string

const (
	LogStatusProcessed LogStatus = "PROCESSED"
	LogStatusFailed    LogStatus = "FAILED"
)

// NotificationLog records every consumed booking event. EventID carries a
// unique index so redelivered Kafka messages collapse into one row.
type NotificationLog struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex"`
	EventType   EventType  `json:"event_type" gorm:"type:varchar(50);not null;index"`
	UserID      *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Payload     string     `json:"payload" gorm:"type:text"`
	Status      LogStatus  `json:"status" gorm:"type:varchar(20);not null;default:'PROCESSED'"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`
	ProcessedAt time.Time  `json:"processed_at" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
