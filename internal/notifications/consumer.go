package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

type Consumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	RetryBackoffMs       int
	MaxProcessingTime    time.Duration
	AutoCommit           bool
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "stagepass-booking-workers",
		Topics:               []string{"booking-events"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		RetryBackoffMs:       100,
		MaxProcessingTime:    5 * time.Minute,
		AutoCommit:           true,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaEventConsumer consumes booking events and records them in the
// notification log.
type KafkaEventConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	repo          Repository
	topics        []string
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewKafkaEventConsumer(config *ConsumerConfig, repo Repository) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if config.AutoCommit {
		saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
		saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaEventConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		repo:          repo,
		topics:        config.Topics,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func (kec *KafkaEventConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d booking event workers for topics: %v", numWorkers, kec.topics)

	go kec.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			kec.runWorker(ctx, workerID)
		}(i)
	}

	log.Printf("📥 All %d booking event workers started", numWorkers)
	return nil
}

func (kec *KafkaEventConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &eventGroupHandler{
		consumer: kec,
		workerID: workerID,
		repo:     kec.repo,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			err := kec.consumerGroup.Consume(ctx, kec.topics, handler)
			if err != nil {
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kec *KafkaEventConsumer) handleErrors() {
	for err := range kec.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (kec *KafkaEventConsumer) Stop() error {
	log.Println("📥 Stopping booking event consumer...")
	kec.cancel()

	if err := kec.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	log.Println("📥 Booking event consumer stopped")
	return nil
}

func (kec *KafkaEventConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-kec.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
		if kec.repo == nil {
			return fmt.Errorf("notification log repository not configured")
		}
		return nil
	}
}

type eventGroupHandler struct {
	consumer *KafkaEventConsumer
	workerID int
	repo     Repository
}

func (h *eventGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session started", h.workerID)
	return nil
}

func (h *eventGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session ended", h.workerID)
	return nil
}

func (h *eventGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			err := h.processMessage(session.Context(), message)
			if err != nil {
				log.Printf("📥 Worker %d: Error processing message: %v", h.workerID, err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *eventGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := EventFromJSON(message.Value)
	if err != nil {
		// Malformed payloads are logged and skipped, never retried
		log.Printf("📥 Worker %d: Dropping malformed event at offset %d: %v", h.workerID, message.Offset, err)
		return nil
	}

	// Redeliveries are common after a rebalance; skip anything already recorded
	if existing, lookupErr := h.repo.GetByEventID(ctx, event.ID); lookupErr == nil && existing != nil {
		return nil
	}

	logEntry := &NotificationLog{
		EventID:     event.ID,
		EventType:   event.Type,
		Payload:     string(message.Value),
		Status:      LogStatusProcessed,
		ProcessedAt: time.Now(),
	}
	if uid, parseErr := uuid.Parse(event.UserID); parseErr == nil {
		logEntry.UserID = &uid
	}

	if err := h.recordWithRetry(ctx, logEntry); err != nil {
		return err
	}

	log.Printf("📥 Worker %d: Recorded %s event %s", h.workerID, event.Type, event.ID)
	return nil
}

func (h *eventGroupHandler) recordWithRetry(ctx context.Context, logEntry *NotificationLog) error {
	maxRetries := h.consumer.config.MaxRetries
	backoff := h.consumer.config.RetryBackoffDuration

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.repo.RecordEvent(ctx, logEntry)
		if err == nil {
			if attempt > 0 {
				log.Printf("📥 Worker %d: Recorded event after %d retries", h.workerID, attempt)
			}
			return nil
		}

		if attempt == maxRetries {
			log.Printf("📥 Worker %d: Failed to record event after %d attempts: %v", h.workerID, maxRetries, err)
			return err
		}

		delay := backoff * time.Duration(1<<attempt)

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
