package notifications

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"stagepass/internal/shared/config"
)

// Service owns the Kafka producer and consumer lifecycle. When Kafka is
// disabled it degrades to a no-op publisher and no consumer, so the rest of
// the application wires against it the same way either way.
type Service struct {
	publisher  Publisher
	kafka      *KafkaPublisher
	consumer   Consumer
	repo       Repository
	numWorkers int
	enabled    bool
}

func NewService(cfg *config.KafkaConfig, db *gorm.DB) (*Service, error) {
	repo := NewRepository(db)

	if !cfg.Enabled {
		log.Println("📣 Kafka disabled, booking events will not be published")
		return &Service{
			publisher: NewNoopPublisher(),
			repo:      repo,
			enabled:   false,
		}, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Brokers
	producerConfig.BookingTopic = cfg.BookingTopic

	kafkaPublisher, err := NewKafkaPublisher(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking event publisher: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Brokers
	consumerConfig.GroupID = cfg.ConsumerGroup
	consumerConfig.Topics = []string{cfg.BookingTopic}

	consumer, err := NewKafkaEventConsumer(consumerConfig, repo)
	if err != nil {
		kafkaPublisher.Close()
		return nil, fmt.Errorf("failed to create booking event consumer: %w", err)
	}

	return &Service{
		publisher:  kafkaPublisher,
		kafka:      kafkaPublisher,
		consumer:   consumer,
		repo:       repo,
		numWorkers: 3,
		enabled:    true,
	}, nil
}

// Publisher returns the event publisher for other services to wire against
func (s *Service) Publisher() Publisher {
	return s.publisher
}

// Repository exposes the notification log store
func (s *Service) Repository() Repository {
	return s.repo
}

// Start launches the consumer workers. No-op when Kafka is disabled.
func (s *Service) Start(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	return s.consumer.StartConsumers(ctx, s.numWorkers)
}

// Stop shuts down the consumer and producer
func (s *Service) Stop() error {
	if !s.enabled {
		return nil
	}
	if err := s.consumer.Stop(); err != nil {
		log.Printf("📣 Error stopping consumer: %v", err)
	}
	return s.kafka.Close()
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	return s.consumer.HealthCheck(ctx)
}
