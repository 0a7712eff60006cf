package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes domain events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...*Event) error
	Close() error
}

// PublisherConfig selects the broker behind the publisher.
type PublisherConfig struct {
	KafkaBrokers []string
	TopicPrefix  string
}

// WatermillPublisher sends events as watermill messages, one topic per event type.
type WatermillPublisher struct {
	publisher   message.Publisher
	topicPrefix string
	logger      *slog.Logger
}

func NewWatermillPublisher(publisher message.Publisher, topicPrefix string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher:   publisher,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured and an
// in-process gochannel publisher otherwise.
func NewPublisher(cfg PublisherConfig, logger *slog.Logger) (*WatermillPublisher, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("Kafka brokers not configured, publishing events in-process")
		return NewWatermillPublisher(NewGoChannel(wmLogger), cfg.TopicPrefix, logger), nil
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	logger.Info("Publishing events to Kafka", "brokers", cfg.KafkaBrokers)
	return NewWatermillPublisher(pub, cfg.TopicPrefix, logger), nil
}

// NewGoChannel returns an in-process pub/sub. Messages with no subscriber are dropped.
func NewGoChannel(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

// Topic returns the topic an event type is published on.
func (p *WatermillPublisher) Topic(eventType EventType) string {
	return p.topicPrefix + string(eventType)
}

func (p *WatermillPublisher) Publish(ctx context.Context, events ...*Event) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
		}

		msg := message.NewMessage(event.ID, payload)
		msg.Metadata.Set("event_type", string(event.Type))
		msg.SetContext(ctx)

		if err := p.publisher.Publish(p.Topic(event.Type), msg); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
		}

		p.logger.Debug("Event published", "event_id", event.ID, "type", event.Type, "entity_id", event.EntityID)
	}
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
