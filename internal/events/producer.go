package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// kafkaPublisher implements Publisher on top of a kafka-go writer.
type kafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaPublisher creates a Publisher writing to the given brokers and topic.
// Brokers is a comma-separated address list.
func NewKafkaPublisher(brokers, topic string, logger zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &kafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "order-events").Logger(),
	}
}

// PublishOrderCreated writes the event keyed by order ID, so all events for
// one order land on the same partition.
func (p *kafkaPublisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID.String()).Msg("failed to marshal order event")
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_id", event.EventID.String()).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Info().
		Str("event_id", event.EventID.String()).
		Str("order_id", event.OrderID.String()).
		Msg("order event published")

	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
