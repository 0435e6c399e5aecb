package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"prolens/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Event types published on the order topic.
const (
	TypeOrderPlaced          = "order.placed"
	TypeOrderStatusChanged   = "order.status_changed"
	TypePaymentStatusChanged = "order.payment_status_changed"
)

// OrderEvent describes a committed change to an order.
type OrderEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	OrderID    int64             `json:"order_id"`
	UserID     int64             `json:"user_id"`
	From       string            `json:"from,omitempty"`
	To         string            `json:"to,omitempty"`
	Total      *decimal.Decimal  `json:"total_amount,omitempty"`
	Items      []model.OrderItem `json:"order_items,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewOrderPlaced builds the event for a freshly placed order.
func NewOrderPlaced(order *model.Order) OrderEvent {
	total := order.TotalAmount
	return OrderEvent{
		ID:         uuid.NewString(),
		Type:       TypeOrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		To:         string(order.Status),
		Total:      &total,
		Items:      order.Items,
		OccurredAt: time.Now().UTC(),
	}
}

// NewStatusChanged builds a status or payment-status transition event.
func NewStatusChanged(eventType string, order *model.Order, from, to string) OrderEvent {
	return OrderEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		From:       from,
		To:         to,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers order events after the owning transaction commits.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher writes JSON events keyed by order id, so one order's events stay ordered.
type kafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaWriter creates a writer for the order topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaPublisher creates a Publisher on top of w.
func NewKafkaPublisher(w messageWriter, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer: w,
		logger: logger.With().Str("publisher", "kafka").Logger(),
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("event_type", event.Type).Int64("order_id", event.OrderID).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("event_type", event.Type).Int64("order_id", event.OrderID).Msg("order event published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (nopPublisher) Close() error                              { return nil }
