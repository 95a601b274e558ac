// Package events publishes booking lifecycle events to Kafka so
// downstream consumers (attendance sheets, notifications) can follow
// seat activity. Publishing is synchronous and best-effort: the write
// happens in the booking request path, bounded by the writer's attempt
// and batch limits, and a failed delivery is logged without failing
// the booking.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"lumina/pkg/logger"
	"lumina/pkg/model"

	"github.com/segmentio/kafka-go"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// Event is the wire format of one booking lifecycle notification.
type Event struct {
	Type       string        `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by key keeps per-seat ordering
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...any) { log.Error("kafka: "+msg, "args", args) }),
	}

	log.Info("Booking event publisher initialized", "topic", topic, "brokers", brokers)
	return &Publisher{writer: writer, log: log}
}

func (p *Publisher) BookingCreated(ctx context.Context, b model.Booking) {
	p.publish(ctx, TypeBookingCreated, b)
}

func (p *Publisher) BookingCancelled(ctx context.Context, b model.Booking) {
	p.publish(ctx, TypeBookingCancelled, b)
}

func (p *Publisher) publish(ctx context.Context, eventType string, b model.Booking) {
	event := Event{
		Type:       eventType,
		Booking:    b,
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode booking event", "type", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(b.Date + ":" + strconv.Itoa(b.SeatID)),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"type", eventType,
			"seat_id", b.SeatID,
			"date", b.Date,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published", "type", eventType, "seat_id", b.SeatID, "date", b.Date)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
