package services

import (
	"context"
	"time"

	"lead-intake/models"

	"github.com/google/uuid"
)

const EventLeadReceived = "lead.received"

// LeadReceivedEvent is published to Kafka after a lead is stored.
type LeadReceivedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Lead      models.Lead `json:"lead"`
	Timestamp time.Time   `json:"timestamp"`
}

// LeadEvents publishes lead.received events keyed by lead email.
type LeadEvents struct {
	producer *Producer
	topic    string
}

func NewLeadEvents(producer *Producer, topic string) *LeadEvents {
	return &LeadEvents{producer: producer, topic: topic}
}

func (e *LeadEvents) Name() string { return "kafka" }

// LeadStored implements LeadListener.
func (e *LeadEvents) LeadStored(ctx context.Context, lead models.Lead) error {
	event := LeadReceivedEvent{
		EventID:   uuid.NewString(),
		EventType: EventLeadReceived,
		Lead:      lead,
		Timestamp: time.Now().UTC(),
	}
	return e.producer.Publish(ctx, e.topic, lead.Email, event)
}
