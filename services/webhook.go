package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"lead-intake/errors"
	"lead-intake/logger"

	"github.com/razorpay/razorpay-go/utils"
)

// RazorpayWebhookPayload represents the structure of Razorpay webhook payload
type RazorpayWebhookPayload struct {
	ID        string                 `json:"id"`
	Event     string                 `json:"event"`
	CreatedAt int64                  `json:"created_at"`
	Contains  []string               `json:"contains"`
	Payload   map[string]interface{} `json:"payload"`
}

// PaymentWebhookEvent is what gets forwarded to Kafka for a verified webhook.
type PaymentWebhookEvent struct {
	EventType  string                 `json:"event_type"`
	WebhookID  string                 `json:"webhook_id,omitempty"`
	Payload    map[string]interface{} `json:"payload"`
	ReceivedAt time.Time              `json:"received_at"`
}

// PaymentWebhook verifies Razorpay webhooks (subscription.activated,
// subscription.charged, ...) and forwards them as events.
type PaymentWebhook struct {
	secret   string
	producer *Producer
	topic    string
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewPaymentWebhook(secret string, producer *Producer, topic string) *PaymentWebhook {
	return &PaymentWebhook{secret: secret, producer: producer, topic: topic, timeout: 30 * time.Second}
}

// Handle verifies the signature, decodes the payload and publishes it in
// the background.
func (w *PaymentWebhook) Handle(body []byte, signature string) (RazorpayWebhookPayload, error) {
	if w.secret == "" {
		return RazorpayWebhookPayload{}, errors.NewMisconfiguredError("Missing RAZORPAY_WEBHOOK_SECRET.")
	}
	if signature == "" || !utils.VerifyWebhookSignature(string(body), signature, w.secret) {
		return RazorpayWebhookPayload{}, errors.NewUnauthorizedError("invalid webhook signature")
	}

	var payload RazorpayWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return RazorpayWebhookPayload{}, errors.E(errors.Invalid, "invalid payload format", err)
	}

	logger.Info("[WEBHOOK] Received: %s", payload.Event)

	evt := PaymentWebhookEvent{
		EventType:  payload.Event,
		WebhookID:  payload.ID,
		Payload:    payload.Payload,
		ReceivedAt: time.Now().UTC(),
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.producer.Publish(ctx, w.topic, payload.Event, evt); err != nil {
			logger.Warn("failed to publish %s webhook: %v", payload.Event, err)
		}
	}()

	return payload, nil
}

// Wait blocks until every in-flight publish has returned.
func (w *PaymentWebhook) Wait() {
	w.wg.Wait()
}
