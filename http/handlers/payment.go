package handlers

import (
	"context"
	"io"
	"net/http"

	"lead-intake/errors"
	resp "lead-intake/http/response"
	"lead-intake/logger"
	"lead-intake/services"
)

// CheckoutCreator starts a hosted subscription checkout.
type CheckoutCreator interface {
	CreateSession(ctx context.Context) (string, error)
}

// WebhookProcessor verifies and forwards payment processor webhooks.
type WebhookProcessor interface {
	Handle(body []byte, signature string) (services.RazorpayWebhookPayload, error)
}

const maxWebhookBytes = 1 << 20

// PaymentHandlers serves the checkout and webhook endpoints
type PaymentHandlers struct {
	checkout CheckoutCreator
	webhook  WebhookProcessor
}

func NewPaymentHandlers(checkout CheckoutCreator, webhook WebhookProcessor) *PaymentHandlers {
	return &PaymentHandlers{checkout: checkout, webhook: webhook}
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout returns the hosted checkout URL for the subscription plan
func (h *PaymentHandlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	url, err := h.checkout.CreateSession(r.Context())
	if err != nil {
		logger.Error("Checkout failed: %v", err)
		resp.Error(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

// PaymentWebhook verifies the X-Razorpay-Signature header and acknowledges the event
func (h *PaymentHandlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respondError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	payload, err := h.webhook.Handle(body, r.Header.Get("X-Razorpay-Signature"))
	if err != nil {
		if errors.IsKind(err, errors.Misconfigured) {
			logger.Error("[WEBHOOK] cannot verify: %v", err)
		} else {
			logger.Warn("[WEBHOOK] rejected: %v", err)
		}
		resp.Error(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged", "event": payload.Event})
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
