package services

import (
	"context"

	"lead-intake/config"
	"lead-intake/errors"
	"lead-intake/logger"

	"github.com/razorpay/razorpay-go"
)

// subscriptionCreator is satisfied by razorpay's Subscription resource.
type subscriptionCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// CheckoutService starts hosted subscription checkouts with Razorpay.
type CheckoutService struct {
	subs       subscriptionCreator
	keysSet    bool
	planID     string
	totalCount int
	baseURL    string
}

// NewCheckoutService builds the service from config. Missing settings are
// not an error here: CreateSession reports them on every call so the rest
// of the process keeps running.
func NewCheckoutService(cfg config.Config) *CheckoutService {
	s := &CheckoutService{
		keysSet:    cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "",
		planID:     cfg.RazorpayPlanID,
		totalCount: cfg.SubscriptionTotalCount,
		baseURL:    cfg.BaseURL(),
	}
	if s.keysSet {
		s.subs = razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret).Subscription
	} else {
		logger.Warn("Razorpay is not configured; checkout will fail until RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are set")
	}
	return s
}

// SuccessURL is where the customer lands after paying.
func (s *CheckoutService) SuccessURL() string {
	return s.baseURL + "/success.html"
}

// CancelURL is where the customer lands after abandoning checkout.
func (s *CheckoutService) CancelURL() string {
	return s.baseURL + "/"
}

// CreateSession creates a subscription for the configured plan and returns
// the hosted checkout URL. Configuration problems are errors.Misconfigured
// and are never retried.
func (s *CheckoutService) CreateSession(ctx context.Context) (string, error) {
	if !s.keysSet || s.subs == nil {
		return "", errors.NewMisconfiguredError("Razorpay is not configured (missing RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET).")
	}
	if s.planID == "" {
		return "", errors.NewMisconfiguredError("Missing RAZORPAY_PLAN_ID.")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := map[string]interface{}{
		"plan_id":         s.planID,
		"quantity":        1,
		"total_count":     s.totalCount,
		"customer_notify": 1,
		"notes": map[string]interface{}{
			"success_url": s.SuccessURL(),
			"cancel_url":  s.CancelURL(),
		},
	}

	resp, err := s.subs.Create(data, nil)
	if err != nil {
		return "", errors.E(errors.Internal, "error creating subscription checkout", err)
	}

	url, ok := resp["short_url"].(string)
	if !ok || url == "" {
		return "", errors.NewInternalServerError("subscription response has no short_url")
	}

	if id, ok := resp["id"].(string); ok {
		logger.Info("Created subscription checkout %s", id)
	}
	return url, nil
}

