package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"feedbackbox_backend/internal/config"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
)

// BillingService owns the Stripe integration: checkout/portal sessions
// and the webhook that is the single writer of the user billing fields.
type BillingService struct {
	userRepo     repositories.UserRepository
	cfg          *config.Config
	dashboardURL string
}

func NewBillingService(userRepo repositories.UserRepository, cfg *config.Config) *BillingService {
	stripe.Key = cfg.Stripe.SecretKey
	return &BillingService{
		userRepo:     userRepo,
		cfg:          cfg,
		dashboardURL: strings.TrimRight(cfg.Dashboard.BaseURL, "/"),
	}
}

// ensureStripeCustomer finds or creates the Stripe customer for a user
// and persists the id.
func (s *BillingService) ensureStripeCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": user.ID,
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateBilling(ctx, user.ID, map[string]interface{}{
		"stripe_customer_id": cust.ID,
	}); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateCheckoutSession starts a subscription checkout for the given
// cadence (monthly by default).
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, cadence string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	priceID := s.cfg.Stripe.PriceIDMonthly
	if cadence == string(models.CadenceYearly) {
		priceID = s.cfg.Stripe.PriceIDYearly
	}
	if priceID == "" {
		return "", apperrors.New(apperrors.CodeExternalServiceError, "billing", "Billing is not configured", 500)
	}

	customerID, err := s.ensureStripeCustomer(ctx, user)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to prepare billing", 500)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.dashboardURL + "/billing/success"),
		CancelURL:  stripe.String(s.dashboardURL + "/billing/cancel"),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to create checkout session", 500)
	}
	return sess.URL, nil
}

// CreatePortalSession opens the Stripe customer portal.
func (s *BillingService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if user.StripeCustomerID == "" {
		return "", apperrors.NewBadRequestError("No billing account for this user")
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(user.StripeCustomerID),
		ReturnURL: stripe.String(s.dashboardURL + "/settings/billing"),
	}
	sess, err := portal.New(params)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to create portal session", 500)
	}
	return sess.URL, nil
}

// --- webhook event variants ---
//
// Each handled event type parses up front into its own record; an
// event that does not fit its record is logged and acknowledged, never
// threaded through the mapping logic half-parsed.

type checkoutCompletedEvent struct {
	CustomerID     string
	SubscriptionID string
}

type subscriptionChangedEvent struct {
	CustomerID       string
	SubscriptionID   string
	Status           stripe.SubscriptionStatus
	Cadence          models.PlanCadence
	CurrentPeriodEnd time.Time
}

type paymentFailedEvent struct {
	CustomerID string
}

func parseCheckoutCompleted(raw json.RawMessage) (*checkoutCompletedEvent, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	if sess.Customer == nil || sess.Customer.ID == "" {
		return nil, fmt.Errorf("checkout session missing customer id")
	}
	out := &checkoutCompletedEvent{CustomerID: sess.Customer.ID}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

func parseSubscriptionChanged(raw json.RawMessage) (*subscriptionChangedEvent, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil, fmt.Errorf("subscription missing customer id")
	}

	out := &subscriptionChangedEvent{
		CustomerID:     sub.Customer.ID,
		SubscriptionID: sub.ID,
		Status:         sub.Status,
	}
	if sub.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil && item.Price.Recurring != nil {
			switch item.Price.Recurring.Interval {
			case stripe.PriceRecurringIntervalYear:
				out.Cadence = models.CadenceYearly
			case stripe.PriceRecurringIntervalMonth:
				out.Cadence = models.CadenceMonthly
			}
		}
	}
	return out, nil
}

func parsePaymentFailed(raw json.RawMessage) (*paymentFailedEvent, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	if inv.Customer == nil || inv.Customer.ID == "" {
		return nil, fmt.Errorf("invoice missing customer id")
	}
	return &paymentFailedEvent{CustomerID: inv.Customer.ID}, nil
}

// HandleWebhookEvent maps a verified Stripe event onto the user's
// subscription fields. Last write wins; unrecognized event types and
// unknown customers are acknowledged and logged, never errors: Stripe
// retries on non-2xx and these are not retryable conditions.
func (s *BillingService) HandleWebhookEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		parsed, err := parseCheckoutCompleted(event.Data.Raw)
		if err != nil {
			logger.CtxWithError(ctx, "ignoring malformed checkout event", err, "event_id", event.ID)
			return nil
		}
		return s.applyBillingUpdate(ctx, parsed.CustomerID, map[string]interface{}{
			"plan":                   models.PlanPro,
			"subscription_status":    models.SubscriptionActive,
			"stripe_subscription_id": parsed.SubscriptionID,
		})

	case "customer.subscription.updated":
		parsed, err := parseSubscriptionChanged(event.Data.Raw)
		if err != nil {
			logger.CtxWithError(ctx, "ignoring malformed subscription event", err, "event_id", event.ID)
			return nil
		}
		fields := map[string]interface{}{
			"subscription_status":    mapSubscriptionStatus(parsed.Status),
			"stripe_subscription_id": parsed.SubscriptionID,
		}
		if parsed.Cadence != "" {
			fields["plan_cadence"] = parsed.Cadence
		}
		if !parsed.CurrentPeriodEnd.IsZero() {
			fields["current_period_end"] = parsed.CurrentPeriodEnd
		}
		if mapSubscriptionStatus(parsed.Status) == models.SubscriptionActive {
			fields["plan"] = models.PlanPro
		}
		return s.applyBillingUpdate(ctx, parsed.CustomerID, fields)

	case "customer.subscription.deleted":
		parsed, err := parseSubscriptionChanged(event.Data.Raw)
		if err != nil {
			logger.CtxWithError(ctx, "ignoring malformed subscription event", err, "event_id", event.ID)
			return nil
		}
		return s.applyBillingUpdate(ctx, parsed.CustomerID, map[string]interface{}{
			"plan":                   models.PlanFree,
			"subscription_status":    models.SubscriptionCanceled,
			"stripe_subscription_id": "",
		})

	case "invoice.payment_failed":
		parsed, err := parsePaymentFailed(event.Data.Raw)
		if err != nil {
			logger.CtxWithError(ctx, "ignoring malformed invoice event", err, "event_id", event.ID)
			return nil
		}
		return s.applyBillingUpdate(ctx, parsed.CustomerID, map[string]interface{}{
			"subscription_status": models.SubscriptionPastDue,
		})

	default:
		logger.CtxInfo(ctx, "ignoring unhandled stripe event", "type", event.Type, "event_id", event.ID)
		return nil
	}
}

func (s *BillingService) applyBillingUpdate(ctx context.Context, customerID string, fields map[string]interface{}) error {
	user, err := s.userRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "webhook for unknown stripe customer", "customer_id", customerID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateBilling(ctx, user.ID, fields); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "billing state updated", "user_id", user.ID, "customer_id", customerID)
	return nil
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionCanceled
	default:
		return models.SubscriptionNone
	}
}
