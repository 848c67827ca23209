package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"feedbackbox_backend/internal/config"
	"feedbackbox_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func newBillingFixture(t *testing.T) (*BillingService, *fakeUserRepo, *models.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	cfg := &config.Config{}
	cfg.Dashboard.BaseURL = "https://app.feedbackbox.test"
	svc := NewBillingService(userRepo, cfg)

	user := &models.User{
		Email:            "owner@example.com",
		Plan:             models.PlanFree,
		StripeCustomerID: "cus_123",
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return svc, userRepo, user
}

func stripeEvent(t *testing.T, eventType string, payload map[string]interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestWebhook_CheckoutCompletedUpgrades(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{
		"customer":     "cus_123",
		"subscription": "sub_456",
	})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, updated.Plan)
	assert.Equal(t, models.SubscriptionActive, updated.SubscriptionStatus)
	assert.Equal(t, "sub_456", updated.StripeSubscriptionID)
}

func TestWebhook_SubscriptionUpdatedActiveYearly(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	periodEnd := time.Date(2027, 8, 28, 0, 0, 0, 0, time.UTC)
	event := stripeEvent(t, "customer.subscription.updated", map[string]interface{}{
		"id":                 "sub_456",
		"customer":           "cus_123",
		"status":             "active",
		"current_period_end": periodEnd.Unix(),
		"items": map[string]interface{}{
			"data": []map[string]interface{}{
				{"price": map[string]interface{}{"recurring": map[string]interface{}{"interval": "year"}}},
			},
		},
	})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, updated.Plan)
	assert.Equal(t, models.SubscriptionActive, updated.SubscriptionStatus)
	assert.Equal(t, models.CadenceYearly, updated.PlanCadence)
	require.NotNil(t, updated.CurrentPeriodEnd)
	assert.True(t, periodEnd.Equal(*updated.CurrentPeriodEnd))
}

func TestWebhook_SubscriptionUpdatedPastDueKeepsPlan(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	user.Plan = models.PlanPro
	require.NoError(t, userRepo.Update(ctx, user))

	event := stripeEvent(t, "customer.subscription.updated", map[string]interface{}{
		"id":       "sub_456",
		"customer": "cus_123",
		"status":   "past_due",
	})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPastDue, updated.SubscriptionStatus)
	assert.Equal(t, models.PlanPro, updated.Plan, "grace period: access until the sweep downgrades")
}

func TestWebhook_SubscriptionDeletedDowngrades(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	user.Plan = models.PlanPro
	user.StripeSubscriptionID = "sub_456"
	require.NoError(t, userRepo.Update(ctx, user))

	event := stripeEvent(t, "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_456",
		"customer": "cus_123",
		"status":   "canceled",
	})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, updated.Plan)
	assert.Equal(t, models.SubscriptionCanceled, updated.SubscriptionStatus)
	assert.Empty(t, updated.StripeSubscriptionID)
}

func TestWebhook_InvoicePaymentFailed(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	event := stripeEvent(t, "invoice.payment_failed", map[string]interface{}{
		"customer": "cus_123",
	})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPastDue, updated.SubscriptionStatus)
}

func TestWebhook_UnknownEventTypeIsAcknowledged(t *testing.T) {
	svc, userRepo, user := newBillingFixture(t)
	ctx := context.Background()

	event := stripeEvent(t, "charge.refunded", map[string]interface{}{"customer": "cus_123"})
	require.NoError(t, svc.HandleWebhookEvent(ctx, event))

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, updated.Plan, "unhandled events change nothing")
}

func TestWebhook_UnknownCustomerIsAcknowledged(t *testing.T) {
	svc, _, _ := newBillingFixture(t)

	event := stripeEvent(t, "invoice.payment_failed", map[string]interface{}{
		"customer": "cus_stranger",
	})
	assert.NoError(t, svc.HandleWebhookEvent(context.Background(), event))
}

func TestWebhook_MalformedPayloadIsAcknowledged(t *testing.T) {
	svc, _, _ := newBillingFixture(t)

	// Missing customer id: parsed as a variant, fails its contract, logged.
	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{})
	assert.NoError(t, svc.HandleWebhookEvent(context.Background(), event))
}

func TestMapSubscriptionStatus(t *testing.T) {
	assert.Equal(t, models.SubscriptionActive, mapSubscriptionStatus(stripe.SubscriptionStatusActive))
	assert.Equal(t, models.SubscriptionActive, mapSubscriptionStatus(stripe.SubscriptionStatusTrialing))
	assert.Equal(t, models.SubscriptionPastDue, mapSubscriptionStatus(stripe.SubscriptionStatusPastDue))
	assert.Equal(t, models.SubscriptionPastDue, mapSubscriptionStatus(stripe.SubscriptionStatusUnpaid))
	assert.Equal(t, models.SubscriptionCanceled, mapSubscriptionStatus(stripe.SubscriptionStatusCanceled))
	assert.Equal(t, models.SubscriptionNone, mapSubscriptionStatus(stripe.SubscriptionStatus("incomplete")))
}
