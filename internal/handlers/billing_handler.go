package handlers

import (
	"io"
	"net/http"

	"feedbackbox_backend/internal/config"
	"feedbackbox_backend/internal/dto"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/services"
	"feedbackbox_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Stripe webhook payloads are small; anything larger is not ours.
const maxWebhookBody = 65536

type BillingHandler struct {
	*BaseHandler
	billingService *services.BillingService
	webhookSecret  string
}

func NewBillingHandler(base *BaseHandler, billingService *services.BillingService, cfg *config.Config) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
		webhookSecret:  cfg.Stripe.WebhookSecret,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billing := r.Group("/billing")
	{
		billing.POST("/checkout", middleware.AuthMiddleware(), h.CreateCheckout)
		billing.POST("/portal", middleware.AuthMiddleware(), h.CreatePortal)
		billing.POST("/webhook", h.Webhook) // no auth - signed by Stripe
	}
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, req.Cadence)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

func (h *BillingHandler) CreatePortal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// Webhook verifies the Stripe signature over the raw body before any
// parsing. Signature failures are 400; everything past verification is
// acknowledged with 200 unless our own write fails.
func (h *BillingHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read webhook body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.CtxWarn(ctx, "webhook signature verification failed", "error", err.Error())
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid webhook signature"))
		return
	}

	if err := h.billingService.HandleWebhookEvent(ctx, event); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
