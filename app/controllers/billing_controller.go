package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/billing"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/database"
)

// HandleStripeWebhook ingests Stripe deliveries. There is no auth middleware
// in front of this route; the signature check inside the reconciliation
// engine is the authentication.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))

	svc := billing.NewServiceFromDB(database.GetDB())
	result := svc.ProcessStripeWebhook(rawBody, signature)
	return respondWebhookResult(c, "stripe", result)
}

// HandleLemonSqueezyWebhook ingests Lemon Squeezy deliveries.
func HandleLemonSqueezyWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Signature"))

	svc := billing.NewServiceFromDB(database.GetDB())
	result := svc.ProcessLemonSqueezyWebhook(rawBody, signature)
	return respondWebhookResult(c, "lemonsqueezy", result)
}

// respondWebhookResult maps an engine outcome onto the response contract the
// providers retry against: 200 acknowledges (including duplicates), 400
// tells the provider the delivery itself is bad, 500 asks for a redelivery.
func respondWebhookResult(c *fiber.Ctx, provider string, result billing.Result) error {
	requestID := uuid.NewString()

	switch result.Outcome {
	case billing.OutcomeProcessed, billing.OutcomeDuplicate:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"received":  true,
			"eventType": result.EventType,
		})
	case billing.OutcomeRejected:
		log.Printf("[Webhook][%s] request %s rejected: code=%s", provider, requestID, result.Code)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "webhook rejected",
			"code":  result.Code,
		})
	default:
		log.Printf("[Webhook][%s] request %s failed: code=%s err=%v", provider, requestID, result.Code, result.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "webhook processing failed",
			"code":  result.Code,
		})
	}
}
