package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/eventpix/eventpix/internal/pkg/env"
)

// HandleBillingWebhook receives provider billing events. The payload is
// verified against the endpoint's signing secret before anything is parsed;
// verified events are mirrored into the local billing tables. A mirror
// failure returns 5xx so the provider redelivers the event.
func HandleBillingWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), secret)
	if err != nil {
		log.Warnf("[Billing] rejected webhook with bad signature from %s: %v", c.IP(), err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	if err := billingService.HandleEvent(event); err != nil {
		log.Errorf("[Billing] failed to apply event %s (%s): %v", event.ID, event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "event processing failed",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}
