package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventpix/eventpix/app/controllers"
)

type WebhookRouter struct {
}

// InstallRouter registers the inbound webhook endpoints. They sit outside
// the session middleware chain on purpose: callers authenticate with payload
// signatures, never with cookies.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhooks := app.Group("/webhooks")
	webhooks.Post("/facematch", controllers.HandleFacematchWebhook)
	webhooks.Post("/billing", controllers.HandleBillingWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
