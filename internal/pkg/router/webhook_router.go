package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/saidulislam/nucamp-soloai-sub002/app/controllers"
)

type WebhookRouter struct {
}

// InstallRouter registers the provider callback endpoints. No body-parsing
// middleware may run before these handlers: signature verification needs the
// exact received bytes.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhooks := app.Group("/webhooks", limiter.New(limiter.Config{Max: 120}))
	webhooks.Post("/stripe", controllers.HandleStripeWebhook)
	webhooks.Post("/lemonsqueezy", controllers.HandleLemonSqueezyWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
