package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saidulislam/nucamp-soloai-sub002/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", controllers.HandleHealth)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
