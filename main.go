package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/cache"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/database"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/env"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		// Webhook payloads are small; cap the body well under the default.
		BodyLimit: 1 << 20, // 1 MiB
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app)

	return app
}
