package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/database"
)

// HandleHealth reports process and database health for load balancers.
func HandleHealth(c *fiber.Ctx) error {
	dbState := "ok"
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbState = "unreachable"
		}
	} else {
		dbState = "not configured"
	}

	status := fiber.StatusOK
	if dbState != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "up",
		"database": dbState,
	})
}
