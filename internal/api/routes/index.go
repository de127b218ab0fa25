package routes

import (
	"lexedit-backend/internal/api/routes/v1"
	"lexedit-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

func Register(app *fiber.App, cfg *config.Config) error {
	// API v1 group
	api := app.Group("/api")
	v1Group := api.Group("/v1")

	// Register v1 routes
	return v1.RegisterRoutes(v1Group, cfg)
}
