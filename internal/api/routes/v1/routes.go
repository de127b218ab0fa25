package v1

import (
	"lexedit-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, cfg *config.Config) error {
	registerHealth(r)

	return registerEditor(r, cfg)
}
