package delivery

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub/config"
)

func NewHealthDelivery(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": config.GetAppName() + " is running",
		})
	})
}
