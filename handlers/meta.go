package handlers

import (
	"github.com/carpricer/site/config"
	"github.com/gofiber/fiber/v2"
)

// HandleRoot returns static service metadata
func HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": config.ServiceName,
		"version": config.ServiceVersion,
		"endpoints": []string{
			"POST /predict",
			"GET /health",
		},
	})
}
