package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// CustomErrorHandler renders application errors as a JSON detail payload
func CustomErrorHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return ctx.Status(code).JSON(fiber.Map{
		"detail": err.Error(),
	})
}
