package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/carpricer/site/predict"
	"github.com/gofiber/fiber/v2"
)

// PredictRequest is the POST /predict body
type PredictRequest struct {
	Brand string `json:"brand"`
}

// HandlePredict predicts a price for the requested brand and returns the
// nearest listing within tolerance, if any.
func HandlePredict(c *fiber.Ctx) error {
	var req PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Request body must be JSON with a brand field.")
	}

	result, err := predictor.PredictPrice(req.Brand)
	if err != nil {
		var unknown predict.UnknownBrandError
		var inference predict.ModelInferenceError
		switch {
		case errors.Is(err, predict.ErrInvalidInput):
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Brand name cannot be empty or just whitespace.")
		case errors.As(err, &unknown):
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Brand '%s' not found in the dataset.", unknown.Brand))
		case errors.As(err, &inference):
			log.Printf("[handlers] inference failure: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Price inference failed.")
		default:
			return err
		}
	}

	return c.JSON(result)
}
