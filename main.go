package main

import (
	"fmt"
	"log"
	"time"

	"github.com/carpricer/site/config"
	"github.com/carpricer/site/db"
	h "github.com/carpricer/site/handlers"
	"github.com/carpricer/site/listing"
	"github.com/carpricer/site/predict"
	"github.com/carpricer/site/pricemodel"
	"github.com/carpricer/site/spec"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	// Initialize database
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("error initializing database: %v", err)
	}

	// Load the specification catalog
	specs, err := spec.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load specification catalog: %v", err)
	}

	// Load the listing catalog
	listings, err := listing.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load listing catalog: %v", err)
	}

	// Load the price model
	model, err := pricemodel.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load price model: %v", err)
	}

	tolerance := predict.DynamicTolerance
	if cfg.TolerancePolicy == "fixed" {
		tolerance = predict.FixedTolerance(cfg.ToleranceWindow)
	}

	h.Init(predict.New(specs, listings, model, tolerance))

	app := fiber.New(fiber.Config{
		ErrorHandler: h.CustomErrorHandler,
		ReadTimeout:  30 * time.Second, // Prevent long-running requests
		WriteTimeout: 30 * time.Second, // Prevent long-running responses
	})

	// Add rate limiter
	app.Use(limiter.New(limiter.Config{
		Max:        config.ServerRateLimitMax,
		Expiration: config.ServerRateLimitExp,
	}))

	// Allow cross-origin requests from any origin
	app.Use(cors.New())

	// Add logger middleware
	app.Use(logger.New())

	// Service metadata
	app.Get("/", h.HandleRoot)

	// Prediction endpoint
	app.Post("/predict", h.HandlePredict)

	// Health check
	app.Get("/health", h.HandleHealth)

	fmt.Printf("Starting server on port %s...\n", cfg.ServerPort)
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
