package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ServiceName and ServiceVersion are reported by the metadata endpoint.
	ServiceName    = "carpricer"
	ServiceVersion = "1.2.0"

	// ServerRateLimitMax requests per ServerRateLimitExp window.
	ServerRateLimitMax = 100
	ServerRateLimitExp = 1 * time.Minute
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DatabaseURL string
	ModelPath   string

	// TolerancePolicy selects how the listing match window is computed:
	// "dynamic" (half the predicted price, floored at 20000) or "fixed"
	// (a constant ToleranceWindow).
	TolerancePolicy string
	ToleranceWindow float64
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8000"),
		DatabaseURL: getEnv("DATABASE_URL", "catalog.db"),
		ModelPath:   getEnv("MODEL_PATH", "gradient_boosting_model_v2.json"),

		TolerancePolicy: getEnv("TOLERANCE_POLICY", "dynamic"),
		ToleranceWindow: getEnvFloat("TOLERANCE_WINDOW", 10000),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
