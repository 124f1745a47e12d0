// Package config loads the application configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration. It is built once in main
// and passed to the components that need it.
type Config struct {
	ListenAddr         string
	DatabaseURL        string
	ForecastServiceURL string
	HorizonDays        int
	MinTrainingPoints  int
	PipelineWorkers    int
	ArtifactDir        string
	GeminiAPIKey       string
}

// Load reads the configuration from environment variables, applying
// defaults for the optional values. DATABASE_URL and
// FORECAST_SERVICE_URL are required.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         getenv("LISTEN_ADDR", ":3000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ForecastServiceURL: os.Getenv("FORECAST_SERVICE_URL"),
		HorizonDays:        getenvInt("FORECAST_HORIZON_DAYS", 90),
		MinTrainingPoints:  getenvInt("MIN_TRAINING_POINTS", 10),
		PipelineWorkers:    getenvInt("PIPELINE_WORKERS", 4),
		ArtifactDir:        getenv("ARTIFACT_DIR", "data/artifacts"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.ForecastServiceURL == "" {
		return Config{}, fmt.Errorf("FORECAST_SERVICE_URL is not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
