package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"app/config"
	"app/database"
	"app/forecast"
	"app/handlers"
	"app/objectstore"
	"app/pipeline"
	"app/routes"
	"app/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the database.
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	st := store.NewPostgresStore(pool)
	if err := st.Bootstrap(ctx); err != nil {
		log.Fatalf("failed to bootstrap database schema: %v", err)
	}

	// Wire the pipeline: forecaster -> orchestrator -> coordinator,
	// executed on a background runner decoupled from the upload request.
	forecaster := forecast.NewClient(cfg.ForecastServiceURL, cfg.MinTrainingPoints)
	orchestrator := pipeline.NewOrchestrator(forecaster, cfg.MinTrainingPoints, cfg.PipelineWorkers, log)
	coordinator := pipeline.NewCoordinator(st, orchestrator, log)
	runner := pipeline.NewAsyncRunner(ctx, 16, log)

	sink := objectstore.NewFilesystemSink(cfg.ArtifactDir)

	h := handlers.New(st, coordinator, runner, sink, log, cfg.HorizonDays, cfg.GeminiAPIKey)

	app := fiber.New()
	app.Use(cors.New())
	routes.SetupRoutes(app, h, log)

	// Start the server and wait for a shutdown signal.
	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()
	log.WithField("addr", cfg.ListenAddr).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithField("error", err).Error("server shutdown failed")
	}
	runner.Stop()
}
