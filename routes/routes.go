package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"app/handlers"
	"app/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, log *logrus.Logger) {
	app.Use(middleware.RequestLogger(log))

	app.Get("/", h.HandleRoot)

	api := app.Group("/api/v1")

	// Health
	api.Get("/health", h.HandleHealthCheck)

	// Upload: validates synchronously, forecasts in the background
	api.Post("/upload", h.HandleUploadCSVs)

	// Predictions
	api.Get("/predictions/:productId", h.HandleGetPrediction)

	// Product catalog
	api.Get("/products", h.HandleListProducts)

	// Insights (Gemini-backed, optional)
	api.Post("/insights/:productId", h.HandleGenerateInsight)
}
