package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"app/store"
)

// HandleGenerateInsight produces a natural-language summary of a
// product's stored demand forecast using the Gemini API. The endpoint is
// advisory only; it reads persisted forecasts and never touches the
// pipeline.
// POST /api/v1/insights/:productId
func (h *Handler) HandleGenerateInsight(c *fiber.Ctx) error {
	if h.geminiKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "error",
			"message": "Insight generation is not configured",
		})
	}

	productID, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "productId must be an integer",
		})
	}

	points, err := h.store.ForecastsByProduct(c.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "no forecast found for the requested product",
			})
		}
		h.log.WithField("error", err).Error("failed to load forecast for insight")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to retrieve forecast",
		})
	}

	var total float64
	for _, p := range points {
		total += p.Yhat
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "You are a demand planning assistant for an e-commerce store.\n")
	fmt.Fprintf(&prompt, "Product %d has a demand forecast of %d daily rows from %s to %s, totalling %.0f predicted units.\n",
		productID, len(points),
		points[0].DS.Format("2006-01-02"),
		points[len(points)-1].DS.Format("2006-01-02"),
		total)
	fmt.Fprintf(&prompt, "Write a short plain-language summary of the expected demand and one stocking recommendation.")

	// Initialize the Gemini client
	ctx := c.Context()
	client, err := genai.NewClient(ctx, option.WithAPIKey(h.geminiKey))
	if err != nil {
		h.log.WithField("error", err).Error("failed to create Gemini client")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to initialize Gemini client",
		})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-pro-latest")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		h.log.WithField("error", err).Error("failed to generate insight")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate insight",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   resp,
	})
}
