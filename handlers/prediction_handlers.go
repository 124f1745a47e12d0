package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"app/store"
)

// HandleGetPrediction returns the stored demand forecast for a product,
// ordered by date.
// GET /api/v1/predictions/:productId
func (h *Handler) HandleGetPrediction(c *fiber.Ctx) error {
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
		h.log.WithField("error", err).Error("failed to load forecast")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to retrieve forecast",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   points,
	})
}
