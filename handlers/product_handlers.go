package handlers

import (
	"github.com/gofiber/fiber/v2"

	"app/models"
	"app/utils"
)

// HandleListProducts lists the stored product catalog with pagination.
// GET /api/v1/products
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	products, total, err := h.store.ListProducts(c.Context(), pageSize, offset)
	if err != nil {
		h.log.WithField("error", err).Error("failed to list products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to retrieve products",
		})
	}
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       products,
		"pagination": utils.CreatePagination(total, page, pageSize),
	})
}
