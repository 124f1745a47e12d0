package handlers

import "github.com/gofiber/fiber/v2"

// HandleHealthCheck reports service liveness.
// GET /api/v1/health
func (h *Handler) HandleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleRoot greets callers hitting the API root.
// GET /
func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Smart Stock API!"})
}
