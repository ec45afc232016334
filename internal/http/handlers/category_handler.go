package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcore/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return failErr(c, "categories.list", err)
	}
	return ok(c, "categories", cats)
}
