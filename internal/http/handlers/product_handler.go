package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// GET /api/products?q=&categoryId=&page=&pageSize=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	catID := strings.TrimSpace(c.Query("categoryId"))
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))

	res, err := h.Catalog.Search(q, catID, page, pageSize)
	if err != nil {
		return failErr(c, "products.list", err)
	}
	return ok(c, "products", res)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.Detail(id)
	if err != nil {
		return failErr(c, "products.detail", err)
	}
	return ok(c, "product", p)
}

// GET /api/products/:id/availability
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		return failErr(c, "products.availability", err)
	}
	return ok(c, "availability", avail)
}
