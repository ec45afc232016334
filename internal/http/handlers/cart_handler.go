package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(identity(c).UserID)
	if err != nil {
		return failErr(c, "cart.view", err)
	}
	return ok(c, "cart", cv)
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID || req.Qty < 1 {
		return fail(c, fiber.StatusBadRequest, "productId and positive qty are required")
	}
	if err := h.Cart.Add(identity(c).UserID, pid, req.Qty); err != nil {
		return failErr(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": pid, "qty": req.Qty})
	return ok(c, "added to cart", nil)
}

// PUT /api/cart/:productId
func (h *CartHandler) Update(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	if req.Qty < 1 {
		return fail(c, fiber.StatusBadRequest, "positive qty is required")
	}
	if err := h.Cart.SetQty(identity(c).UserID, pid, req.Qty); err != nil {
		return failErr(c, "cart.update", err)
	}
	return ok(c, "cart updated", nil)
}

// DELETE /api/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Cart.Remove(identity(c).UserID, pid); err != nil {
		return failErr(c, "cart.remove", err)
	}
	return ok(c, "removed from cart", nil)
}
