package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcore/internal/domain"
	applog "shopcore/internal/log"
	"shopcore/internal/metrics"
	"shopcore/internal/repos"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type OrderHandler struct {
	Orders  *services.OrderService
	Metrics *metrics.ServerMetrics
}

type receiverRequest struct {
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	ReceiverAddress string `json:"receiverAddress"`
}

type directOrderRequest struct {
	receiverRequest
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func (r receiverRequest) receiver() (domain.Receiver, bool) {
	name, okName := validate.Name(r.ReceiverName)
	phone, okPhone := validate.Phone(r.ReceiverPhone)
	addr, okAddr := validate.Address(r.ReceiverAddress)
	if !okName || !okPhone || !okAddr {
		return domain.Receiver{}, false
	}
	return domain.Receiver{Name: name, Phone: phone, Address: addr}, true
}

func (h *OrderHandler) countOrder(event string) {
	if h.Metrics != nil {
		h.Metrics.Orders.WithLabelValues(event).Inc()
	}
}

// POST /api/orders — create an order from the caller's cart.
func (h *OrderHandler) PlaceFromCart(c *fiber.Ctx) error {
	var req receiverRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	rcv, okRcv := req.receiver()
	if !okRcv {
		applog.Security(c, "order.place.validation.fail", nil)
		return fail(c, fiber.StatusBadRequest, "receiver name, phone and address are required")
	}

	o, err := h.Orders.PlaceFromCart(identity(c).UserID, rcv)
	if err != nil {
		h.countOrder("place_rejected")
		return failErr(c, "order.place", err)
	}
	h.countOrder("placed")
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "order_no": o.OrderNo, "total": o.Total})
	return ok(c, "order created", o)
}

// POST /api/orders/direct — buy a single product without a cart.
func (h *OrderHandler) PlaceFromProduct(c *fiber.Ctx) error {
	var req directOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	pid, okID := validate.ID(req.ProductID)
	rcv, okRcv := req.receiver()
	if !okID || !okRcv || req.Qty < 1 {
		applog.Security(c, "order.direct.validation.fail", nil)
		return fail(c, fiber.StatusBadRequest, "productId, positive qty and receiver info are required")
	}

	o, err := h.Orders.PlaceFromProduct(identity(c).UserID, pid, req.Qty, rcv)
	if err != nil {
		h.countOrder("place_rejected")
		return failErr(c, "order.direct", err)
	}
	h.countOrder("placed")
	applog.Audit(c, "order.direct", map[string]any{"order_id": o.ID, "order_no": o.OrderNo, "total": o.Total})
	return ok(c, "order created", o)
}

// GET /api/orders — the caller's own orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))
	res, err := h.Orders.List(identity(c), repos.OrderFilters{}, page, pageSize)
	if err != nil {
		return failErr(c, "order.list", err)
	}
	return ok(c, "orders", res)
}

// GET /api/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, err := h.Orders.Get(id, identity(c))
	if err != nil {
		return failErr(c, "order.detail", err)
	}
	return ok(c, "order", o)
}

// POST /api/orders/pay/:orderNo — simulated payment.
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	orderNo, okNo := validate.ID(c.Params("orderNo"))
	if !okNo {
		return fail(c, fiber.StatusBadRequest, "invalid order number")
	}
	o, err := h.Orders.Pay(orderNo, identity(c))
	if err != nil {
		return failErr(c, "order.pay", err)
	}
	h.countOrder("paid")
	applog.Audit(c, "order.pay", map[string]any{"order_id": o.ID, "order_no": o.OrderNo})
	return ok(c, "payment successful", o)
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, domain.StatusCancelled, "order.cancel", "order cancelled")
}

// POST /api/orders/:id/complete — customer confirms receipt.
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, domain.StatusCompleted, "order.complete", "receipt confirmed")
}

func (h *OrderHandler) transition(c *fiber.Ctx, next domain.OrderStatus, action, message string) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	if err := h.Orders.Transition(id, next, identity(c)); err != nil {
		return failErr(c, action, err)
	}
	h.countOrder(string(next))
	applog.Audit(c, action, map[string]any{"order_id": id})
	return ok(c, message, nil)
}
