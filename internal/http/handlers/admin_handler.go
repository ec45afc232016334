package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopcore/internal/domain"
	applog "shopcore/internal/log"
	"shopcore/internal/repos"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type AdminHandler struct {
	Orders  *services.OrderService
	Catalog *services.CatalogService
	Inv     *services.InventoryService
	Users   *repos.UserRepo
}

// GET /api/admin/orders?status=&orderNo=&userId=&page=&pageSize=
func (h *AdminHandler) OrdersList(c *fiber.Ctx) error {
	f := repos.OrderFilters{
		Status:  domain.OrderStatus(strings.TrimSpace(c.Query("status"))),
		OrderNo: strings.TrimSpace(c.Query("orderNo")),
		UserID:  strings.TrimSpace(c.Query("userId")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return fail(c, fiber.StatusBadRequest, "unknown status filter")
	}
	page, pageSize := validate.Page(c.Query("page"), c.Query("pageSize"))

	res, err := h.Orders.List(identity(c), f, page, pageSize)
	if err != nil {
		return failErr(c, "admin.orders.list", err)
	}
	return ok(c, "orders", res)
}

// GET /api/admin/orders/:id
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, err := h.Orders.Get(id, identity(c))
	if err != nil {
		return failErr(c, "admin.orders.detail", err)
	}
	return ok(c, "order", o)
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/orders/:id — move an order to a new status. The payload
// is typed JSON; legality is enforced by the state machine, not here.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	next := domain.OrderStatus(strings.TrimSpace(req.Status))
	if !next.Valid() {
		return fail(c, fiber.StatusBadRequest, "unknown status")
	}

	if err := h.Orders.Transition(id, next, identity(c)); err != nil {
		return failErr(c, "admin.orders.status", err)
	}
	applog.Audit(c, "admin.orders.status", map[string]any{"order_id": id, "status": next})
	return ok(c, "status updated", nil)
}

type productRequest struct {
	ID          string `json:"id"`
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
	Active      *bool  `json:"active"`
}

func (r productRequest) product() (domain.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return domain.Product{}, domain.ErrInvalidInput
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.Product{
		ID:          strings.TrimSpace(r.ID),
		CategoryID:  strings.TrimSpace(r.CategoryID),
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		Active:      active,
	}, nil
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	p, err := req.product()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid price")
	}
	created, err := h.Catalog.CreateProduct(p)
	if err != nil {
		return failErr(c, "admin.products.create", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": created.ID})
	return ok(c, "product created", created)
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.ID = id
	p, err := req.product()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid price")
	}
	updated, err := h.Catalog.UpdateProduct(p)
	if err != nil {
		return failErr(c, "admin.products.update", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return ok(c, "product updated", updated)
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// PUT /api/admin/products/:id/stock — absolute restock.
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	if err := h.Inv.Restock(id, req.Stock); err != nil {
		return failErr(c, "admin.inventory.restock", err)
	}
	applog.Audit(c, "admin.inventory.restock", map[string]any{"product_id": id, "stock": req.Stock})
	return ok(c, "stock updated", nil)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	name, okName := validate.Name(req.Name)
	if !okName {
		return fail(c, fiber.StatusBadRequest, "name is required")
	}
	cat, err := h.Catalog.CreateCategory(name)
	if err != nil {
		return failErr(c, "admin.categories.create", err)
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID})
	return ok(c, "category created", cat)
}

// PUT /api/admin/categories/:id
func (h *AdminHandler) RenameCategory(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid category id")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	name, okName := validate.Name(req.Name)
	if !okName {
		return fail(c, fiber.StatusBadRequest, "name is required")
	}
	if err := h.Catalog.RenameCategory(id, name); err != nil {
		return failErr(c, "admin.categories.rename", err)
	}
	return ok(c, "category renamed", nil)
}

// DELETE /api/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid category id")
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return failErr(c, "admin.categories.delete", err)
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return ok(c, "category deleted", nil)
}

// GET /api/admin/users
func (h *AdminHandler) UsersList(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return failErr(c, "admin.users.list", err)
	}
	return ok(c, "users", users)
}
