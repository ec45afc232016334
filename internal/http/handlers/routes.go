package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "shopcore/internal/log"
)

// Register mounts every API route on the app. Cross-cutting middleware
// (request ids, metrics, the global rate limit) stays with the caller.
func Register(app *fiber.App, deps *Deps) {
	api := app.Group("/api")

	// ---------- Public ----------
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code": 429, "message": "too many attempts, try again later",
			})
		},
	}), deps.AuthHandler.Login)
	api.Post("/auth/register", deps.AuthHandler.Register)

	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/products/:id/availability", deps.ProductHandler.Availability)

	// ---------- Authenticated ----------
	user := api.Group("", RequireUser(deps.Auth))
	user.Get("/cart", deps.CartHandler.View)
	user.Post("/cart", deps.CartHandler.Add)
	user.Put("/cart/:productId", deps.CartHandler.Update)
	user.Delete("/cart/:productId", deps.CartHandler.Remove)

	user.Post("/orders", deps.OrderHandler.PlaceFromCart)
	user.Post("/orders/direct", deps.OrderHandler.PlaceFromProduct)
	user.Get("/orders", deps.OrderHandler.List)
	user.Get("/orders/:id", deps.OrderHandler.Detail)
	user.Post("/orders/pay/:orderNo", deps.OrderHandler.Pay)
	user.Post("/orders/:id/cancel", deps.OrderHandler.Cancel)
	user.Post("/orders/:id/complete", deps.OrderHandler.Complete)

	// ---------- Admin ----------
	admin := api.Group("/admin", RequireAdmin(deps.Auth))
	admin.Get("/orders", deps.AdminHandler.OrdersList)
	admin.Get("/orders/:id", deps.AdminHandler.OrderDetail)
	admin.Put("/orders/:id", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Put("/products/:id/stock", deps.AdminHandler.UpdateStock)
	admin.Post("/categories", deps.AdminHandler.CreateCategory)
	admin.Put("/categories/:id", deps.AdminHandler.RenameCategory)
	admin.Delete("/categories/:id", deps.AdminHandler.DeleteCategory)
	admin.Get("/users", deps.AdminHandler.UsersList)
}
