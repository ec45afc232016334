package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopcore/internal/domain"
	applog "shopcore/internal/log"
	"shopcore/internal/services"
)

// identity pulls the authenticated identity stored by RequireUser.
func identity(c *fiber.Ctx) domain.Identity {
	ident, _ := c.Locals("identity").(domain.Identity)
	return ident
}

func bearerIdentity(c *fiber.Ctx, auth *services.AuthService) (domain.Identity, bool) {
	raw := strings.TrimSpace(c.Get("Authorization"))
	token, found := strings.CutPrefix(raw, "Bearer ")
	if !found || token == "" {
		return domain.Identity{}, false
	}
	ident, err := auth.Identify(token)
	if err != nil {
		return domain.Identity{}, false
	}
	return ident, true
}

// RequireUser authenticates the bearer token and stores the identity for
// downstream handlers.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := bearerIdentity(c, auth)
		if !ok {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid or missing bearer token")
		}
		c.Locals("identity", ident)
		c.Locals("user_id", ident.UserID)
		return c.Next()
	}
}

// RequireAdmin gates the administrative surface.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := bearerIdentity(c, auth)
		if !ok {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid or missing bearer token")
		}
		if !ident.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": ident.UserID})
			return fail(c, fiber.StatusForbidden, "admin role required")
		}
		c.Locals("identity", ident)
		c.Locals("user_id", ident.UserID)
		return c.Next()
	}
}
