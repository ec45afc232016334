package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcore/internal/log"
	"shopcore/internal/services"
	"shopcore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	email, okEmail := validate.Email(req.Email)
	if !okEmail || req.Password == "" {
		applog.Security(c, "login.validation.fail", nil)
		return fail(c, fiber.StatusBadRequest, "email and password are required")
	}

	token, user, err := h.Auth.Login(email, req.Password)
	if err != nil {
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	applog.Audit(c, "login.ok", map[string]any{"user_id": user.ID})
	return ok(c, "login successful", fiber.Map{"token": token, "user": user})
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	email, okEmail := validate.Email(req.Email)
	name, okName := validate.Name(req.Name)
	if !okEmail || !okName || !validate.Password(req.Password) {
		return fail(c, fiber.StatusBadRequest, "invalid email, name or password")
	}

	user, err := h.Auth.Register(email, name, req.Password)
	if err != nil {
		return failErr(c, "register", err)
	}
	applog.Audit(c, "register.ok", map[string]any{"user_id": user.ID})
	return ok(c, "registered", user)
}
