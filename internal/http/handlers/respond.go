package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopcore/internal/domain"
	applog "shopcore/internal/log"
	"shopcore/internal/services"
)

// The original API speaks a {code, message, data} envelope; every handler
// goes through these two helpers so the shape stays uniform.

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{"code": 200, "message": message, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"code": status, "message": message})
}

// failErr translates core errors into protocol responses. Expected business
// outcomes map to 4xx with the error detail; anything else is a storage
// failure, logged and reported as 500 without internals.
func failErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	default:
		applog.Error(c, action, err, nil)
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
}
