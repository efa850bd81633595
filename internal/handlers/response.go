package handlers

import (
	"errors"
	"log"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondData writes the success envelope.
func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondMessage writes a success envelope without data.
func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// respondError translates a domain error into the response envelope. Errors
// outside the taxonomy are store failures: logged with full detail, returned
// as an opaque server error.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Server Error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
		message = "Access denied"
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	default:
		log.Printf("Store failure: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
