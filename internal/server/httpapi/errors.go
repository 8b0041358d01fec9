package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/babalolajnr/todo-api/internal/common"
)

// statusFromError maps the sentinel errors to HTTP status codes. Anything
// unclassified is a server fault.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders err as a JSON body with the mapped status. Server
// faults get a generic body; the detail only goes to the log.
func (s *HTTPServer) writeError(c *fiber.Ctx, err error) error {
	status := statusFromError(err)

	if status == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
