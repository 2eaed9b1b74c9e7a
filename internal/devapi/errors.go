package devapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "stridecart/internal/log"
)

// Error is a failure the client is meant to see: its message goes out as
// the {message} body with Status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func apiError(status int, msg string) *Error { return &Error{Status: status, Message: msg} }

var (
	ErrNotFound     = apiError(fiber.StatusNotFound, "Not found")
	ErrUnauthorized = apiError(fiber.StatusUnauthorized, "Please sign in")
	ErrForbidden    = apiError(fiber.StatusForbidden, "Manager access required")
)

// ErrorHandler writes every error as {message}. Anything that is not an
// *Error or *fiber.Error is logged and reported without detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return c.Status(ae.Status).JSON(fiber.Map{"message": ae.Message})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Something went wrong. Please try again."})
}
