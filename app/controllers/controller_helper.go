package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JSON error envelopes shared by all controllers. Pure-computation
// failures surface as bad_request, store failures as datasource_error and
// pre-write rejections as validation_failed.

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func validationFailed(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":   "validation_failed",
		"message": message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "not_found",
		"message": message,
	})
}

// dataSourceError reports a failed read/write against the backing store.
// The failure is surfaced to the caller and not retried; the client keeps
// whatever state it already displays.
func dataSourceError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   "datasource_error",
		"message": err.Error(),
	})
}

// repoError maps a repository failure to the matching JSON envelope.
func repoError(c *fiber.Ctx, err error, missing string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c, missing)
	}
	return dataSourceError(c, err)
}

// parseDate parses a zero-padded YYYY-MM-DD value. Mixing date formats
// was a real source of drift between earlier implementations of the
// overlap logic, so anything else is rejected outright.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
