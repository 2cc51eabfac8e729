package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

// statusFor maps business error kinds to HTTP statuses. Anything without a
// kind is an infrastructure failure.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInvalidAmount, domain.KindInvalidInput,
		domain.KindSameAccount, domain.KindInvalidTransition:
		return fiber.StatusBadRequest
	case domain.KindInsufficientBalance, domain.KindInsufficientStock,
		domain.KindDuplicateDelivery, domain.KindDuplicateInventory,
		domain.KindPersonUnavailable, domain.KindAlreadyDelivered,
		domain.KindAlreadyCancelled, domain.KindAlreadyRefunded,
		domain.KindAlreadyCompleted, domain.KindNotCompleted:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", c.Path())
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  string(domain.KindOf(err)),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryID(c *fiber.Ctx, name string) int64 {
	id, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return id
}
