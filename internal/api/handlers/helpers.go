package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-sync/internal/service"
)

// syncErrorStatus maps a failed pass to a response status. A rejected
// authorization code is the caller's problem; everything after it is ours.
func syncErrorStatus(err error) int {
	var exchangeErr *service.AuthExchangeError
	if errors.As(err, &exchangeErr) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}
