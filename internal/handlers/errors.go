package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

const (
	errKindNotFound = "not_found"
	errKindConflict = "conflict"
	errKindInvalid  = "invalid"
	errKindInternal = "internal"
)

func errorJSON(c *fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    kind,
			"message": message,
		},
	})
}

func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStudioNotFound):
		return errorJSON(c, fiber.StatusNotFound, errKindNotFound, "Studio not found")
	case errors.Is(err, services.ErrSessionNotFound):
		return errorJSON(c, fiber.StatusNotFound, errKindNotFound, "Session not found")
	case errors.Is(err, services.ErrStudioInUse):
		return errorJSON(c, fiber.StatusBadRequest, errKindConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, errKindInvalid, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, errKindInternal, "Failed to process request")
	}
}
