package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
)

type IdentityHandler struct{}

func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// Resolve reports the tenant key the middleware derived for this caller.
func (h *IdentityHandler) Resolve(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tenantKey": middleware.TenantKey(c)})
}
