package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireTenant resolves the tenant for dashboard routes from the
// X-Tenant-ID header and stores it in the request context. Dashboard
// authentication lives in front of this API, the header carries the
// already-authenticated tenant.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantIDStr := c.Get("X-Tenant-ID")
		if tenantIDStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "X-Tenant-ID header is required",
			})
		}

		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid tenant ID",
			})
		}

		c.Locals("tenantID", tenantID)
		return c.Next()
	}
}

// tenantID pulls the tenant set by RequireTenant.
func tenantID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("tenantID").(uuid.UUID)
	return id
}
