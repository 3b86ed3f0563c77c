package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
)

type HealthHandler struct {
	whatsappService *whatsapp.Service
}

func NewHealthHandler(whatsappService *whatsapp.Service) *HealthHandler {
	return &HealthHandler{whatsappService: whatsappService}
}

func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "vendebot-api",
		"provider": h.whatsappService.ProviderName(),
	})
}
