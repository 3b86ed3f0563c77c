package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/analytics"
)

type DashboardHandler struct {
	analyticsSvc *analytics.Service
}

func NewDashboardHandler(analyticsSvc *analytics.Service) *DashboardHandler {
	return &DashboardHandler{analyticsSvc: analyticsSvc}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.analyticsSvc.Dashboard(c.Context(), tenantID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}

func (h *DashboardHandler) GetSales(c *fiber.Ctx) error {
	period := analytics.ParsePeriod(c.Query("period"))

	summary, err := h.analyticsSvc.SalesForPeriod(c.Context(), tenantID(c), period)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}
