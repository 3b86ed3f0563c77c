package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/changelog"
)

type ChangelogHandler struct {
	changelogSvc *changelog.Service
}

func NewChangelogHandler(changelogSvc *changelog.Service) *ChangelogHandler {
	return &ChangelogHandler{changelogSvc: changelogSvc}
}

// ListChanges returns the tenant's business change history, newest first.
func (h *ChangelogHandler) ListChanges(c *fiber.Ctx) error {
	filter := changelog.Filter{
		Action: c.Query("action"),
		Source: c.Query("source"),
	}

	if startStr := c.Query("start_date"); startStr != "" {
		if start, err := time.Parse(time.RFC3339, startStr); err == nil {
			filter.StartDate = &start
		}
	}
	if endStr := c.Query("end_date"); endStr != "" {
		if end, err := time.Parse(time.RFC3339, endStr); err == nil {
			filter.EndDate = &end
		}
	}
	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if pageSize, err := strconv.Atoi(pageSizeStr); err == nil && pageSize > 0 {
			filter.PageSize = pageSize
		}
	}

	response, err := h.changelogSvc.List(c.Context(), tenantID(c), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(response)
}
