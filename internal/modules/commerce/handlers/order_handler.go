package handlers

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/export"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/services"
)

type OrderHandler struct {
	orderRepo  repositories.OrderRepo
	tenantRepo repositories.TenantRepo
	orderSvc   *services.OrderService
	exporter   *export.OrdersExporter
}

func NewOrderHandler(
	orderRepo repositories.OrderRepo,
	tenantRepo repositories.TenantRepo,
	orderSvc *services.OrderService,
	exporter *export.OrdersExporter,
) *OrderHandler {
	return &OrderHandler{
		orderRepo:  orderRepo,
		tenantRepo: tenantRepo,
		orderSvc:   orderSvc,
		exporter:   exporter,
	}
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	page := 1
	pageSize := 20
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 {
			pageSize = ps
		}
	}

	orders, total, err := h.orderRepo.ListByTenant(tenantID(c), c.Query("status"), page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orderRepo.GetByID(tenantID(c), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	return c.JSON(order)
}

func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req models.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.ValidOrderStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order status",
		})
	}

	order, err := h.orderSvc.UpdateStatus(tenantID(c).String(), c.Params("id"), req.Status)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(order)
}

// ExportOrders streams the tenant's orders as a spreadsheet download.
func (h *OrderHandler) ExportOrders(c *fiber.Ctx) error {
	tid := tenantID(c)

	tenant, err := h.tenantRepo.GetByID(tid.String())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tenant not found",
		})
	}

	rows, err := h.orderSvc.ExportRows(tid.String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, tenant.BusinessName, rows); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", h.exporter.ContentType())
	c.Set("Content-Disposition", `attachment; filename="`+h.exporter.FileName(tenant.BusinessName)+`"`)
	return c.Send(buf.Bytes())
}
