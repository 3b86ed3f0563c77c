package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/changelog"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

type ProductHandler struct {
	productRepo  repositories.ProductRepo
	changelogSvc *changelog.Service
}

func NewProductHandler(productRepo repositories.ProductRepo, changelogSvc *changelog.Service) *ProductHandler {
	return &ProductHandler{
		productRepo:  productRepo,
		changelogSvc: changelogSvc,
	}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	tid := tenantID(c)

	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and a non-negative price are required",
		})
	}

	unit := req.Unit
	if unit == "" {
		unit = "unidad"
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &models.Product{
		TenantID:        tid,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		Unit:            unit,
		WastePercentage: req.WastePercentage,
		InStock:         inStock,
	}

	if err := h.productRepo.Create(product); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.changelogSvc.RecordFrom(c.Context(), tid, changelog.SourceDashboard, changelog.ActionAddProduct,
		fmt.Sprintf("Producto agregado: %q", product.Name),
		fiber.Map{"productId": product.ID.String(), "name": product.Name, "price": product.Price, "unit": product.Unit})

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productRepo.GetByID(tenantID(c), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	return c.JSON(product)
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		Category:   c.Query("category"),
		SearchTerm: c.Query("search"),
		Page:       1,
		PageSize:   10,
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		inStock := inStockStr == "true"
		filter.InStock = &inStock
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

	products, total, err := h.productRepo.List(tenantID(c), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return c.JSON(models.ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	tid := tenantID(c)

	product, err := h.productRepo.GetByID(tid, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.WastePercentage != nil {
		product.WastePercentage = *req.WastePercentage
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := h.productRepo.Update(product); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.changelogSvc.RecordFrom(c.Context(), tid, changelog.SourceDashboard, changelog.ActionUpdateProduct,
		fmt.Sprintf("Producto actualizado: %q", product.Name),
		fiber.Map{"productId": product.ID.String(), "name": product.Name})

	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	tid := tenantID(c)

	product, err := h.productRepo.GetByID(tid, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	if err := h.productRepo.Delete(tid, c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.changelogSvc.RecordFrom(c.Context(), tid, changelog.SourceDashboard, changelog.ActionRemoveProduct,
		fmt.Sprintf("Producto eliminado: %q", product.Name),
		fiber.Map{"productId": product.ID.String(), "name": product.Name})

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
