package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/core/changelog"
	"github.com/vendebot/vendebot-backend/internal/core/payment"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

type TenantHandler struct {
	tenantRepo   repositories.TenantRepo
	changelogSvc *changelog.Service

	// mpGateway is nil when payments are disabled; the OAuth endpoints
	// answer 503 in that case.
	mpGateway *payment.MercadoPagoGateway
	appURL    string
}

func NewTenantHandler(
	tenantRepo repositories.TenantRepo,
	changelogSvc *changelog.Service,
	mpGateway *payment.MercadoPagoGateway,
	appURL string,
) *TenantHandler {
	return &TenantHandler{
		tenantRepo:   tenantRepo,
		changelogSvc: changelogSvc,
		mpGateway:    mpGateway,
		appURL:       appURL,
	}
}

func (h *TenantHandler) GetSettings(c *fiber.Ctx) error {
	tenant, err := h.tenantRepo.GetByID(tenantID(c).String())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tenant not found",
		})
	}

	return c.JSON(fiber.Map{
		"tenant":             tenant,
		"payments_connected": tenant.HasPayments(),
	})
}

func (h *TenantHandler) UpdateSettings(c *fiber.Ctx) error {
	tenant, err := h.tenantRepo.GetByID(tenantID(c).String())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tenant not found",
		})
	}

	var req models.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.BusinessName != nil {
		tenant.BusinessName = *req.BusinessName
	}
	if req.BotPersonality != nil {
		tenant.BotPersonality = *req.BotPersonality
	}
	if req.Description != nil {
		tenant.Description = *req.Description
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.Hours != nil {
		tenant.Hours = *req.Hours
	}
	if req.DeliveryZones != nil {
		tenant.DeliveryZones = *req.DeliveryZones
	}
	if req.OwnerPhoneNumber != nil {
		tenant.OwnerPhoneNumber = *req.OwnerPhoneNumber
	}

	if err := h.tenantRepo.Update(tenant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.changelogSvc.RecordFrom(c.Context(), tenant.ID, changelog.SourceDashboard, changelog.ActionOther,
		"Configuración del negocio actualizada", nil)

	return c.JSON(tenant)
}

// ConnectMercadoPago starts the OAuth flow that links the tenant's
// MercadoPago merchant account. The tenant id rides in the state parameter.
func (h *TenantHandler) ConnectMercadoPago(c *fiber.Ctx) error {
	if h.mpGateway == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Payments are not configured",
		})
	}

	return c.Redirect(h.mpGateway.OAuthURL(tenantID(c).String()), fiber.StatusTemporaryRedirect)
}

// MercadoPagoCallback finishes the OAuth flow: exchanges the code and stores
// the merchant credentials on the tenant.
func (h *TenantHandler) MercadoPagoCallback(c *fiber.Ctx) error {
	if h.mpGateway == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Payments are not configured",
		})
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code and state are required",
		})
	}

	tenant, err := h.tenantRepo.GetByID(state)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tenant not found",
		})
	}

	token, err := h.mpGateway.ExchangeCode(c.Context(), code)
	if err != nil {
		log.Printf("❌ MercadoPago OAuth exchange failed for tenant %s: %v", tenant.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to connect MercadoPago account",
		})
	}

	tenant.MPAccessToken = token.AccessToken
	tenant.MPRefreshToken = token.RefreshToken
	tenant.MPUserID = token.UserID
	if err := h.tenantRepo.Update(tenant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("💳 MercadoPago connected for tenant %s (mp user %d)", tenant.BusinessName, token.UserID)

	h.changelogSvc.RecordFrom(c.Context(), tenant.ID, changelog.SourceDashboard, changelog.ActionOther,
		"Cuenta de MercadoPago conectada", fiber.Map{"mpUserId": token.UserID})

	return c.Redirect(fmt.Sprintf("%s/configuracion?mp=connected", h.appURL), fiber.StatusFound)
}
