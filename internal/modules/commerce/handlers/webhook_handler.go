package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vendebot/vendebot-backend/internal/modules/commerce/services"
)

type WebhookHandler struct {
	messageSvc  *services.MessageService
	orderSvc    *services.OrderService
	verifyToken string
}

func NewWebhookHandler(messageSvc *services.MessageService, orderSvc *services.OrderService, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		messageSvc:  messageSvc,
		orderSvc:    orderSvc,
		verifyToken: verifyToken,
	}
}

// ReceiveWhatsApp handles inbound WhatsApp webhooks from the configured
// transport. It acknowledges immediately; processing happens in the workers.
func (h *WebhookHandler) ReceiveWhatsApp(c *fiber.Ctx) error {
	contentType := c.Get("Content-Type")
	body := c.Body()

	if err := h.messageSvc.IngestWebhook(c.Context(), contentType, body); err != nil {
		log.Printf("❌ Webhook ingest failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}

	return c.JSON(fiber.Map{"status": "received"})
}

// VerifyWhatsApp answers Meta's webhook subscription challenge.
func (h *WebhookHandler) VerifyWhatsApp(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken && h.verifyToken != "" {
		return c.SendString(challenge)
	}

	return c.SendStatus(fiber.StatusForbidden)
}

// mercadoPagoNotification is the body MercadoPago posts on payment events.
type mercadoPagoNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ReceiveMercadoPago handles MercadoPago payment notifications. The order id
// rides on the notification URL we registered when creating the preference;
// the payment id comes from the body or, for older IPN topics, the query.
func (h *WebhookHandler) ReceiveMercadoPago(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "order_id is required",
		})
	}

	var notification mercadoPagoNotification
	_ = c.BodyParser(&notification)

	paymentID := notification.Data.ID
	if paymentID == "" {
		paymentID = c.Query("data.id")
	}
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	if notification.Type != "" && notification.Type != "payment" {
		log.Printf("⏭️ Ignoring MercadoPago event type %q", notification.Type)
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "payment id is required",
		})
	}

	// MercadoPago retries on non-2xx, so ack now and reconcile in background.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.orderSvc.HandlePaymentNotification(ctx, orderID, paymentID); err != nil {
			log.Printf("❌ Payment notification failed for order %s: %v", orderID, err)
		}
	}()

	return c.JSON(fiber.Map{"status": "received"})
}
