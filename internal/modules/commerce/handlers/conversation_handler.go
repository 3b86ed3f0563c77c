package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/services"
)

type ConversationHandler struct {
	conversationRepo repositories.ConversationRepo
	messageRepo      repositories.MessageRepo
	conversationSvc  *services.ConversationService
}

func NewConversationHandler(
	conversationRepo repositories.ConversationRepo,
	messageRepo repositories.MessageRepo,
	conversationSvc *services.ConversationService,
) *ConversationHandler {
	return &ConversationHandler{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		conversationSvc:  conversationSvc,
	}
}

func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	conversations, err := h.conversationRepo.ListByTenant(tenantID(c), c.Query("status"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetMessages returns the full transcript of one conversation.
func (h *ConversationHandler) GetMessages(c *fiber.Ctx) error {
	conversation, ok := h.loadTenantConversation(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}

	messages, err := h.messageRepo.ListByConversation(conversation.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

// CloseConversation ends a chat. Closing an escalated conversation is how the
// owner hands control back to the bot.
func (h *ConversationHandler) CloseConversation(c *fiber.Ctx) error {
	conversation, ok := h.loadTenantConversation(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}

	if err := h.conversationSvc.Close(conversation.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Conversation closed"})
}

// loadTenantConversation fetches the conversation in the path and checks it
// belongs to the request tenant.
func (h *ConversationHandler) loadTenantConversation(c *fiber.Ctx) (*models.Conversation, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, false
	}

	conversation, err := h.conversationRepo.GetByID(id)
	if err != nil || conversation.TenantID != tenantID(c) {
		return nil, false
	}

	return conversation, true
}
