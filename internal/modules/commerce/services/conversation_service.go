package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/core/notification"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
	"gorm.io/gorm"
)

// ConversationService owns the conversation/escalation state model
type ConversationService struct {
	customerRepo     repositories.CustomerRepo
	conversationRepo repositories.ConversationRepo
	messageRepo      repositories.MessageRepo
	notifier         *notification.Service
}

// NewConversationService creates a new conversation service
func NewConversationService(
	customerRepo repositories.CustomerRepo,
	conversationRepo repositories.ConversationRepo,
	messageRepo repositories.MessageRepo,
	notifier *notification.Service,
) *ConversationService {
	return &ConversationService{
		customerRepo:     customerRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		notifier:         notifier,
	}
}

// Resolve finds or creates the customer and their current conversation.
// A new inbound message reuses the latest non-closed conversation, whether
// active or escalated, so a human takeover keeps its transcript.
func (s *ConversationService) Resolve(tenantID uuid.UUID, phoneNumber string) (*models.Customer, *models.Conversation, error) {
	customer, err := s.customerRepo.GetOrCreate(tenantID, phoneNumber)
	if err != nil {
		return nil, nil, err
	}

	conversation, err := s.conversationRepo.GetLatestByCustomer(tenantID, customer.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = &models.Conversation{
			TenantID:   tenantID,
			CustomerID: customer.ID,
			Status:     models.ConversationActive,
		}
		if err := s.conversationRepo.Create(conversation); err != nil {
			return nil, nil, err
		}
		return customer, conversation, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return customer, conversation, nil
}

// AppendUserMessage persists an inbound customer message.
func (s *ConversationService) AppendUserMessage(conversationID uuid.UUID, content, messageType, whatsappMessageID string) error {
	msg := &models.Message{
		ConversationID:    conversationID,
		Role:              models.RoleUser,
		Content:           content,
		MessageType:       messageType,
		WhatsAppMessageID: whatsappMessageID,
	}
	if err := s.messageRepo.Create(msg); err != nil {
		return err
	}
	return s.conversationRepo.Touch(conversationID)
}

// AppendAssistantMessage persists the bot's reply.
func (s *ConversationService) AppendAssistantMessage(conversationID uuid.UUID, content string) error {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        content,
		MessageType:    "text",
	}
	if err := s.messageRepo.Create(msg); err != nil {
		return err
	}
	return s.conversationRepo.Touch(conversationID)
}

// History returns the most recent messages in chronological order.
func (s *ConversationService) History(conversationID uuid.UUID, limit int) ([]models.Message, error) {
	return s.messageRepo.ListRecent(conversationID, limit)
}

// Escalate hands a conversation to the owner. Escalating twice is a no-op
// beyond re-confirming.
func (s *ConversationService) Escalate(ctx context.Context, tenant *models.Tenant, conversationID uuid.UUID, reason string) error {
	conversation, err := s.conversationRepo.GetByID(conversationID)
	if err != nil {
		return err
	}

	if conversation.IsEscalated() {
		return nil
	}

	if err := s.conversationRepo.UpdateStatus(conversationID, models.ConversationEscalated, reason); err != nil {
		return err
	}

	log.Printf("🔔 Conversation %s escalated: %s", conversationID, reason)

	if tenant.OwnerPhoneNumber != "" {
		_ = s.notifier.NotifyEscalation(ctx, tenant.OwnerPhoneNumber, conversation.Customer.PhoneNumber, reason)
	}

	return nil
}

// Close ends a conversation; the next inbound message starts a fresh one.
func (s *ConversationService) Close(conversationID uuid.UUID) error {
	return s.conversationRepo.UpdateStatus(conversationID, models.ConversationClosed, "")
}
