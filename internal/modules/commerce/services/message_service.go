package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/vendebot/vendebot-backend/internal/core/dedup"
	"github.com/vendebot/vendebot-backend/internal/core/jobs"
	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

const tenantConfigFallback = "Lo siento, hay un problema con la configuración. Intentá más tarde."
const ownerTenantMissing = "Error: negocio no encontrado."

// IncomingMessagePayload is the queued form of one inbound WhatsApp message.
type IncomingMessagePayload struct {
	TenantID          string `json:"tenant_id"`
	From              string `json:"from"`
	To                string `json:"to"`
	Content           string `json:"content"`
	MessageType       string `json:"message_type"`
	ProviderMessageID string `json:"provider_message_id"`
	OwnerChannel      bool   `json:"owner_channel"`
}

// MessageService is the inbound pipeline: webhook parsing, dedup, tenant
// routing and enqueueing on the ingest side, then AI processing and reply
// delivery on the worker side.
type MessageService struct {
	tenantRepo      repositories.TenantRepo
	conversationSvc *ConversationService
	agentSvc        *AgentService
	whatsapp        *whatsapp.Service
	dedup           *dedup.Deduplicator
	jobsSvc         *jobs.Service
	defaultTenantID string
}

func NewMessageService(
	tenantRepo repositories.TenantRepo,
	conversationSvc *ConversationService,
	agentSvc *AgentService,
	whatsappSvc *whatsapp.Service,
	deduplicator *dedup.Deduplicator,
	jobsSvc *jobs.Service,
	defaultTenantID string,
) *MessageService {
	return &MessageService{
		tenantRepo:      tenantRepo,
		conversationSvc: conversationSvc,
		agentSvc:        agentSvc,
		whatsapp:        whatsappSvc,
		dedup:           deduplicator,
		jobsSvc:         jobsSvc,
		defaultTenantID: defaultTenantID,
	}
}

// IngestWebhook parses an inbound webhook and enqueues each new message.
// The webhook must be acknowledged fast, so AI processing happens in the
// worker, never here.
func (s *MessageService) IngestWebhook(ctx context.Context, contentType string, body []byte) error {
	messages, err := s.whatsapp.ParseWebhook(contentType, body)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	for _, msg := range messages {
		if err := s.ingestOne(ctx, msg); err != nil {
			log.Printf("⚠️ Failed to ingest message from %s: %v", msg.From, err)
		}
	}

	return nil
}

func (s *MessageService) ingestOne(ctx context.Context, msg whatsapp.IncomingMessage) error {
	seen, _ := s.dedup.Seen(ctx, msg.ProviderMessageID)
	if seen {
		log.Printf("🔁 Duplicate message %s ignored", msg.ProviderMessageID)
		return nil
	}

	tenant, err := s.resolveTenant(msg.To)
	if err != nil {
		log.Printf("❌ No tenant for number %s: %v", msg.To, err)
		_ = s.whatsapp.SendMessage(ctx, msg.From, tenantConfigFallback)
		return nil
	}

	payload := IncomingMessagePayload{
		TenantID:          tenant.ID.String(),
		From:              msg.From,
		To:                msg.To,
		Content:           msg.ContentText(),
		MessageType:       string(msg.Type),
		ProviderMessageID: msg.ProviderMessageID,
		OwnerChannel:      tenant.OwnerPhoneNumber != "" && msg.From == tenant.OwnerPhoneNumber,
	}

	_, err = s.jobsSvc.EnqueueIncomingMessage(ctx, tenant.ID, payload)
	return err
}

// resolveTenant routes by the receiving WhatsApp number, falling back to the
// configured default tenant for single-tenant deployments.
func (s *MessageService) resolveTenant(to string) (*models.Tenant, error) {
	tenant, lookupErr := s.tenantRepo.GetByWhatsAppNumber(to)
	if lookupErr == nil {
		return tenant, nil
	}

	if s.defaultTenantID != "" {
		tenant, defErr := s.tenantRepo.GetByID(s.defaultTenantID)
		if defErr == nil {
			return tenant, nil
		}
	}

	return nil, lookupErr
}

// GetType implements the job handler contract.
func (s *MessageService) GetType() string {
	return jobs.TypeIncomingMessage
}

// Handle processes one queued inbound message: run the right AI channel and
// send the reply.
func (s *MessageService) Handle(ctx context.Context, job *jobs.Job) error {
	var payload IncomingMessagePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid incoming message payload: %w", err)
	}

	if payload.OwnerChannel {
		return s.handleOwnerMessage(ctx, payload)
	}
	return s.handleCustomerMessage(ctx, payload)
}

// handleOwnerMessage runs the management channel. Owner chats are not
// persisted as customer conversations.
func (s *MessageService) handleOwnerMessage(ctx context.Context, payload IncomingMessagePayload) error {
	tenant, err := s.tenantRepo.GetByID(payload.TenantID)
	if err != nil {
		log.Printf("❌ Owner message for missing tenant %s", payload.TenantID)
		return s.whatsapp.SendMessage(ctx, payload.From, ownerTenantMissing)
	}

	reply := s.agentSvc.ProcessOwnerMessage(ctx, tenant, payload.Content)
	return s.whatsapp.SendMessage(ctx, payload.From, reply)
}

func (s *MessageService) handleCustomerMessage(ctx context.Context, payload IncomingMessagePayload) error {
	tenant, err := s.tenantRepo.GetByID(payload.TenantID)
	if err != nil {
		log.Printf("❌ Customer message for missing tenant %s", payload.TenantID)
		return s.whatsapp.SendMessage(ctx, payload.From, tenantConfigFallback)
	}

	customer, conversation, err := s.conversationSvc.Resolve(tenant.ID, payload.From)
	if err != nil {
		return fmt.Errorf("failed to resolve conversation: %w", err)
	}

	if err := s.conversationSvc.AppendUserMessage(conversation.ID, payload.Content, payload.MessageType, payload.ProviderMessageID); err != nil {
		return fmt.Errorf("failed to persist inbound message: %w", err)
	}

	// Escalated conversations keep their transcript growing but the bot
	// stays silent until the owner closes the chat.
	if conversation.IsEscalated() {
		log.Printf("🤫 Conversation %s is escalated, bot staying silent", conversation.ID)
		return nil
	}

	reply := s.agentSvc.ProcessCustomerMessage(ctx, tenant, customer, conversation, payload.Content)

	if err := s.whatsapp.SendMessage(ctx, payload.From, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	if err := s.conversationSvc.AppendAssistantMessage(conversation.ID, reply); err != nil {
		log.Printf("⚠️ Failed to persist assistant reply: %v", err)
	}

	return nil
}
