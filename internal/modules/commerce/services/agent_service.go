package services

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vendebot/vendebot-backend/internal/core/agent"
	"github.com/vendebot/vendebot-backend/internal/core/analytics"
	"github.com/vendebot/vendebot-backend/internal/core/changelog"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// AgentService runs the AI engine for both channels: the customer sales
// conversation and the owner management channel.
type AgentService struct {
	engine          *agent.Engine
	productRepo     repositories.ProductRepo
	tenantRepo      repositories.TenantRepo
	conversationSvc *ConversationService
	orderSvc        *OrderService
	analyticsSvc    *analytics.Service
	changelogSvc    *changelog.Service
	broadcastSvc    *BroadcastService
}

func NewAgentService(
	engine *agent.Engine,
	productRepo repositories.ProductRepo,
	tenantRepo repositories.TenantRepo,
	conversationSvc *ConversationService,
	orderSvc *OrderService,
	analyticsSvc *analytics.Service,
	changelogSvc *changelog.Service,
	broadcastSvc *BroadcastService,
) *AgentService {
	return &AgentService{
		engine:          engine,
		productRepo:     productRepo,
		tenantRepo:      tenantRepo,
		conversationSvc: conversationSvc,
		orderSvc:        orderSvc,
		analyticsSvc:    analyticsSvc,
		changelogSvc:    changelogSvc,
		broadcastSvc:    broadcastSvc,
	}
}

// ProcessCustomerMessage runs one sales-channel turn and returns the reply
// text. The inbound message must already be persisted in the conversation.
func (s *AgentService) ProcessCustomerMessage(ctx context.Context, tenant *models.Tenant, customer *models.Customer, conversation *models.Conversation, userMessage string) string {
	history, err := s.conversationSvc.History(conversation.ID, agent.MaxContextMessages)
	if err != nil {
		history = nil
	}

	toolset := NewCustomerToolset(s.productRepo, s.conversationSvc, s.orderSvc, tenant, customer, conversation)

	return s.engine.Process(ctx, agent.Request{
		SystemPrompt: agent.BuildCustomerPrompt(profileFor(tenant)),
		History:      toChatMessages(history),
		UserMessage:  userMessage,
		Tools:        toolset,
		Fallbacks:    agent.CustomerFallbacks(),
	})
}

// ProcessOwnerMessage runs one management-channel turn. Owner turns are
// stateless: each command stands alone, nothing is replayed or persisted.
func (s *AgentService) ProcessOwnerMessage(ctx context.Context, tenant *models.Tenant, userMessage string) string {
	toolset := NewOwnerToolset(s.productRepo, s.tenantRepo, s.analyticsSvc, s.changelogSvc, s.broadcastSvc, tenant)

	return s.engine.Process(ctx, agent.Request{
		SystemPrompt: agent.BuildOwnerPrompt(profileFor(tenant)),
		UserMessage:  userMessage,
		Tools:        toolset,
		Fallbacks:    agent.OwnerFallbacks(),
	})
}

// profileFor maps the tenant row onto the prompt builder's shape.
func profileFor(tenant *models.Tenant) agent.BusinessProfile {
	return agent.BusinessProfile{
		BusinessName:   tenant.BusinessName,
		BotPersonality: tenant.BotPersonality,
		Description:    tenant.Description,
		Address:        tenant.Address,
		Hours:          tenant.Hours,
		DeliveryZones:  splitZones(tenant.DeliveryZones),
	}
}

// toChatMessages converts persisted messages into model transcript entries.
func toChatMessages(history []models.Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: content,
		})
	}
	return messages
}
