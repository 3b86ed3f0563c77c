package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendebot/vendebot-backend/internal/core/notification"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
)

func newConversationServiceForTest(sender *fakeSender) (*ConversationService, *fakeConversationRepo, *fakeMessageRepo) {
	conversationRepo := &fakeConversationRepo{}
	messageRepo := &fakeMessageRepo{}
	svc := NewConversationService(&fakeCustomerRepo{}, conversationRepo, messageRepo, notification.NewService(sender))
	return svc, conversationRepo, messageRepo
}

func TestResolveCreatesCustomerAndConversation(t *testing.T) {
	svc, conversationRepo, _ := newConversationServiceForTest(&fakeSender{})
	tenantID := uuid.New()

	customer, conversation, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)

	assert.Equal(t, "+5491112345678", customer.PhoneNumber)
	assert.Equal(t, models.ConversationActive, conversation.Status)
	require.Len(t, conversationRepo.conversations, 1)
}

func TestResolveReusesOpenConversation(t *testing.T) {
	svc, conversationRepo, _ := newConversationServiceForTest(&fakeSender{})
	tenantID := uuid.New()

	_, first, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)

	_, second, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, conversationRepo.conversations, 1)
}

func TestResolveReusesEscalatedConversation(t *testing.T) {
	svc, _, _ := newConversationServiceForTest(&fakeSender{})
	tenantID := uuid.New()

	_, conversation, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)

	// A human took over; the same thread keeps collecting messages.
	conversation.Status = models.ConversationEscalated

	_, again, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, again.ID)
	assert.True(t, again.IsEscalated())
}

func TestResolveStartsFreshAfterClose(t *testing.T) {
	svc, conversationRepo, _ := newConversationServiceForTest(&fakeSender{})
	tenantID := uuid.New()

	_, first, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)
	require.NoError(t, svc.Close(first.ID))

	_, second, err := svc.Resolve(tenantID, "+5491112345678")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, conversationRepo.conversations, 2)
}

func TestEscalateNotifiesOwnerOnce(t *testing.T) {
	sender := &fakeSender{}
	svc, conversationRepo, _ := newConversationServiceForTest(sender)

	tenant := &models.Tenant{ID: uuid.New(), OwnerPhoneNumber: "+5491199999999"}
	conversation := &models.Conversation{
		TenantID:   tenant.ID,
		CustomerID: uuid.New(),
		Status:     models.ConversationActive,
		Customer:   models.Customer{PhoneNumber: "+5491112345678"},
	}
	require.NoError(t, conversationRepo.Create(conversation))

	require.NoError(t, svc.Escalate(context.Background(), tenant, conversation.ID, "quiere hablar con una persona"))
	assert.Equal(t, models.ConversationEscalated, conversation.Status)
	assert.Equal(t, "quiere hablar con una persona", conversation.EscalatedReason)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "+5491199999999")

	// Escalating again is a no-op, no second notification.
	require.NoError(t, svc.Escalate(context.Background(), tenant, conversation.ID, "otra razón"))
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, "quiere hablar con una persona", conversation.EscalatedReason)
}

func TestHistoryReturnsChronologicalMessages(t *testing.T) {
	svc, conversationRepo, _ := newConversationServiceForTest(&fakeSender{})

	conversation := &models.Conversation{TenantID: uuid.New(), CustomerID: uuid.New(), Status: models.ConversationActive}
	require.NoError(t, conversationRepo.Create(conversation))

	require.NoError(t, svc.AppendUserMessage(conversation.ID, "hola", "text", "wamid.1"))
	require.NoError(t, svc.AppendAssistantMessage(conversation.ID, "¡Hola! ¿Qué buscás?"))

	history, err := svc.History(conversation.ID, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
}
