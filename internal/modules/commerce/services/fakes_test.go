package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendebot/vendebot-backend/internal/core/payment"
	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
)

type fakeProductRepo struct {
	products []*models.Product
}

func (f *fakeProductRepo) Create(p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.products = append(f.products, p)
	return nil
}

func (f *fakeProductRepo) GetByID(tenantID uuid.UUID, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.TenantID == tenantID && p.ID.String() == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Search(tenantID uuid.UUID, query string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.TenantID == tenantID && strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) List(tenantID uuid.UUID, filter models.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Update(p *models.Product) error { return nil }

func (f *fakeProductRepo) Delete(tenantID uuid.UUID, id string) error { return nil }

type fakeTenantRepo struct {
	tenants []*models.Tenant
}

func (f *fakeTenantRepo) Create(t *models.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.tenants = append(f.tenants, t)
	return nil
}

func (f *fakeTenantRepo) GetByID(id string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID.String() == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenantRepo) GetByWhatsAppNumber(number string) (*models.Tenant, error) {
	clean := strings.TrimPrefix(number, "+")
	for _, t := range f.tenants {
		if strings.TrimPrefix(t.WhatsAppNumber, "+") == clean && t.IsActive {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenantRepo) Update(t *models.Tenant) error { return nil }

func (f *fakeTenantRepo) List() ([]models.Tenant, error) {
	var out []models.Tenant
	for _, t := range f.tenants {
		out = append(out, *t)
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders []*models.Order
}

func (f *fakeOrderRepo) Create(o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) GetByID(tenantID uuid.UUID, id string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.TenantID == tenantID && o.ID.String() == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) GetByIDAny(id string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID.String() == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) Update(o *models.Order) error { return nil }

func (f *fakeOrderRepo) ListByTenant(tenantID uuid.UUID, status string, page, pageSize int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.TenantID == tenantID && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) ListSince(tenantID uuid.UUID, since time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.TenantID == tenantID && !o.CreatedAt.Before(since) {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers []*models.Customer
}

func (f *fakeCustomerRepo) GetOrCreate(tenantID uuid.UUID, phoneNumber string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.TenantID == tenantID && c.PhoneNumber == phoneNumber {
			return c, nil
		}
	}
	customer := &models.Customer{ID: uuid.New(), TenantID: tenantID, PhoneNumber: phoneNumber}
	f.customers = append(f.customers, customer)
	return customer, nil
}

func (f *fakeCustomerRepo) GetByID(id uuid.UUID) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) ListByTenant(tenantID uuid.UUID) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) ListByMessageQuery(tenantID uuid.UUID, query string) ([]models.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(c *models.Customer) error { return nil }

type fakeConversationRepo struct {
	conversations []*models.Conversation
}

func (f *fakeConversationRepo) Create(c *models.Conversation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	f.conversations = append(f.conversations, c)
	return nil
}

func (f *fakeConversationRepo) GetByID(id uuid.UUID) (*models.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) GetLatestByCustomer(tenantID, customerID uuid.UUID) (*models.Conversation, error) {
	for i := len(f.conversations) - 1; i >= 0; i-- {
		c := f.conversations[i]
		if c.TenantID == tenantID && c.CustomerID == customerID && c.Status != models.ConversationClosed {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) UpdateStatus(id uuid.UUID, status, reason string) error {
	for _, c := range f.conversations {
		if c.ID == id {
			c.Status = status
			if reason != "" {
				c.EscalatedReason = reason
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) Touch(id uuid.UUID) error { return nil }

func (f *fakeConversationRepo) ListByTenant(tenantID uuid.UUID, status string, limit int) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages []*models.Message
}

func (f *fakeMessageRepo) Create(m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessageRepo) ListRecent(conversationID uuid.UUID, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessageRepo) ListByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	return f.ListRecent(conversationID, len(f.messages))
}

// fakeGateway scripts checkout and payment lookups.
type fakeGateway struct {
	createErr error
	link      *payment.CheckoutLink
	payments  map[string]*payment.PaymentInfo
	requests  []*payment.CheckoutRequest
}

func (f *fakeGateway) CreateCheckoutLink(_ context.Context, req *payment.CheckoutRequest) (*payment.CheckoutLink, error) {
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.link, nil
}

func (f *fakeGateway) GetPayment(_ context.Context, _, paymentID string) (*payment.PaymentInfo, error) {
	if info, ok := f.payments[paymentID]; ok {
		return info, nil
	}
	return nil, fmt.Errorf("payment not found")
}

func (f *fakeGateway) Name() string { return "Fake" }

// fakeSender records outbound WhatsApp messages.
type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendMessage(_ context.Context, to, message string) error {
	f.sent = append(f.sent, to+": "+message)
	return nil
}

// fakeWaProvider backs a real whatsapp.Service in tests. Numbers in failFor
// report delivery errors.
type fakeWaProvider struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeWaProvider) SendMessage(_ context.Context, to, body string) (*whatsapp.SendResult, error) {
	if f.failFor[to] {
		return nil, fmt.Errorf("delivery failed")
	}
	f.sent = append(f.sent, to+": "+body)
	return &whatsapp.SendResult{MessageID: "msg-1"}, nil
}

func (f *fakeWaProvider) ParseWebhook(contentType string, body []byte) ([]whatsapp.IncomingMessage, error) {
	return nil, nil
}

func (f *fakeWaProvider) Name() string { return "fake" }
