package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendebot/vendebot-backend/internal/core/notification"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
)

func newCustomerToolsetForTest(t *testing.T, tenant *models.Tenant, products ...*models.Product) (*CustomerToolset, *fakeConversationRepo) {
	t.Helper()

	productRepo := &fakeProductRepo{}
	for _, p := range products {
		require.NoError(t, productRepo.Create(p))
	}

	conversationRepo := &fakeConversationRepo{}
	conversationSvc := NewConversationService(&fakeCustomerRepo{}, conversationRepo, &fakeMessageRepo{}, notification.NewService(&fakeSender{}))
	orderSvc := NewOrderService(&fakeOrderRepo{}, &fakeTenantRepo{}, &fakeGateway{}, notification.NewService(&fakeSender{}), "https://vendebot.app")

	customer := &models.Customer{ID: uuid.New(), TenantID: tenant.ID, PhoneNumber: "+5491112345678"}
	conversation := &models.Conversation{
		TenantID:   tenant.ID,
		CustomerID: customer.ID,
		Status:     models.ConversationActive,
		Customer:   *customer,
	}
	require.NoError(t, conversationRepo.Create(conversation))

	return NewCustomerToolset(productRepo, conversationSvc, orderSvc, tenant, customer, conversation), conversationRepo
}

func resultMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "tool result should be a map, got %T", v)
	return m
}

func TestDispatchUnknownTool(t *testing.T) {
	toolset, _ := newCustomerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), "make_coffee", json.RawMessage(`{}`)))
	assert.Equal(t, "Unknown tool: make_coffee", result["error"])
}

func TestDispatchInvalidArguments(t *testing.T) {
	toolset, _ := newCustomerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), ToolSearchProducts, json.RawMessage(`not json`)))
	assert.Contains(t, result["error"], "Invalid arguments")
}

func TestSearchProductsEmpty(t *testing.T) {
	toolset, _ := newCustomerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), ToolSearchProducts, json.RawMessage(`{"query":"sushi"}`)))
	assert.Equal(t, "No se encontraron productos con esa búsqueda.", result["message"])
	assert.Empty(t, result["results"])
}

func TestSearchProductsFound(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	toolset, _ := newCustomerToolsetForTest(t, tenant,
		&models.Product{TenantID: tenant.ID, Name: "Tomate perita", Price: 2500, Unit: "kg", InStock: true},
	)

	result := resultMap(t, toolset.Dispatch(context.Background(), ToolSearchProducts, json.RawMessage(`{"query":"tomate"}`)))
	assert.Equal(t, "Se encontraron 1 producto(s).", result["message"])

	results, ok := result["results"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "Tomate perita", results[0]["name"])
	assert.Equal(t, "$2500.00", results[0]["price"])
	assert.Equal(t, true, results[0]["available"])
}

func TestGetProductNotFound(t *testing.T) {
	toolset, _ := newCustomerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	args, _ := json.Marshal(map[string]string{"id": uuid.NewString()})
	result := resultMap(t, toolset.Dispatch(context.Background(), ToolGetProduct, args))
	assert.Equal(t, "Producto no encontrado.", result["error"])
}

func TestCalculatePriceSquareMeters(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	product := &models.Product{
		TenantID: tenant.ID, Name: "Cerámica esmaltada",
		Price: 5000, Unit: "m2", WastePercentage: 10, InStock: true,
	}
	toolset, _ := newCustomerToolsetForTest(t, tenant, product)

	args, _ := json.Marshal(map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   1,
		"width_m":    2,
		"height_m":   3,
	})
	result := resultMap(t, toolset.Dispatch(context.Background(), ToolCalculatePrice, args))

	assert.Equal(t, "Cerámica esmaltada", result["product"])
	assert.Equal(t, "$5000.00", result["unitPrice"])
	assert.Equal(t, 6.0, result["requestedQuantity"])
	assert.Equal(t, 6.6, result["quantityWithWaste"])
	assert.Equal(t, "$33000.00", result["total"])
	assert.Contains(t, result["breakdown"], "2m × 3m = 6.00m²")
	assert.Contains(t, result["breakdown"], "desperdicio")
}

func TestCheckAvailabilityOutOfStock(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	product := &models.Product{TenantID: tenant.ID, Name: "Sushi especial", Price: 9000, Unit: "combo", InStock: false}
	toolset, _ := newCustomerToolsetForTest(t, tenant, product)

	args, _ := json.Marshal(map[string]string{"product_id": product.ID.String()})
	result := resultMap(t, toolset.Dispatch(context.Background(), ToolCheckAvailability, args))

	assert.Equal(t, false, result["available"])
	assert.Equal(t, "Sushi especial no está disponible en este momento.", result["message"])
}

func TestGetBusinessInfoDefaults(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New(), BusinessName: "Kiosco 24"}
	toolset, _ := newCustomerToolsetForTest(t, tenant)

	result := resultMap(t, toolset.Dispatch(context.Background(), ToolGetBusinessInfo, json.RawMessage(`{}`)))
	assert.Equal(t, "Kiosco 24", result["name"])
	assert.Equal(t, "No especificada", result["address"])
	assert.Equal(t, "No especificado", result["hours"])
	assert.Empty(t, result["deliveryZones"])
}

func TestCreateOrderToolReturnsConfirmation(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New(), BusinessName: "Verdulería Pepe"}
	toolset, _ := newCustomerToolsetForTest(t, tenant)

	args, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": uuid.NewString(), "product_name": "Tomate", "quantity": 2, "unit_price": 2500, "total": 5000},
		},
	})
	result := resultMap(t, toolset.Dispatch(context.Background(), ToolCreateOrder, args))

	assert.Equal(t, true, result["success"])
	assert.Contains(t, result["message"], "creado por $5000.00")
	assert.Contains(t, result["message"], "Estado: pendiente.")
}

func TestEscalateToHumanMarksConversation(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	toolset, conversationRepo := newCustomerToolsetForTest(t, tenant)

	result := resultMap(t, toolset.Dispatch(context.Background(), ToolEscalateToHuman,
		json.RawMessage(`{"reason":"reclamo por un pedido"}`)))

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "La conversación fue derivada al dueño del negocio. Te van a responder a la brevedad.", result["message"])
	assert.Equal(t, "reclamo por un pedido", result["reason"])

	require.Len(t, conversationRepo.conversations, 1)
	assert.True(t, conversationRepo.conversations[0].IsEscalated())
}
