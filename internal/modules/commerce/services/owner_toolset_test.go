package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
)

func newOwnerToolsetForTest(t *testing.T, tenant *models.Tenant, products ...*models.Product) *OwnerToolset {
	t.Helper()

	productRepo := &fakeProductRepo{}
	for _, p := range products {
		require.NoError(t, productRepo.Create(p))
	}
	return NewOwnerToolset(productRepo, &fakeTenantRepo{}, nil, nil, nil, tenant)
}

func TestOwnerDispatchUnknownTool(t *testing.T) {
	toolset := newOwnerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), "delete_everything", json.RawMessage(`{}`)))
	assert.Equal(t, "Unknown owner tool: delete_everything", result["error"])
}

func TestOwnerDispatchInvalidArguments(t *testing.T) {
	toolset := newOwnerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), OwnerToolSearchProducts, json.RawMessage(`{broken`)))
	assert.Contains(t, result["error"], "Invalid arguments")
}

func TestOwnerSearchProductsEmpty(t *testing.T) {
	toolset := newOwnerToolsetForTest(t, &models.Tenant{ID: uuid.New()})

	result := resultMap(t, toolset.Dispatch(context.Background(), OwnerToolSearchProducts, json.RawMessage(`{"query":"empanadas"}`)))
	assert.Equal(t, "No se encontraron productos.", result["message"])
	assert.Empty(t, result["results"])
}

func TestOwnerSearchProductsFormatsPrice(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	toolset := newOwnerToolsetForTest(t, tenant,
		&models.Product{TenantID: tenant.ID, Name: "Empanada de carne", Price: 1500.5, Unit: "unidad", InStock: true},
	)

	result := resultMap(t, toolset.Dispatch(context.Background(), OwnerToolSearchProducts, json.RawMessage(`{"query":"empanada"}`)))
	assert.Equal(t, "1 producto(s) encontrado(s).", result["message"])

	results, ok := result["results"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "$1500.5", results[0]["price"])
}

func TestOwnerUpdatePriceRejectsNonPositive(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New()}
	product := &models.Product{TenantID: tenant.ID, Name: "Empanada de carne", Price: 1500, Unit: "unidad"}
	toolset := newOwnerToolsetForTest(t, tenant, product)

	args, _ := json.Marshal(map[string]interface{}{"product_id": product.ID.String(), "new_price": 0})
	result := resultMap(t, toolset.Dispatch(context.Background(), OwnerToolUpdatePrice, args))

	assert.Equal(t, "El precio tiene que ser mayor a cero.", result["error"])
	assert.Equal(t, 1500.0, product.Price)
}

func TestTruncateKeepsShortMessages(t *testing.T) {
	assert.Equal(t, "oferta", truncate("oferta", 100))
	long := truncate("promo de empanadas todo el fin de semana con descuento para clientes frecuentes", 20)
	assert.Equal(t, "promo de empanadas t", long)
}
