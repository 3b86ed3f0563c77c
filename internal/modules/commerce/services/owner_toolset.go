package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vendebot/vendebot-backend/internal/core/analytics"
	"github.com/vendebot/vendebot-backend/internal/core/changelog"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// Owner tool names, the management-channel surface.
const (
	OwnerToolSearchProducts = "owner_search_products"
	OwnerToolUpdatePrice    = "owner_update_price"
	OwnerToolUpdateHours    = "owner_update_hours"
	OwnerToolAddProduct     = "owner_add_product"
	OwnerToolRemoveProduct  = "owner_remove_product"
	OwnerToolCheckSales     = "owner_check_sales"
	OwnerToolBroadcast      = "owner_broadcast"
)

type ownerSearchArgs struct {
	Query string `json:"query"`
}

type ownerUpdatePriceArgs struct {
	ProductID string  `json:"product_id"`
	NewPrice  float64 `json:"new_price"`
}

type ownerUpdateHoursArgs struct {
	NewHours string `json:"new_hours"`
}

type ownerAddProductArgs struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type ownerRemoveProductArgs struct {
	ProductID string `json:"product_id"`
}

type ownerCheckSalesArgs struct {
	Period string `json:"period"`
}

type ownerBroadcastArgs struct {
	Message      string `json:"message"`
	ProductQuery string `json:"product_query"`
}

// OwnerToolset executes management tools for a tenant's owner channel. Every
// mutation is recorded in the change log so the dashboard shows what the bot
// changed on the owner's behalf.
type OwnerToolset struct {
	productRepo  repositories.ProductRepo
	tenantRepo   repositories.TenantRepo
	analyticsSvc *analytics.Service
	changelogSvc *changelog.Service
	broadcastSvc *BroadcastService

	tenant *models.Tenant
}

func NewOwnerToolset(
	productRepo repositories.ProductRepo,
	tenantRepo repositories.TenantRepo,
	analyticsSvc *analytics.Service,
	changelogSvc *changelog.Service,
	broadcastSvc *BroadcastService,
	tenant *models.Tenant,
) *OwnerToolset {
	return &OwnerToolset{
		productRepo:  productRepo,
		tenantRepo:   tenantRepo,
		analyticsSvc: analyticsSvc,
		changelogSvc: changelogSvc,
		broadcastSvc: broadcastSvc,
		tenant:       tenant,
	}
}

func (t *OwnerToolset) Dispatch(ctx context.Context, name string, args json.RawMessage) interface{} {
	switch name {
	case OwnerToolSearchProducts:
		var a ownerSearchArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.searchProducts(a)

	case OwnerToolUpdatePrice:
		var a ownerUpdatePriceArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.updatePrice(ctx, a)

	case OwnerToolUpdateHours:
		var a ownerUpdateHoursArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.updateHours(ctx, a)

	case OwnerToolAddProduct:
		var a ownerAddProductArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.addProduct(ctx, a)

	case OwnerToolRemoveProduct:
		var a ownerRemoveProductArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.removeProduct(ctx, a)

	case OwnerToolCheckSales:
		var a ownerCheckSalesArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.checkSales(ctx, a)

	case OwnerToolBroadcast:
		var a ownerBroadcastArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.broadcast(ctx, a)

	default:
		return map[string]interface{}{"error": fmt.Sprintf("Unknown owner tool: %s", name)}
	}
}

func (t *OwnerToolset) searchProducts(a ownerSearchArgs) interface{} {
	products, err := t.productRepo.Search(t.tenant.ID, a.Query)
	if err != nil {
		return map[string]interface{}{"error": "Error buscando productos."}
	}

	if len(products) == 0 {
		return map[string]interface{}{
			"message": "No se encontraron productos.",
			"results": []interface{}{},
		}
	}

	results := make([]map[string]interface{}, len(products))
	for i, p := range products {
		results[i] = map[string]interface{}{
			"id":       p.ID.String(),
			"name":     p.Name,
			"price":    "$" + fmtPrice(p.Price),
			"unit":     p.Unit,
			"category": p.Category,
			"inStock":  p.InStock,
		}
	}

	return map[string]interface{}{
		"message": fmt.Sprintf("%d producto(s) encontrado(s).", len(products)),
		"results": results,
	}
}

func (t *OwnerToolset) updatePrice(ctx context.Context, a ownerUpdatePriceArgs) interface{} {
	product, err := t.productRepo.GetByID(t.tenant.ID, a.ProductID)
	if err != nil {
		return map[string]interface{}{"error": "Producto no encontrado."}
	}
	if a.NewPrice <= 0 {
		return map[string]interface{}{"error": "El precio tiene que ser mayor a cero."}
	}

	oldPrice := product.Price
	product.Price = a.NewPrice
	if err := t.productRepo.Update(product); err != nil {
		return map[string]interface{}{"error": "No se pudo actualizar el precio."}
	}

	t.changelogSvc.Record(ctx, t.tenant.ID, changelog.ActionUpdatePrice,
		fmt.Sprintf("Precio de %q actualizado: $%s → $%s/%s",
			product.Name, fmtPrice(oldPrice), fmtPrice(a.NewPrice), product.Unit),
		map[string]interface{}{
			"productId":   product.ID.String(),
			"productName": product.Name,
			"oldPrice":    oldPrice,
			"newPrice":    a.NewPrice,
			"unit":        product.Unit,
		})

	return map[string]interface{}{
		"success":  true,
		"product":  product.Name,
		"oldPrice": "$" + fmtPrice(oldPrice),
		"newPrice": "$" + fmtPrice(a.NewPrice),
		"unit":     product.Unit,
	}
}

func (t *OwnerToolset) updateHours(ctx context.Context, a ownerUpdateHoursArgs) interface{} {
	if a.NewHours == "" {
		return map[string]interface{}{"error": "Falta el nuevo horario."}
	}

	oldHours := t.tenant.Hours
	t.tenant.Hours = a.NewHours
	if err := t.tenantRepo.Update(t.tenant); err != nil {
		return map[string]interface{}{"error": "No se pudo actualizar el horario."}
	}

	t.changelogSvc.Record(ctx, t.tenant.ID, changelog.ActionUpdateHours,
		fmt.Sprintf("Horario actualizado: %q → %q", oldHours, a.NewHours),
		map[string]interface{}{
			"oldHours": oldHours,
			"newHours": a.NewHours,
		})

	return map[string]interface{}{
		"success":  true,
		"oldHours": oldHours,
		"newHours": a.NewHours,
	}
}

func (t *OwnerToolset) addProduct(ctx context.Context, a ownerAddProductArgs) interface{} {
	if a.Name == "" || a.Price <= 0 {
		return map[string]interface{}{"error": "Faltan el nombre o el precio del producto."}
	}

	unit := a.Unit
	if unit == "" {
		unit = "unidad"
	}

	product := &models.Product{
		TenantID:    t.tenant.ID,
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		Price:       a.Price,
		Unit:        unit,
		InStock:     true,
	}
	if err := t.productRepo.Create(product); err != nil {
		return map[string]interface{}{"error": "No se pudo agregar el producto."}
	}

	t.changelogSvc.Record(ctx, t.tenant.ID, changelog.ActionAddProduct,
		fmt.Sprintf("Producto agregado: %q a $%s/%s", a.Name, fmtPrice(a.Price), unit),
		map[string]interface{}{
			"productId": product.ID.String(),
			"name":      a.Name,
			"price":     a.Price,
			"unit":      unit,
			"category":  a.Category,
		})

	return map[string]interface{}{
		"success":   true,
		"productId": product.ID.String(),
		"name":      a.Name,
		"price":     "$" + fmtPrice(a.Price),
		"unit":      unit,
	}
}

// removeProduct only marks the product out of stock. The owner's "remove"
// intent rarely means deleting the row, and the product can come back later.
func (t *OwnerToolset) removeProduct(ctx context.Context, a ownerRemoveProductArgs) interface{} {
	product, err := t.productRepo.GetByID(t.tenant.ID, a.ProductID)
	if err != nil {
		return map[string]interface{}{"error": "Producto no encontrado."}
	}

	product.InStock = false
	if err := t.productRepo.Update(product); err != nil {
		return map[string]interface{}{"error": "No se pudo sacar el producto del menú."}
	}

	t.changelogSvc.Record(ctx, t.tenant.ID, changelog.ActionRemoveProduct,
		fmt.Sprintf("Producto removido del menú: %q", product.Name),
		map[string]interface{}{
			"productId": product.ID.String(),
			"name":      product.Name,
		})

	return map[string]interface{}{
		"success": true,
		"product": product.Name,
		"message": fmt.Sprintf("%q fue sacado del menú.", product.Name),
	}
}

func (t *OwnerToolset) checkSales(ctx context.Context, a ownerCheckSalesArgs) interface{} {
	period := analytics.ParsePeriod(a.Period)

	summary, err := t.analyticsSvc.SalesForPeriod(ctx, t.tenant.ID, period)
	if err != nil {
		return map[string]interface{}{"error": "No se pudieron consultar las ventas."}
	}

	return map[string]interface{}{
		"period":          summary.PeriodLabel,
		"totalOrders":     summary.TotalOrders,
		"totalRevenue":    fmt.Sprintf("$%.2f", summary.TotalRevenue),
		"pendingOrders":   summary.Pending,
		"confirmedOrders": summary.Confirmed,
		"deliveredOrders": summary.Delivered,
	}
}

func (t *OwnerToolset) broadcast(ctx context.Context, a ownerBroadcastArgs) interface{} {
	if a.Message == "" {
		return map[string]interface{}{"error": "Falta el mensaje a enviar."}
	}

	outcome, err := t.broadcastSvc.Send(ctx, t.tenant, a.Message, a.ProductQuery)
	if err != nil {
		return map[string]interface{}{"error": "No se pudo enviar el broadcast."}
	}

	t.changelogSvc.Record(ctx, t.tenant.ID, changelog.ActionBroadcast,
		fmt.Sprintf("Broadcast enviado a %d cliente(s): %q", outcome.Sent, truncate(a.Message, 100)),
		map[string]interface{}{
			"sent":         outcome.Sent,
			"failed":       outcome.Failed,
			"total":        outcome.Total,
			"productQuery": a.ProductQuery,
		})

	return map[string]interface{}{
		"success": true,
		"sent":    outcome.Sent,
		"failed":  outcome.Failed,
		"total":   outcome.Total,
		"message": fmt.Sprintf("Mensaje enviado a %d cliente(s).", outcome.Sent),
	}
}

// fmtPrice renders a price the short way, no trailing zeros.
func fmtPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Definitions returns the owner-channel tool schema sent to the model.
func (t *OwnerToolset) Definitions() []openai.Tool {
	return ownerToolDefinitions
}

var ownerToolDefinitions = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolSearchProducts,
			Description: "Search the owner's product catalog by name, category, or description. Use to find a product's ID before updating it.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query"}
				},
				"required": ["query"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolUpdatePrice,
			Description: "Update a product's price. Search for the product first to get its ID.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"product_id": {"type": "string", "description": "Product UUID"},
					"new_price": {"type": "number", "description": "New price in pesos"}
				},
				"required": ["product_id", "new_price"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolUpdateHours,
			Description: "Update the business hours shown to customers.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"new_hours": {"type": "string", "description": "New business hours, e.g. 'Lun a Sáb 9 a 18hs'"}
				},
				"required": ["new_hours"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolAddProduct,
			Description: "Add a new product to the catalog.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Product name"},
					"price": {"type": "number", "description": "Price in pesos"},
					"unit": {"type": "string", "enum": ["unidad", "kg", "m2", "m_lineal", "litro", "docena", "combo"], "description": "Selling unit (default: unidad)"},
					"category": {"type": "string", "description": "Product category"},
					"description": {"type": "string", "description": "Product description"}
				},
				"required": ["name", "price"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolRemoveProduct,
			Description: "Take a product off the menu (marks it out of stock, does not delete it).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"product_id": {"type": "string", "description": "Product UUID"}
				},
				"required": ["product_id"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolCheckSales,
			Description: "Get a sales summary: order counts by status and total revenue for a period.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"period": {"type": "string", "enum": ["today", "week", "month"], "description": "Reporting period (default: today)"}
				},
				"required": []
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        OwnerToolBroadcast,
			Description: "Send a promotional message to customers. Optionally target only customers who asked about a specific product.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"message": {"type": "string", "description": "Message to broadcast"},
					"product_query": {"type": "string", "description": "Only send to customers who mentioned this product"}
				},
				"required": ["message"]
			}`),
		},
	},
}
