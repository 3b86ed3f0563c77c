package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vendebot/vendebot-backend/internal/core/pricing"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// Customer tool names. This is the whole sales-channel surface: anything
// else the model asks for gets a structured unknown-tool error.
const (
	ToolSearchProducts    = "search_products"
	ToolGetProduct        = "get_product"
	ToolCalculatePrice    = "calculate_price"
	ToolCheckAvailability = "check_availability"
	ToolCreateOrder       = "create_order"
	ToolGetBusinessInfo   = "get_business_info"
	ToolEscalateToHuman   = "escalate_to_human"
)

// Typed argument records for each tool. Model-generated JSON is not
// guaranteed well-formed, so every field decodes leniently.
type searchProductsArgs struct {
	Query string `json:"query"`
}

type getProductArgs struct {
	ID string `json:"id"`
}

type calculatePriceArgs struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	WidthM    float64 `json:"width_m"`
	HeightM   float64 `json:"height_m"`
	Grams     float64 `json:"grams"`
}

type checkAvailabilityArgs struct {
	ProductID string `json:"product_id"`
}

type createOrderArgs struct {
	Items []models.OrderItem `json:"items"`
	Notes string             `json:"notes"`
}

type escalateArgs struct {
	Reason string `json:"reason"`
}

// CustomerToolset executes sales-channel tools in the context of one
// conversation. It implements the agent toolset contract.
type CustomerToolset struct {
	productRepo     repositories.ProductRepo
	conversationSvc *ConversationService
	orderSvc        *OrderService

	tenant       *models.Tenant
	customer     *models.Customer
	conversation *models.Conversation
}

func NewCustomerToolset(
	productRepo repositories.ProductRepo,
	conversationSvc *ConversationService,
	orderSvc *OrderService,
	tenant *models.Tenant,
	customer *models.Customer,
	conversation *models.Conversation,
) *CustomerToolset {
	return &CustomerToolset{
		productRepo:     productRepo,
		conversationSvc: conversationSvc,
		orderSvc:        orderSvc,
		tenant:          tenant,
		customer:        customer,
		conversation:    conversation,
	}
}

// Dispatch routes a tool call to its handler. It never panics or errors out
// of band: every outcome is a JSON-serializable value for the model.
func (t *CustomerToolset) Dispatch(ctx context.Context, name string, args json.RawMessage) interface{} {
	switch name {
	case ToolSearchProducts:
		var a searchProductsArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.searchProducts(a)

	case ToolGetProduct:
		var a getProductArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.getProduct(a)

	case ToolCalculatePrice:
		var a calculatePriceArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.calculatePrice(a)

	case ToolCheckAvailability:
		var a checkAvailabilityArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.checkAvailability(a)

	case ToolCreateOrder:
		var a createOrderArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.createOrder(ctx, a)

	case ToolGetBusinessInfo:
		return t.getBusinessInfo()

	case ToolEscalateToHuman:
		var a escalateArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return invalidArgs(name)
		}
		return t.escalateToHuman(ctx, a)

	default:
		return map[string]interface{}{"error": fmt.Sprintf("Unknown tool: %s", name)}
	}
}

func invalidArgs(tool string) map[string]interface{} {
	return map[string]interface{}{"error": fmt.Sprintf("Invalid arguments for %s", tool)}
}

func (t *CustomerToolset) searchProducts(a searchProductsArgs) interface{} {
	products, err := t.productRepo.Search(t.tenant.ID, a.Query)
	if err != nil {
		return map[string]interface{}{"error": "Error buscando productos."}
	}

	if len(products) == 0 {
		return map[string]interface{}{
			"message": "No se encontraron productos con esa búsqueda.",
			"results": []interface{}{},
		}
	}

	results := make([]map[string]interface{}, len(products))
	for i, p := range products {
		results[i] = map[string]interface{}{
			"id":          p.ID.String(),
			"name":        p.Name,
			"description": p.Description,
			"price":       fmt.Sprintf("$%.2f", p.Price),
			"unit":        p.Unit,
			"category":    p.Category,
			"available":   p.InStock,
		}
	}

	return map[string]interface{}{
		"message": fmt.Sprintf("Se encontraron %d producto(s).", len(products)),
		"results": results,
	}
}

func (t *CustomerToolset) getProduct(a getProductArgs) interface{} {
	product, err := t.productRepo.GetByID(t.tenant.ID, a.ID)
	if err != nil {
		return map[string]interface{}{"error": "Producto no encontrado."}
	}

	return map[string]interface{}{
		"id":              product.ID.String(),
		"name":            product.Name,
		"description":     product.Description,
		"price":           fmt.Sprintf("$%.2f", product.Price),
		"unit":            product.Unit,
		"wastePercentage": product.WastePercentage,
		"category":        product.Category,
		"available":       product.InStock,
	}
}

func (t *CustomerToolset) calculatePrice(a calculatePriceArgs) interface{} {
	product, err := t.productRepo.GetByID(t.tenant.ID, a.ProductID)
	if err != nil {
		return map[string]interface{}{"error": "Producto no encontrado."}
	}

	result := pricing.Calculate(pricing.Input{
		UnitPrice:       product.Price,
		Unit:            pricing.Unit(product.Unit),
		Quantity:        a.Quantity,
		WastePercentage: product.WastePercentage,
		WidthM:          a.WidthM,
		HeightM:         a.HeightM,
		Grams:           a.Grams,
	})

	return map[string]interface{}{
		"product":           product.Name,
		"unitPrice":         fmt.Sprintf("$%.2f", result.UnitPrice),
		"unit":              result.Unit,
		"requestedQuantity": result.BaseQuantity,
		"wastePercentage":   fmt.Sprintf("%g%%", result.WastePercentage),
		"quantityWithWaste": result.QuantityWithWaste,
		"total":             fmt.Sprintf("$%.2f", result.Total),
		"totalNumeric":      result.Total,
		"breakdown":         result.Breakdown,
	}
}

func (t *CustomerToolset) checkAvailability(a checkAvailabilityArgs) interface{} {
	product, err := t.productRepo.GetByID(t.tenant.ID, a.ProductID)
	if err != nil {
		return map[string]interface{}{"error": "Producto no encontrado."}
	}

	message := fmt.Sprintf("%s está disponible.", product.Name)
	if !product.InStock {
		message = fmt.Sprintf("%s no está disponible en este momento.", product.Name)
	}

	return map[string]interface{}{
		"product":   product.Name,
		"available": product.InStock,
		"message":   message,
	}
}

func (t *CustomerToolset) createOrder(ctx context.Context, a createOrderArgs) interface{} {
	if len(a.Items) == 0 {
		return map[string]interface{}{"error": "El pedido no tiene productos."}
	}

	result, err := t.orderSvc.CreateOrder(ctx, t.tenant, t.customer, a.Items, a.Notes)
	if err != nil {
		return map[string]interface{}{"error": "No se pudo crear el pedido."}
	}

	order := result.Order
	shortID := order.ID.String()[:8]

	response := map[string]interface{}{
		"success":     true,
		"orderId":     order.ID.String(),
		"orderNumber": order.OrderNumber,
		"totalAmount": fmt.Sprintf("$%.2f", order.TotalAmount),
		"itemCount":   len(a.Items),
		"message":     fmt.Sprintf("Pedido #%s creado por $%.2f. Estado: pendiente.", shortID, order.TotalAmount),
	}

	if result.PaymentLink != nil {
		response["paymentLink"] = result.PaymentLink.InitPoint
		response["message"] = fmt.Sprintf("Pedido #%s creado por $%.2f. Podés pagar acá: %s",
			shortID, order.TotalAmount, result.PaymentLink.InitPoint)
	}

	return response
}

func (t *CustomerToolset) getBusinessInfo() interface{} {
	address := t.tenant.Address
	if address == "" {
		address = "No especificada"
	}
	hours := t.tenant.Hours
	if hours == "" {
		hours = "No especificado"
	}

	return map[string]interface{}{
		"name":           t.tenant.BusinessName,
		"whatsappNumber": t.tenant.WhatsAppNumber,
		"address":        address,
		"hours":          hours,
		"deliveryZones":  splitZones(t.tenant.DeliveryZones),
		"description":    t.tenant.Description,
	}
}

func (t *CustomerToolset) escalateToHuman(ctx context.Context, a escalateArgs) interface{} {
	if err := t.conversationSvc.Escalate(ctx, t.tenant, t.conversation.ID, a.Reason); err != nil {
		return map[string]interface{}{"error": "No se pudo derivar la conversación."}
	}

	return map[string]interface{}{
		"success": true,
		"message": "La conversación fue derivada al dueño del negocio. Te van a responder a la brevedad.",
		"reason":  a.Reason,
	}
}

// splitZones turns the stored comma-separated zones into a list.
func splitZones(zones string) []string {
	if zones == "" {
		return []string{}
	}
	parts := strings.Split(zones, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Definitions returns the sales-channel tool schema sent to the model.
func (t *CustomerToolset) Definitions() []openai.Tool {
	return customerToolDefinitions
}

var customerToolDefinitions = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolSearchProducts,
			Description: "Search the product catalog by name, category, or description. Returns matching products with prices and availability.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query (product name, category, or keyword)"}
				},
				"required": ["query"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolGetProduct,
			Description: "Get full details of a specific product including price, unit, description, and availability.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"id": {"type": "string", "description": "Product UUID"}
				},
				"required": ["id"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolCalculatePrice,
			Description: "Calculate the total price for a product given quantity and optional dimensions. Handles unit conversion, waste percentage, and returns the exact total. ALWAYS use this instead of calculating prices yourself.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"product_id": {"type": "string", "description": "Product UUID"},
					"quantity": {"type": "number", "description": "Quantity in the product's unit (e.g., 2 for 2 units, 1.5 for 1.5 kg)"},
					"width_m": {"type": "number", "description": "Width in meters (for m² products)"},
					"height_m": {"type": "number", "description": "Height in meters (for m² products)"},
					"grams": {"type": "number", "description": "Weight in grams (for kg products, overrides quantity)"}
				},
				"required": ["product_id", "quantity"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolCheckAvailability,
			Description: "Check if a specific product is currently in stock.",
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
			Name:        ToolCreateOrder,
			Description: "Create a new order for the customer. Only call this after confirming items and prices with the customer.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"product_id": {"type": "string"},
								"product_name": {"type": "string"},
								"quantity": {"type": "number"},
								"unit_price": {"type": "number"},
								"total": {"type": "number"}
							},
							"required": ["product_id", "product_name", "quantity", "unit_price", "total"]
						},
						"description": "List of items to order"
					},
					"notes": {"type": "string", "description": "Optional notes for the order"}
				},
				"required": ["items"]
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolGetBusinessInfo,
			Description: "Get business information: name, address, hours, delivery zones, description.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {},
				"required": []
			}`),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolEscalateToHuman,
			Description: "Hand off the conversation to the business owner. Use when: the customer explicitly asks to speak to a person, the query is too complex, or involves complaints/issues.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"reason": {"type": "string", "description": "Why the conversation is being escalated"}
				},
				"required": ["reason"]
			}`),
		},
	},
}
