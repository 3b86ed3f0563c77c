package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderItem is one line of an order, stored inside the items JSON column.
// Quantity is fractional because products sell by weight or area.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Order represents a customer order
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`

	OrderNumber string         `gorm:"type:text;not null;uniqueIndex" json:"order_number"`
	Items       datatypes.JSON `gorm:"type:jsonb;not null" json:"items"`
	TotalAmount float64        `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`

	Status string `gorm:"type:text;not null;default:'pending';index" json:"status"`

	// Payment
	PaymentLink             string `gorm:"type:text" json:"payment_link,omitempty"`
	PaymentStatus           string `gorm:"type:text" json:"payment_status,omitempty"`
	MercadoPagoPreferenceID string `gorm:"type:text" json:"mercadopago_preference_id,omitempty"`
	MercadoPagoPaymentID    string `gorm:"type:text" json:"mercadopago_payment_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationship
	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate sets UUID before creating
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ParsedItems decodes the items JSON column.
func (o *Order) ParsedItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateOrderStatusRequest represents an order status change from the dashboard
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}
