package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product in the tenant catalog
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`

	// Product Info
	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Category    string `gorm:"type:text" json:"category,omitempty"`

	// Pricing: price is per unit, where unit can be unidad, kg, m2,
	// m_lineal, litro, docena or combo
	Price           float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Unit            string  `gorm:"type:text;not null;default:'unidad'" json:"unit"`
	WastePercentage float64 `gorm:"type:decimal(5,2);not null;default:0" json:"waste_percentage"`

	InStock bool `gorm:"type:boolean;default:true" json:"in_stock"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate sets UUID before creating
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreateProductRequest represents product creation request
type CreateProductRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	Description     string  `json:"description,omitempty" validate:"max=1000"`
	Category        string  `json:"category,omitempty" validate:"max=100"`
	Price           float64 `json:"price" validate:"required,gte=0"`
	Unit            string  `json:"unit,omitempty" validate:"max=20"`
	WastePercentage float64 `json:"waste_percentage,omitempty" validate:"gte=0,lte=100"`
	InStock         *bool   `json:"in_stock,omitempty"`
}

// UpdateProductRequest represents product update request
type UpdateProductRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Unit            *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	WastePercentage *float64 `json:"waste_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	InStock         *bool    `json:"in_stock,omitempty"`
}

// ProductListResponse represents paginated product list response
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// ProductFilter represents product filtering options
type ProductFilter struct {
	Category   string
	InStock    *bool
	SearchTerm string // Search in name, description, category
	Page       int
	PageSize   int
}
