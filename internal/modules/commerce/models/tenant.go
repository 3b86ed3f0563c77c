package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a merchant business using the bot
type Tenant struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// Business profile (feeds the system prompt)
	BusinessName   string `gorm:"type:text;not null" json:"business_name"`
	BotPersonality string `gorm:"type:text" json:"bot_personality,omitempty"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	Address        string `gorm:"type:text" json:"address,omitempty"`
	Hours          string `gorm:"type:text" json:"hours,omitempty"`
	DeliveryZones  string `gorm:"type:text" json:"delivery_zones,omitempty"`

	// WhatsApp routing
	WhatsAppNumber   string `gorm:"type:text;index" json:"whatsapp_number,omitempty"`
	OwnerPhoneNumber string `gorm:"type:text" json:"owner_phone_number,omitempty"`

	// MercadoPago merchant credentials (per-tenant OAuth)
	MPAccessToken  string `gorm:"type:text" json:"-"`
	MPRefreshToken string `gorm:"type:text" json:"-"`
	MPUserID       int64  `gorm:"type:bigint" json:"-"`

	IsActive bool `gorm:"type:boolean;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate sets UUID before creating
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HasPayments reports whether the tenant connected a MercadoPago account.
func (t *Tenant) HasPayments() bool {
	return t.MPAccessToken != ""
}

// UpdateTenantRequest represents tenant settings update request
type UpdateTenantRequest struct {
	BusinessName     *string `json:"business_name,omitempty" validate:"omitempty,min=1,max=200"`
	BotPersonality   *string `json:"bot_personality,omitempty" validate:"omitempty,max=500"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Address          *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Hours            *string `json:"hours,omitempty" validate:"omitempty,max=500"`
	DeliveryZones    *string `json:"delivery_zones,omitempty" validate:"omitempty,max=1000"`
	OwnerPhoneNumber *string `json:"owner_phone_number,omitempty" validate:"omitempty,max=30"`
}
