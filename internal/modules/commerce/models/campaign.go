package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign statuses.
const (
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignCancelled = "cancelled"
)

// Campaign is a scheduled broadcast to tenant customers.
type Campaign struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Name    string `gorm:"type:text;not null" json:"name"`
	Message string `gorm:"type:text;not null" json:"message"`

	// Optional: only customers who asked about matching products.
	ProductQuery string `gorm:"type:text" json:"product_query,omitempty"`

	ScheduledAt time.Time  `gorm:"not null;index" json:"scheduled_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	Recipients  int        `gorm:"type:integer;not null;default:0" json:"recipients"`

	Status string `gorm:"type:text;not null;default:'scheduled';index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate sets UUID before creating
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateCampaignRequest represents campaign creation request
type CreateCampaignRequest struct {
	Name         string    `json:"name" validate:"required,min=1,max=200"`
	Message      string    `json:"message" validate:"required,min=1,max=4000"`
	ProductQuery string    `json:"product_query,omitempty" validate:"max=200"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
}
