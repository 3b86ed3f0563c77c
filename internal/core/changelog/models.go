package changelog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Actions recorded in the change log.
const (
	ActionUpdatePrice   = "update_price"
	ActionUpdateHours   = "update_hours"
	ActionAddProduct    = "add_product"
	ActionRemoveProduct = "remove_product"
	ActionUpdateProduct = "update_product"
	ActionBroadcast     = "broadcast"
	ActionOther         = "other"
)

// Where the change came from.
const (
	SourceWhatsApp  = "whatsapp"
	SourceDashboard = "dashboard"
)

// ChangeLog records a business change made by the owner, whether it came in
// through the WhatsApp management channel or the dashboard.
type ChangeLog struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`

	Action      string         `json:"action" gorm:"type:text;not null;index"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Details     datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	Source      string         `json:"source" gorm:"type:text;not null;default:'whatsapp'"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (ChangeLog) TableName() string {
	return "change_logs"
}

// Filter represents filters for querying change log entries
type Filter struct {
	Action    string
	Source    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// ListResponse represents a paginated change log response
type ListResponse struct {
	Entries    []ChangeLog `json:"entries"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
