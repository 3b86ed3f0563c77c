package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type ConversationRepo interface {
	Create(conversation *models.Conversation) error
	GetByID(id uuid.UUID) (*models.Conversation, error)
	GetLatestByCustomer(tenantID, customerID uuid.UUID) (*models.Conversation, error)
	UpdateStatus(id uuid.UUID, status, reason string) error
	Touch(id uuid.UUID) error
	ListByTenant(tenantID uuid.UUID, status string, limit int) ([]models.Conversation, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *conversationRepo) GetByID(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Preload("Customer").First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetLatestByCustomer returns the most recent non-closed conversation.
func (r *conversationRepo) GetLatestByCustomer(tenantID, customerID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Where("tenant_id = ? AND customer_id = ? AND status <> ?",
		tenantID, customerID, models.ConversationClosed).
		Order("created_at DESC").
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) UpdateStatus(id uuid.UUID, status, reason string) error {
	updates := map[string]interface{}{"status": status}
	if reason != "" {
		updates["escalated_reason"] = reason
	}
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).Updates(updates).Error
}

// Touch bumps last_message_at so dashboards sort by activity.
func (r *conversationRepo) Touch(id uuid.UUID) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).
		Update("last_message_at", time.Now()).Error
}

func (r *conversationRepo) ListByTenant(tenantID uuid.UUID, status string, limit int) ([]models.Conversation, error) {
	query := r.db.Preload("Customer").Where("tenant_id = ?", tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit < 1 {
		limit = 50
	}

	var conversations []models.Conversation
	err := query.Order("last_message_at DESC").Limit(limit).Find(&conversations).Error
	return conversations, err
}
