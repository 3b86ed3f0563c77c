package repositories

import (
	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type MessageRepo interface {
	Create(message *models.Message) error
	ListRecent(conversationID uuid.UUID, limit int) ([]models.Message, error)
	ListByConversation(conversationID uuid.UUID) ([]models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListRecent returns the N most recent messages in chronological order.
func (r *messageRepo) ListRecent(conversationID uuid.UUID, limit int) ([]models.Message, error) {
	if limit < 1 {
		limit = 20
	}

	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Fetched newest-first, the transcript wants oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *messageRepo) ListByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
