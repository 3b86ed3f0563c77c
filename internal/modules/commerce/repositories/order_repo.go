package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(order *models.Order) error
	GetByID(tenantID uuid.UUID, id string) (*models.Order, error)
	GetByIDAny(id string) (*models.Order, error)
	Update(order *models.Order) error
	ListByTenant(tenantID uuid.UUID, status string, page, pageSize int) ([]models.Order, int64, error)
	ListSince(tenantID uuid.UUID, since time.Time) ([]models.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) GetByID(tenantID uuid.UUID, id string) (*models.Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID: %w", err)
	}

	var order models.Order
	err = r.db.Preload("Customer").Where("tenant_id = ?", tenantID).
		First(&order, "id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDAny looks up an order without tenant scope, for payment webhooks
// where only the order id is known.
func (r *orderRepo) GetByIDAny(id string) (*models.Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID: %w", err)
	}

	var order models.Order
	if err := r.db.Preload("Customer").First(&order, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepo) ListByTenant(tenantID uuid.UUID, status string, page, pageSize int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{}).Where("tenant_id = ?", tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Customer").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListSince(tenantID uuid.UUID, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Customer").
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
