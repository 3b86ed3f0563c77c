package repositories

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type TenantRepo interface {
	Create(tenant *models.Tenant) error
	GetByID(id string) (*models.Tenant, error)
	GetByWhatsAppNumber(number string) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	List() ([]models.Tenant, error)
}

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) TenantRepo {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

func (r *tenantRepo) GetByID(id string) (*models.Tenant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant ID: %w", err)
	}

	var tenant models.Tenant
	if err := r.db.First(&tenant, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByWhatsAppNumber resolves a tenant from the number a message arrived on.
// The stored number and the inbound number may differ in the + prefix.
func (r *tenantRepo) GetByWhatsAppNumber(number string) (*models.Tenant, error) {
	clean := strings.TrimPrefix(number, "+")

	var tenant models.Tenant
	err := r.db.Where("whatsapp_number IN ? AND is_active = ?", []string{clean, "+" + clean}, true).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepo) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

func (r *tenantRepo) List() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&tenants).Error
	return tenants, err
}
