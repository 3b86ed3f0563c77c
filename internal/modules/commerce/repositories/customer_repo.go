package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type CustomerRepo interface {
	GetOrCreate(tenantID uuid.UUID, phoneNumber string) (*models.Customer, error)
	GetByID(id uuid.UUID) (*models.Customer, error)
	ListByTenant(tenantID uuid.UUID) ([]models.Customer, error)
	ListByMessageQuery(tenantID uuid.UUID, productQuery string) ([]models.Customer, error)
	Update(customer *models.Customer) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepo {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetOrCreate(tenantID uuid.UUID, phoneNumber string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("tenant_id = ? AND phone_number = ?", tenantID, phoneNumber).
		First(&customer).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			TenantID:    tenantID,
			PhoneNumber: phoneNumber,
		}
		if err := r.db.Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepo) GetByID(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ListByTenant(tenantID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&customers).Error
	return customers, err
}

// ListByMessageQuery returns customers who mentioned a product in their
// messages, for targeted broadcasts.
func (r *customerRepo) ListByMessageQuery(tenantID uuid.UUID, productQuery string) ([]models.Customer, error) {
	searchPattern := "%" + productQuery + "%"

	var customers []models.Customer
	err := r.db.Distinct("customers.*").
		Joins("JOIN conversations ON conversations.customer_id = customers.id").
		Joins("JOIN messages ON messages.conversation_id = conversations.id").
		Where("customers.tenant_id = ?", tenantID).
		Where("messages.role = ?", models.RoleUser).
		Where("messages.content ILIKE ?", searchPattern).
		Find(&customers).Error

	return customers, err
}

func (r *customerRepo) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}
