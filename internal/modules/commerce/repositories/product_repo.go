package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

// searchLimit caps results fed back into the model context.
const searchLimit = 10

type ProductRepo interface {
	Create(product *models.Product) error
	GetByID(tenantID uuid.UUID, id string) (*models.Product, error)
	Search(tenantID uuid.UUID, query string) ([]models.Product, error)
	List(tenantID uuid.UUID, filter models.ProductFilter) ([]models.Product, int64, error)
	Update(product *models.Product) error
	Delete(tenantID uuid.UUID, id string) error // Soft delete
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) GetByID(tenantID uuid.UUID, id string) (*models.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID: %w", err)
	}

	var product models.Product
	err = r.db.Where("tenant_id = ?", tenantID).First(&product, "id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Search matches name, description and category case-insensitively.
func (r *productRepo) Search(tenantID uuid.UUID, query string) ([]models.Product, error) {
	searchPattern := "%" + query + "%"

	var products []models.Product
	err := r.db.Where("tenant_id = ?", tenantID).
		Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?",
			searchPattern, searchPattern, searchPattern).
		Order("name ASC").
		Limit(searchLimit).
		Find(&products).Error

	return products, err
}

func (r *productRepo) List(tenantID uuid.UUID, filter models.ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.SearchTerm != "" {
		searchPattern := "%" + filter.SearchTerm + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.Offset(offset).Limit(filter.PageSize).
		Order("created_at DESC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(tenantID uuid.UUID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	result := r.db.Where("tenant_id = ?", tenantID).Delete(&models.Product{}, "id = ?", uid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
