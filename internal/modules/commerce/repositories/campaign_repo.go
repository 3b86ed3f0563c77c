package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"gorm.io/gorm"
)

type CampaignRepo interface {
	Create(campaign *models.Campaign) error
	GetByID(tenantID uuid.UUID, id uuid.UUID) (*models.Campaign, error)
	Update(campaign *models.Campaign) error
	ListByTenant(tenantID uuid.UUID) ([]models.Campaign, error)
	ListDue(now time.Time) ([]models.Campaign, error)
}

type campaignRepo struct {
	db *gorm.DB
}

func NewCampaignRepo(db *gorm.DB) CampaignRepo {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *campaignRepo) GetByID(tenantID uuid.UUID, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("tenant_id = ?", tenantID).First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepo) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

func (r *campaignRepo) ListByTenant(tenantID uuid.UUID) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("scheduled_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// ListDue returns scheduled campaigns whose send time has arrived.
func (r *campaignRepo) ListDue(now time.Time) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("status = ? AND scheduled_at <= ?", models.CampaignScheduled, now).
		Order("scheduled_at ASC").
		Find(&campaigns).Error
	return campaigns, err
}
