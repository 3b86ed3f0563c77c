package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// CampaignService schedules promotional broadcasts for later delivery.
type CampaignService struct {
	campaignRepo repositories.CampaignRepo
	tenantRepo   repositories.TenantRepo
	broadcastSvc *BroadcastService
}

func NewCampaignService(
	campaignRepo repositories.CampaignRepo,
	tenantRepo repositories.TenantRepo,
	broadcastSvc *BroadcastService,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		tenantRepo:   tenantRepo,
		broadcastSvc: broadcastSvc,
	}
}

// Create schedules a new campaign.
func (s *CampaignService) Create(tenantID uuid.UUID, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, fmt.Errorf("scheduled_at must be in the future")
	}

	campaign := &models.Campaign{
		TenantID:     tenantID,
		Name:         req.Name,
		Message:      req.Message,
		ProductQuery: req.ProductQuery,
		ScheduledAt:  req.ScheduledAt,
		Status:       models.CampaignScheduled,
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	log.Printf("📅 Campaign %q scheduled for %s", campaign.Name, campaign.ScheduledAt.Format(time.RFC3339))
	return campaign, nil
}

// List returns a tenant's campaigns, newest schedule first.
func (s *CampaignService) List(tenantID uuid.UUID) ([]models.Campaign, error) {
	return s.campaignRepo.ListByTenant(tenantID)
}

// Cancel stops a campaign that has not gone out yet.
func (s *CampaignService) Cancel(tenantID uuid.UUID, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignScheduled {
		return nil, fmt.Errorf("campaign is %s, only scheduled campaigns can be cancelled", campaign.Status)
	}

	campaign.Status = models.CampaignCancelled
	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// DispatchDue sends every campaign whose schedule has arrived. Meant to run
// periodically from the scheduler. A campaign that fails to load its tenant
// stays scheduled and is retried on the next tick.
func (s *CampaignService) DispatchDue(ctx context.Context) error {
	campaigns, err := s.campaignRepo.ListDue(time.Now())
	if err != nil {
		return err
	}

	for i := range campaigns {
		campaign := &campaigns[i]

		tenant, err := s.tenantRepo.GetByID(campaign.TenantID.String())
		if err != nil {
			log.Printf("⚠️ Campaign %s: tenant lookup failed: %v", campaign.ID, err)
			continue
		}

		// Claim the campaign before fanning out. A broadcast that outlives
		// one tick must not be picked up again by the next.
		campaign.Status = models.CampaignSending
		if err := s.campaignRepo.Update(campaign); err != nil {
			log.Printf("⚠️ Failed to claim campaign %s: %v", campaign.ID, err)
			continue
		}

		outcome, err := s.broadcastSvc.Send(ctx, tenant, campaign.Message, campaign.ProductQuery)
		if err != nil {
			log.Printf("❌ Campaign %q failed to send: %v", campaign.Name, err)
			campaign.Status = models.CampaignScheduled
			if err := s.campaignRepo.Update(campaign); err != nil {
				log.Printf("⚠️ Failed to release campaign %s: %v", campaign.ID, err)
			}
			continue
		}

		now := time.Now()
		campaign.Status = models.CampaignSent
		campaign.SentAt = &now
		campaign.Recipients = outcome.Sent
		if err := s.campaignRepo.Update(campaign); err != nil {
			log.Printf("⚠️ Failed to mark campaign %s as sent: %v", campaign.ID, err)
			continue
		}

		log.Printf("📣 Campaign %q sent to %d customer(s)", campaign.Name, outcome.Sent)
	}

	return nil
}
