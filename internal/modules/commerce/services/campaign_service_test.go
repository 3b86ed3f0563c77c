package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
)

type fakeCampaignRepo struct {
	campaigns []*models.Campaign
}

func (f *fakeCampaignRepo) Create(c *models.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.campaigns = append(f.campaigns, c)
	return nil
}

func (f *fakeCampaignRepo) GetByID(tenantID, id uuid.UUID) (*models.Campaign, error) {
	for _, c := range f.campaigns {
		if c.TenantID == tenantID && c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCampaignRepo) Update(c *models.Campaign) error {
	for i, existing := range f.campaigns {
		if existing.ID == c.ID {
			f.campaigns[i] = c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCampaignRepo) ListByTenant(tenantID uuid.UUID) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, c := range f.campaigns {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListDue(now time.Time) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, c := range f.campaigns {
		if c.Status == models.CampaignScheduled && !c.ScheduledAt.After(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func newCampaignServiceForTest(provider *fakeWaProvider) (*CampaignService, *fakeCampaignRepo, *fakeTenantRepo, *fakeCustomerRepo) {
	campaignRepo := &fakeCampaignRepo{}
	tenantRepo := &fakeTenantRepo{}
	customerRepo := &fakeCustomerRepo{}
	broadcastSvc := NewBroadcastService(customerRepo, whatsapp.NewServiceWithProvider(provider))
	return NewCampaignService(campaignRepo, tenantRepo, broadcastSvc), campaignRepo, tenantRepo, customerRepo
}

func TestCreateCampaignRejectsPastSchedule(t *testing.T) {
	svc, _, _, _ := newCampaignServiceForTest(&fakeWaProvider{})

	_, err := svc.Create(uuid.New(), &models.CreateCampaignRequest{
		Name:        "Oferta vieja",
		Message:     "promo",
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.Error(t, err)
}

func TestCancelOnlyScheduledCampaigns(t *testing.T) {
	svc, _, _, _ := newCampaignServiceForTest(&fakeWaProvider{})
	tenantID := uuid.New()

	campaign, err := svc.Create(tenantID, &models.CreateCampaignRequest{
		Name:        "Promo finde",
		Message:     "2x1 en empanadas",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(tenantID, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignCancelled, cancelled.Status)

	// Already cancelled, cancelling again fails.
	_, err = svc.Cancel(tenantID, campaign.ID)
	assert.Error(t, err)
}

func TestDispatchDueSendsAndMarksSent(t *testing.T) {
	provider := &fakeWaProvider{}
	svc, campaignRepo, tenantRepo, customerRepo := newCampaignServiceForTest(provider)

	tenant := &models.Tenant{ID: uuid.New(), BusinessName: "Pizzería Napoli", IsActive: true}
	require.NoError(t, tenantRepo.Create(tenant))
	_, err := customerRepo.GetOrCreate(tenant.ID, "+5491112345678")
	require.NoError(t, err)

	due := &models.Campaign{
		TenantID:    tenant.ID,
		Name:        "Promo muzza",
		Message:     "Hoy 2x1 en muzzarella",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      models.CampaignScheduled,
	}
	require.NoError(t, campaignRepo.Create(due))

	require.NoError(t, svc.DispatchDue(context.Background()))

	updated, err := campaignRepo.GetByID(tenant.ID, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, updated.Status)
	assert.Equal(t, 1, updated.Recipients)
	require.NotNil(t, updated.SentAt)
	require.Len(t, provider.sent, 1)
	assert.Contains(t, provider.sent[0], "2x1 en muzzarella")
}

// claimCheckProvider snapshots the due list on every delivery, so the test
// can observe what a concurrent scheduler tick would see mid fan-out.
type claimCheckProvider struct {
	repo          *fakeCampaignRepo
	dueDuringSend []int
}

func (p *claimCheckProvider) SendMessage(_ context.Context, _, _ string) (*whatsapp.SendResult, error) {
	due, _ := p.repo.ListDue(time.Now())
	p.dueDuringSend = append(p.dueDuringSend, len(due))
	return &whatsapp.SendResult{MessageID: "msg-1"}, nil
}

func (p *claimCheckProvider) ParseWebhook(string, []byte) ([]whatsapp.IncomingMessage, error) {
	return nil, nil
}

func (p *claimCheckProvider) Name() string { return "fake" }

func TestDispatchDueClaimsCampaignBeforeFanOut(t *testing.T) {
	campaignRepo := &fakeCampaignRepo{}
	tenantRepo := &fakeTenantRepo{}
	customerRepo := &fakeCustomerRepo{}
	provider := &claimCheckProvider{repo: campaignRepo}
	broadcastSvc := NewBroadcastService(customerRepo, whatsapp.NewServiceWithProvider(provider))
	svc := NewCampaignService(campaignRepo, tenantRepo, broadcastSvc)

	tenant := &models.Tenant{ID: uuid.New(), BusinessName: "Pizzería Napoli", IsActive: true}
	require.NoError(t, tenantRepo.Create(tenant))
	_, err := customerRepo.GetOrCreate(tenant.ID, "+5491112345678")
	require.NoError(t, err)

	due := &models.Campaign{
		TenantID:    tenant.ID,
		Name:        "Promo muzza",
		Message:     "Hoy 2x1",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      models.CampaignScheduled,
	}
	require.NoError(t, campaignRepo.Create(due))

	require.NoError(t, svc.DispatchDue(context.Background()))

	// While deliveries were in flight the campaign was already claimed, so
	// another tick would have found nothing to send.
	require.Len(t, provider.dueDuringSend, 1)
	assert.Equal(t, 0, provider.dueDuringSend[0])

	updated, err := campaignRepo.GetByID(tenant.ID, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, updated.Status)
}

func TestDispatchDueSkipsCampaignWithMissingTenant(t *testing.T) {
	provider := &fakeWaProvider{}
	svc, campaignRepo, _, _ := newCampaignServiceForTest(provider)

	orphan := &models.Campaign{
		TenantID:    uuid.New(),
		Name:        "Sin dueño",
		Message:     "promo",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      models.CampaignScheduled,
	}
	require.NoError(t, campaignRepo.Create(orphan))

	require.NoError(t, svc.DispatchDue(context.Background()))

	// Stays scheduled so the next tick retries it.
	assert.Equal(t, models.CampaignScheduled, orphan.Status)
	assert.Empty(t, provider.sent)
}
