package services

import (
	"context"
	"log"

	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// BroadcastService fans a message out to a tenant's customer base.
type BroadcastService struct {
	customerRepo repositories.CustomerRepo
	whatsapp     *whatsapp.Service
}

func NewBroadcastService(customerRepo repositories.CustomerRepo, whatsappSvc *whatsapp.Service) *BroadcastService {
	return &BroadcastService{
		customerRepo: customerRepo,
		whatsapp:     whatsappSvc,
	}
}

// BroadcastOutcome summarizes one fan-out run.
type BroadcastOutcome struct {
	Sent   int
	Failed int
	Total  int
}

// Send delivers the message to every targeted customer. When productQuery is
// set, targeting narrows to customers who mentioned it in past messages.
// One failed delivery never aborts the rest of the run.
func (s *BroadcastService) Send(ctx context.Context, tenant *models.Tenant, message, productQuery string) (*BroadcastOutcome, error) {
	var customers []models.Customer
	var err error

	if productQuery != "" {
		customers, err = s.customerRepo.ListByMessageQuery(tenant.ID, productQuery)
	} else {
		customers, err = s.customerRepo.ListByTenant(tenant.ID)
	}
	if err != nil {
		return nil, err
	}

	outcome := &BroadcastOutcome{Total: len(customers)}
	for _, customer := range customers {
		if err := s.whatsapp.SendMessage(ctx, customer.PhoneNumber, message); err != nil {
			log.Printf("⚠️ Broadcast delivery to %s failed: %v", customer.PhoneNumber, err)
			outcome.Failed++
			continue
		}
		outcome.Sent++
	}

	log.Printf("📣 Broadcast for %s: %d sent, %d failed of %d", tenant.BusinessName, outcome.Sent, outcome.Failed, outcome.Total)
	return outcome, nil
}
