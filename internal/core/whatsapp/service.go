package whatsapp

import (
	"context"
	"log"
)

// Service is the application-facing wrapper around the configured transport.
type Service struct {
	provider Provider
}

// NewService builds a service with the provider selected by environment.
func NewService() *Service {
	cfg := LoadProviderFromEnv()

	provider, err := NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create WhatsApp provider: %v", err)
	}

	log.Printf("📱 Using WhatsApp provider: %s", provider.Name())

	return &Service{provider: provider}
}

// NewServiceWithProvider builds a service with a specific provider (for testing).
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

// SendMessage sends a text message to a WhatsApp number.
func (s *Service) SendMessage(ctx context.Context, to, message string) error {
	_, err := s.provider.SendMessage(ctx, to, message)
	return err
}

// ParseWebhook normalizes an inbound webhook payload.
func (s *Service) ParseWebhook(contentType string, body []byte) ([]IncomingMessage, error) {
	return s.provider.ParseWebhook(contentType, body)
}

// ProviderName returns the active transport name for logging.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
