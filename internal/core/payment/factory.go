package payment

import (
	"log"

	"github.com/vendebot/vendebot-backend/internal/shared/config"
)

// NewGateway creates a payment gateway based on configuration
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch cfg.PaymentMode {
	case "mercadopago":
		if cfg.MercadoPagoClientID == "" || cfg.MercadoPagoClientSecret == "" {
			log.Println("⚠️  MercadoPago credentials not set, payments disabled")
			return NewDisabledGateway(), nil
		}
		log.Println("💳 Using MercadoPago Payment Gateway")
		return NewMercadoPagoGateway(cfg.MercadoPagoClientID, cfg.MercadoPagoClientSecret, cfg.MercadoPagoRedirectURI), nil

	case "disabled":
		log.Println("💳 Payments disabled")
		return NewDisabledGateway(), nil

	default:
		log.Printf("⚠️  Unknown payment mode '%s', payments disabled", cfg.PaymentMode)
		return NewDisabledGateway(), nil
	}
}
