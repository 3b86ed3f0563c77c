package notification

import (
	"context"
	"fmt"
	"log"
)

// Sender sends WhatsApp messages. Satisfied by the whatsapp service.
type Sender interface {
	SendMessage(ctx context.Context, to, message string) error
}

// Service notifies business owners over WhatsApp about events that need
// their attention. Owners live in WhatsApp all day, so there is no email
// channel here.
type Service struct {
	sender Sender
}

// NewService creates a new notification service
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

func (s *Service) send(ctx context.Context, ownerPhone, message string) error {
	if ownerPhone == "" {
		return fmt.Errorf("owner phone not configured")
	}
	if err := s.sender.SendMessage(ctx, ownerPhone, message); err != nil {
		log.Printf("❌ Failed to notify owner %s: %v", ownerPhone, err)
		return err
	}
	log.Printf("✅ Owner notification sent to %s", ownerPhone)
	return nil
}

// NotifyNewOrder tells the owner a new order came in.
func (s *Service) NotifyNewOrder(ctx context.Context, ownerPhone, orderNumber, customerPhone string, totalAmount float64, items string) error {
	message := fmt.Sprintf(
		"🛒 *Nuevo pedido: %s*\n\n"+
			"👤 Cliente: %s\n"+
			"💰 Total: $%.2f\n"+
			"📝 Productos:\n%s",
		orderNumber,
		customerPhone,
		totalAmount,
		items,
	)
	return s.send(ctx, ownerPhone, message)
}

// NotifyEscalation tells the owner a customer asked for a human.
func (s *Service) NotifyEscalation(ctx context.Context, ownerPhone, customerPhone, reason string) error {
	message := fmt.Sprintf(
		"🔔 *Un cliente necesita atención*\n\n"+
			"👤 Cliente: %s\n"+
			"📝 Motivo: %s\n\n"+
			"Escribile directamente para continuar la conversación.",
		customerPhone,
		reason,
	)
	return s.send(ctx, ownerPhone, message)
}

// NotifyPaymentApproved tells the owner an order was paid.
func (s *Service) NotifyPaymentApproved(ctx context.Context, ownerPhone, orderNumber string, amount float64) error {
	message := fmt.Sprintf(
		"✅ *Pago acreditado: %s*\n\n"+
			"💰 Monto: $%.2f\n\n"+
			"Ya podés preparar el pedido.",
		orderNumber,
		amount,
	)
	return s.send(ctx, ownerPhone, message)
}
