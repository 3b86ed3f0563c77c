package payment

import (
	"context"
	"errors"
)

// ErrPaymentsDisabled is returned when the deployment runs without a payment
// provider. Orders still get created, they just carry no payment link.
var ErrPaymentsDisabled = errors.New("payments are disabled")

// DisabledGateway is the no-op gateway for deployments without payments.
type DisabledGateway struct{}

func NewDisabledGateway() *DisabledGateway {
	return &DisabledGateway{}
}

func (g *DisabledGateway) Name() string {
	return "Payments Disabled"
}

func (g *DisabledGateway) CreateCheckoutLink(_ context.Context, _ *CheckoutRequest) (*CheckoutLink, error) {
	return nil, ErrPaymentsDisabled
}

func (g *DisabledGateway) GetPayment(_ context.Context, _, _ string) (*PaymentInfo, error) {
	return nil, ErrPaymentsDisabled
}
