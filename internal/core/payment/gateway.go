package payment

import "context"

// Gateway defines the interface for checkout link generation and payment
// lookup. Tenants bring their own credentials (MercadoPago OAuth tokens), so
// every call carries the tenant access token.
type Gateway interface {
	// CreateCheckoutLink creates a hosted checkout for an order and returns
	// the link the customer pays through.
	CreateCheckoutLink(ctx context.Context, req *CheckoutRequest) (*CheckoutLink, error)

	// GetPayment fetches a payment by provider payment id.
	GetPayment(ctx context.Context, accessToken, paymentID string) (*PaymentInfo, error)

	// Name returns the gateway provider name.
	Name() string
}

// CheckoutItem is a single line in the hosted checkout.
type CheckoutItem struct {
	Title      string  `json:"title"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// CheckoutRequest contains everything needed to create a checkout link.
type CheckoutRequest struct {
	AccessToken     string
	OrderID         string
	Items           []CheckoutItem
	PayerEmail      string
	BackURL         string
	NotificationURL string
}

// CheckoutLink is the hosted checkout created for an order. It is returned
// separately from the order itself: callers decide what to do when link
// creation fails, the order must already exist either way.
type CheckoutLink struct {
	PreferenceID     string `json:"preference_id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty"`
}

// PaymentInfo is the gateway view of a payment.
type PaymentInfo struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
}

// Gateway payment status values (MercadoPago vocabulary).
const (
	StatusApproved    = "approved"
	StatusPending     = "pending"
	StatusInProcess   = "in_process"
	StatusRejected    = "rejected"
	StatusCancelled   = "cancelled"
	StatusRefunded    = "refunded"
	StatusChargedBack = "charged_back"
)
