package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	mercadoPagoAPIURL  = "https://api.mercadopago.com"
	mercadoPagoAuthURL = "https://auth.mercadopago.com.ar/authorization"
)

// MercadoPagoGateway creates checkout preferences against the MercadoPago
// REST API. The platform app credentials (client id/secret) are only used for
// the OAuth flow; checkout calls run with each tenant's own access token so
// money goes straight to the merchant account.
type MercadoPagoGateway struct {
	clientID     string
	clientSecret string
	redirectURI  string
	client       *http.Client
}

func NewMercadoPagoGateway(clientID, clientSecret, redirectURI string) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *MercadoPagoGateway) Name() string {
	return "MercadoPago"
}

type mpPreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type mpPreferenceRequest struct {
	Items             []mpPreferenceItem `json:"items"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url,omitempty"`
	BackURLs          *mpBackURLs        `json:"back_urls,omitempty"`
	AutoReturn        string             `json:"auto_return,omitempty"`
	Payer             *mpPayer           `json:"payer,omitempty"`
}

type mpBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type mpPayer struct {
	Email string `json:"email"`
}

// CreateCheckoutLink creates a checkout preference and returns the hosted
// payment link for the customer.
func (g *MercadoPagoGateway) CreateCheckoutLink(ctx context.Context, req *CheckoutRequest) (*CheckoutLink, error) {
	if req.AccessToken == "" {
		return nil, fmt.Errorf("mercadopago: tenant has no access token")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("mercadopago: checkout has no items")
	}

	items := make([]mpPreferenceItem, len(req.Items))
	for i, item := range req.Items {
		currency := item.CurrencyID
		if currency == "" {
			currency = "ARS"
		}
		items[i] = mpPreferenceItem{
			ID:         fmt.Sprintf("%d", i+1),
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CurrencyID: currency,
		}
	}

	pref := mpPreferenceRequest{
		Items:             items,
		ExternalReference: req.OrderID,
		NotificationURL:   req.NotificationURL,
	}
	if req.BackURL != "" {
		pref.BackURLs = &mpBackURLs{
			Success: req.BackURL + "/success",
			Failure: req.BackURL + "/failure",
			Pending: req.BackURL + "/pending",
		}
		pref.AutoReturn = "approved"
	}
	if req.PayerEmail != "" {
		pref.Payer = &mpPayer{Email: req.PayerEmail}
	}

	var resp struct {
		ID               string `json:"id"`
		InitPoint        string `json:"init_point"`
		SandboxInitPoint string `json:"sandbox_init_point"`
	}
	err := g.doRequest(ctx, http.MethodPost, "/checkout/preferences", req.AccessToken, pref, &resp)
	if err != nil {
		return nil, err
	}

	log.Printf("💳 MercadoPago preference created: %s (order %s)", resp.ID, req.OrderID)

	return &CheckoutLink{
		PreferenceID:     resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

// GetPayment fetches a payment by id using the tenant's access token.
func (g *MercadoPagoGateway) GetPayment(ctx context.Context, accessToken, paymentID string) (*PaymentInfo, error) {
	var resp struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		ExternalReference string      `json:"external_reference"`
		TransactionAmount float64     `json:"transaction_amount"`
	}
	err := g.doRequest(ctx, http.MethodGet, "/v1/payments/"+paymentID, accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}

	return &PaymentInfo{
		ID:                resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
		TransactionAmount: resp.TransactionAmount,
	}, nil
}

// TokenResponse holds tenant credentials returned by the OAuth token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	ExpiresIn    int64  `json:"expires_in"`
}

// OAuthURL builds the merchant authorization URL. The state parameter carries
// the tenant id so the callback knows whose credentials arrived.
func (g *MercadoPagoGateway) OAuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", g.clientID)
	q.Set("response_type", "code")
	q.Set("platform_id", "mp")
	q.Set("state", state)
	q.Set("redirect_uri", g.redirectURI)
	return mercadoPagoAuthURL + "?" + q.Encode()
}

// ExchangeCode trades an OAuth authorization code for tenant credentials.
func (g *MercadoPagoGateway) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return g.requestToken(ctx, map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     g.clientID,
		"client_secret": g.clientSecret,
		"code":          code,
		"redirect_uri":  g.redirectURI,
	})
}

// RefreshToken renews tenant credentials before the access token expires.
func (g *MercadoPagoGateway) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return g.requestToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     g.clientID,
		"client_secret": g.clientSecret,
		"refresh_token": refreshToken,
	})
}

func (g *MercadoPagoGateway) requestToken(ctx context.Context, payload map[string]string) (*TokenResponse, error) {
	var token TokenResponse
	if err := g.doRequest(ctx, http.MethodPost, "/oauth/token", "", payload, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// doRequest is a helper to make MercadoPago API requests.
func (g *MercadoPagoGateway) doRequest(ctx context.Context, method, endpoint, accessToken string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, mercadoPagoAPIURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mercadopago API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode mercadopago response: %w", err)
		}
	}
	return nil
}
