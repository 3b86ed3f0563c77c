package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/vendebot/vendebot-backend/internal/core/export"
	"github.com/vendebot/vendebot-backend/internal/core/notification"
	"github.com/vendebot/vendebot-backend/internal/core/payment"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/models"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
)

// OrderService creates and manages customer orders
type OrderService struct {
	orderRepo  repositories.OrderRepo
	tenantRepo repositories.TenantRepo
	gateway    payment.Gateway
	notifier   *notification.Service
	appURL     string
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepo,
	tenantRepo repositories.TenantRepo,
	gateway payment.Gateway,
	notifier *notification.Service,
	appURL string,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		tenantRepo: tenantRepo,
		gateway:    gateway,
		notifier:   notifier,
		appURL:     appURL,
	}
}

// OrderResult separates the durable order from the best-effort payment link,
// so callers can see exactly which of the two steps succeeded.
type OrderResult struct {
	Order       *models.Order
	PaymentLink *payment.CheckoutLink
	LinkErr     error
}

// CreateOrder persists an order and then tries to attach a checkout link.
// Line totals arrive already priced (waste markup included, via the price
// calculator) and are kept as supplied; quantity × unit price only fills in a
// missing line total. The order total is always the server-side sum of the
// line totals, never the model's own top-level figure.
func (s *OrderService) CreateOrder(ctx context.Context, tenant *models.Tenant, customer *models.Customer, items []models.OrderItem, notes string) (*OrderResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}

	var totalAmount float64
	for i := range items {
		if items[i].Total <= 0 {
			items[i].Total = round2(items[i].Quantity * items[i].UnitPrice)
		}
		totalAmount += items[i].Total
	}
	totalAmount = round2(totalAmount)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order items: %w", err)
	}

	order := &models.Order{
		TenantID:    tenant.ID,
		CustomerID:  customer.ID,
		OrderNumber: generateOrderNumber(),
		Items:       itemsJSON,
		TotalAmount: totalAmount,
		Notes:       notes,
		Status:      models.OrderPending,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log.Printf("🛒 Order created: %s ($%.2f, %d items)", order.OrderNumber, totalAmount, len(items))

	result := &OrderResult{Order: order}

	// The order is the durable commit point. A failed link never rolls it back.
	if tenant.HasPayments() {
		link, linkErr := s.createPaymentLink(ctx, tenant, order, items)
		result.PaymentLink = link
		result.LinkErr = linkErr
		if linkErr != nil {
			log.Printf("⚠️ Failed to create payment link for %s: %v", order.OrderNumber, linkErr)
		}
	}

	s.notifyOwner(ctx, tenant, customer, order, items)

	return result, nil
}

func (s *OrderService) createPaymentLink(ctx context.Context, tenant *models.Tenant, order *models.Order, items []models.OrderItem) (*payment.CheckoutLink, error) {
	checkoutItems := make([]payment.CheckoutItem, len(items))
	for i, item := range items {
		checkoutItems[i] = payment.CheckoutItem{
			Title:     item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	link, err := s.gateway.CreateCheckoutLink(ctx, &payment.CheckoutRequest{
		AccessToken:     tenant.MPAccessToken,
		OrderID:         order.ID.String(),
		Items:           checkoutItems,
		BackURL:         s.appURL + "/pago",
		NotificationURL: s.appURL + "/api/webhooks/mercadopago?order_id=" + order.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	order.PaymentLink = link.InitPoint
	order.MercadoPagoPreferenceID = link.PreferenceID
	order.PaymentStatus = payment.StatusPending
	if err := s.orderRepo.Update(order); err != nil {
		return link, fmt.Errorf("failed to save payment link: %w", err)
	}

	return link, nil
}

func (s *OrderService) notifyOwner(ctx context.Context, tenant *models.Tenant, customer *models.Customer, order *models.Order, items []models.OrderItem) {
	if tenant.OwnerPhoneNumber == "" {
		return
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("• %s x%s ($%.2f)", item.ProductName, fmtQty(item.Quantity), item.Total)
	}

	// Best effort, the customer flow never waits on the owner channel.
	_ = s.notifier.NotifyNewOrder(ctx, tenant.OwnerPhoneNumber, order.OrderNumber,
		customer.PhoneNumber, order.TotalAmount, strings.Join(lines, "\n"))
}

// UpdateStatus changes an order's status from the dashboard
func (s *OrderService) UpdateStatus(tenantID string, orderID, status string) (*models.Order, error) {
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(tenant.ID, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	log.Printf("📦 Order %s status: %s", order.OrderNumber, status)
	return order, nil
}

// HandlePaymentNotification processes a MercadoPago webhook for an order.
func (s *OrderService) HandlePaymentNotification(ctx context.Context, orderID, paymentID string) error {
	order, err := s.orderRepo.GetByIDAny(orderID)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}

	tenant, err := s.tenantRepo.GetByID(order.TenantID.String())
	if err != nil {
		return fmt.Errorf("tenant not found: %w", err)
	}

	info, err := s.gateway.GetPayment(ctx, tenant.MPAccessToken, paymentID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	order.PaymentStatus = info.Status
	order.MercadoPagoPaymentID = info.ID
	if info.Status == payment.StatusApproved && order.Status == models.OrderPending {
		order.Status = models.OrderConfirmed
	}

	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to update order payment: %w", err)
	}

	log.Printf("💳 Payment %s for order %s: %s", paymentID, order.OrderNumber, info.Status)

	if info.Status == payment.StatusApproved && tenant.OwnerPhoneNumber != "" {
		_ = s.notifier.NotifyPaymentApproved(ctx, tenant.OwnerPhoneNumber, order.OrderNumber, info.TransactionAmount)
	}

	return nil
}

// ExportRows builds the spreadsheet rows for a tenant's order report.
func (s *OrderService) ExportRows(tenantID string) ([]export.OrderRow, error) {
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}

	orders, _, err := s.orderRepo.ListByTenant(tenant.ID, "", 1, 10000)
	if err != nil {
		return nil, err
	}

	rows := make([]export.OrderRow, 0, len(orders))
	for _, order := range orders {
		items, err := order.ParsedItems()
		if err != nil {
			log.Printf("⚠️ Skipping order %s in export: bad items payload: %v", order.OrderNumber, err)
			continue
		}

		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = fmt.Sprintf("%s x%s", item.ProductName, fmtQty(item.Quantity))
		}

		rows = append(rows, export.OrderRow{
			OrderNumber:   order.OrderNumber,
			CreatedAt:     order.CreatedAt,
			CustomerName:  order.Customer.Name,
			CustomerPhone: order.Customer.PhoneNumber,
			Items:         strings.Join(lines, ", "),
			TotalAmount:   order.TotalAmount,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
		})
	}

	return rows, nil
}

// generateOrderNumber builds a human-quotable order number.
func generateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("ORD-%s-%05d", now.Format("20060102"), now.Unix()%100000)
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

// fmtQty formats fractional quantities without trailing zeros.
func fmtQty(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
