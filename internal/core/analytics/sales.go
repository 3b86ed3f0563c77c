package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesSummary aggregates orders for a tenant over a reporting window.
type SalesSummary struct {
	Period       Period  `json:"period"`
	PeriodLabel  string  `json:"period_label"`
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	Pending      int64   `json:"pending"`
	Confirmed    int64   `json:"confirmed"`
	Delivered    int64   `json:"delivered"`
}

// DashboardStats is the at-a-glance panel for the dashboard home.
type DashboardStats struct {
	OrdersToday         int64   `json:"orders_today"`
	RevenueToday        float64 `json:"revenue_today"`
	ActiveConversations int64   `json:"active_conversations"`
	EscalatedChats      int64   `json:"escalated_chats"`
	TotalCustomers      int64   `json:"total_customers"`
	TotalProducts       int64   `json:"total_products"`
}

// Service runs sales and activity aggregations over the commerce tables
type Service struct {
	db *gorm.DB
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SalesForPeriod aggregates orders created since the period start.
// Cancelled orders are excluded from both counts and revenue.
func (s *Service) SalesForPeriod(ctx context.Context, tenantID uuid.UUID, period Period) (*SalesSummary, error) {
	since := period.Start(time.Now())

	summary := &SalesSummary{
		Period:      period,
		PeriodLabel: period.Label(),
	}

	base := s.db.WithContext(ctx).Table("orders").
		Where("tenant_id = ? AND created_at >= ? AND status <> ?", tenantID, since, "cancelled")

	if err := base.Session(&gorm.Session{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue *float64
	if err := base.Session(&gorm.Session{}).Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue != nil {
		summary.TotalRevenue = *revenue
	}

	statusCounts := map[string]*int64{
		"pending":   &summary.Pending,
		"confirmed": &summary.Confirmed,
		"delivered": &summary.Delivered,
	}
	for status, target := range statusCounts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", status).Count(target).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s orders: %w", status, err)
		}
	}

	return summary, nil
}

// Dashboard aggregates the quick stats shown on the dashboard home.
func (s *Service) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}
	midnight := PeriodToday.Start(time.Now())

	db := s.db.WithContext(ctx)

	if err := db.Table("orders").
		Where("tenant_id = ? AND created_at >= ? AND status <> ?", tenantID, midnight, "cancelled").
		Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	var revenue *float64
	if err := db.Table("orders").
		Where("tenant_id = ? AND created_at >= ? AND status <> ?", tenantID, midnight, "cancelled").
		Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	if revenue != nil {
		stats.RevenueToday = *revenue
	}

	if err := db.Table("conversations").
		Where("tenant_id = ? AND status = ?", tenantID, "active").
		Count(&stats.ActiveConversations).Error; err != nil {
		return nil, fmt.Errorf("failed to count active conversations: %w", err)
	}

	if err := db.Table("conversations").
		Where("tenant_id = ? AND status = ?", tenantID, "escalated").
		Count(&stats.EscalatedChats).Error; err != nil {
		return nil, fmt.Errorf("failed to count escalated conversations: %w", err)
	}

	if err := db.Table("customers").
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := db.Table("products").
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return stats, nil
}
