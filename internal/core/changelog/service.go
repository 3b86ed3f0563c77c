package changelog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service records and queries owner business changes
type Service struct {
	db *gorm.DB
}

// NewService creates a new change log service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a change log entry
func (s *Service) Log(ctx context.Context, entry *ChangeLog) error {
	if entry.Source == "" {
		entry.Source = SourceWhatsApp
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create change log: %w", err)
	}
	return nil
}

// Record is a convenience wrapper that serializes the details payload.
// Logging must never fail the operation it describes, so errors only warn.
func (s *Service) Record(ctx context.Context, tenantID uuid.UUID, action, description string, details interface{}) {
	s.RecordFrom(ctx, tenantID, SourceWhatsApp, action, description, details)
}

// RecordFrom is Record with an explicit source, for dashboard-originated changes.
func (s *Service) RecordFrom(ctx context.Context, tenantID uuid.UUID, source, action, description string, details interface{}) {
	var detailsJSON datatypes.JSON
	if details != nil {
		bytes, err := json.Marshal(details)
		if err != nil {
			log.Printf("⚠️ Failed to serialize change log details: %v", err)
		} else {
			detailsJSON = bytes
		}
	}

	entry := &ChangeLog{
		TenantID:    tenantID,
		Action:      action,
		Description: description,
		Details:     detailsJSON,
		Source:      source,
	}
	if err := s.Log(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record change log: %v", err)
	}
}

// List retrieves change log entries for a tenant with filtering
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter Filter) (*ListResponse, error) {
	query := s.db.WithContext(ctx).Model(&ChangeLog{}).Where("tenant_id = ?", tenantID)

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count change logs: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	offset := (filter.Page - 1) * filter.PageSize

	var entries []ChangeLog
	if err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get change logs: %w", err)
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	return &ListResponse{
		Entries:    entries,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// DeleteOldEntries deletes change log entries older than a number of days
func (s *Service) DeleteOldEntries(daysToKeep int) error {
	if daysToKeep < 1 {
		return fmt.Errorf("daysToKeep must be at least 1")
	}

	cutoffDate := s.db.NowFunc().AddDate(0, 0, -daysToKeep)

	result := s.db.Where("created_at < ?", cutoffDate).Delete(&ChangeLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete old change logs: %w", result.Error)
	}

	log.Printf("Deleted %d old change log entries (older than %d days)", result.RowsAffected, daysToKeep)
	return nil
}
