package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCallRecordRepository implements CallRecordRepository using GORM
type GormCallRecordRepository struct {
	db *gorm.DB
}

// NewGormCallRecordRepository creates a new GORM call record repository
func NewGormCallRecordRepository(db *gorm.DB) *GormCallRecordRepository {
	return &GormCallRecordRepository{db: db}
}

// UpsertPreservingCost writes the authoritative record for record.CallID as a
// single INSERT ... ON CONFLICT DO UPDATE. The conflict assignment replaces
// every column, with one exception: a zero incoming cost keeps the stored
// non-zero cost, so a stale duplicate event cannot wipe out the cost the
// post-call analysis event already recorded. Running the conflict resolution
// inside the statement keeps two concurrent deliveries of the same call from
// racing a read-modify-write.
func (r *GormCallRecordRepository) UpsertPreservingCost(ctx context.Context, record *domain.CallRecord) error {
	if record.CallID == "" {
		return fmt.Errorf("call ID cannot be empty")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "call_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"agent_id":         record.AgentID,
			"organization_id":  record.OrganizationID,
			"status":           record.Status,
			"start_time":       record.StartTime,
			"end_time":         record.EndTime,
			"duration_seconds": record.DurationSeconds,
			"cost": gorm.Expr(
				"CASE WHEN excluded.cost = 0 AND call_records.cost <> 0 THEN call_records.cost ELSE excluded.cost END",
			),
			"recording_url": record.RecordingURL,
			"transcript":    record.Transcript,
			"sentiment":     record.Sentiment,
			"updated_at":    now,
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert call record: %w", err)
	}

	return nil
}

// GetByCallID retrieves a call record by the platform call ID. Returns
// (nil, nil) when no row matches.
func (r *GormCallRecordRepository) GetByCallID(ctx context.Context, callID string) (*domain.CallRecord, error) {
	var record domain.CallRecord
	if err := r.db.WithContext(ctx).Where("call_id = ?", callID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get call record: %w", err)
	}
	return &record, nil
}

// ListByOrganizationID retrieves the most recent call records for an organization
func (r *GormCallRecordRepository) ListByOrganizationID(ctx context.Context, organizationID string, limit int) ([]*domain.CallRecord, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}

	var records []*domain.CallRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}

	return records, nil
}

// StatsByOrganizationID aggregates call totals for an organization
func (r *GormCallRecordRepository) StatsByOrganizationID(ctx context.Context, organizationID string) (*domain.CallStats, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	var stats domain.CallStats
	err := r.db.WithContext(ctx).
		Model(&domain.CallRecord{}).
		Select("COUNT(*) AS total_calls, COALESCE(SUM(cost), 0) AS total_cost, COALESCE(SUM(duration_seconds), 0) AS total_seconds").
		Where("organization_id = ?", organizationID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate call stats: %w", err)
	}

	return &stats, nil
}
