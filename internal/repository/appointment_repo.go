package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GORM appointment repository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// Create creates a new appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// ListByOrganizationID retrieves the most recent appointments for an organization
func (r *GormAppointmentRepository) ListByOrganizationID(ctx context.Context, organizationID string, limit int) ([]*domain.Appointment, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}

	var appointments []*domain.Appointment
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return appointments, nil
}
