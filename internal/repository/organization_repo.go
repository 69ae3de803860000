package repository

import (
	"context"
	"fmt"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GORM organization repository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, req *domain.CreateOrganizationRequest) (*domain.Organization, error) {
	org := &domain.Organization{
		Name:         req.Name,
		CustomConfig: req.CustomConfig,
	}

	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// GetByID retrieves an organization by ID
func (r *GormOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("organization not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// GetAll retrieves all organizations
func (r *GormOrganizationRepository) GetAll(ctx context.Context, includeDisabled bool) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	query := r.db.WithContext(ctx)

	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	if err := query.Order("created_at DESC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("failed to get organizations: %w", err)
	}

	return orgs, nil
}

// Exists checks if an organization exists
func (r *GormOrganizationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Organization{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check if organization exists: %w", err)
	}

	return count > 0, nil
}
