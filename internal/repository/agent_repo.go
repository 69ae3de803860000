package repository

import (
	"context"
	"fmt"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"gorm.io/gorm"
)

// GormAgentRepository implements AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GORM agent repository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// Create creates a new agent registry row
func (r *GormAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// GetByID retrieves an agent by ID
func (r *GormAgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("agent not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return &agent, nil
}

// GetByExternalAgentID retrieves an active agent by the platform-issued agent
// ID. Returns (nil, nil) when no row matches.
func (r *GormAgentRepository) GetByExternalAgentID(ctx context.Context, externalAgentID string) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.db.WithContext(ctx).
		Where("external_agent_id = ? AND disabled = ?", externalAgentID, false).
		First(&agent).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent by external agent ID: %w", err)
	}

	return &agent, nil
}

// GetByOrganizationID retrieves agents by organization ID
func (r *GormAgentRepository) GetByOrganizationID(ctx context.Context, organizationID string, includeDisabled bool) ([]*domain.Agent, error) {
	var agents []*domain.Agent
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)

	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	if err := query.Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to get agents by organization ID: %w", err)
	}

	return agents, nil
}

// GetAll retrieves all agents
func (r *GormAgentRepository) GetAll(ctx context.Context, includeDisabled bool) ([]*domain.Agent, error) {
	var agents []*domain.Agent
	query := r.db.WithContext(ctx)

	if !includeDisabled {
		query = query.Where("disabled = ?", false)
	}

	if err := query.Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to get agents: %w", err)
	}

	return agents, nil
}

// Deactivate soft deletes an agent
func (r *GormAgentRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&domain.Agent{}).Where("id = ?", id).Update("disabled", true)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate agent: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("agent not found: %s", id)
	}

	return nil
}
