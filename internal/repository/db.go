package repository

import (
	"context"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"gorm.io/gorm"
)

// OrganizationRepository defines the interface for organization operations
type OrganizationRepository interface {
	Create(ctx context.Context, req *domain.CreateOrganizationRequest) (*domain.Organization, error)
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetAll(ctx context.Context, includeDisabled bool) ([]*domain.Organization, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// AgentRepository defines the interface for agent registry operations
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)

	// GetByExternalAgentID returns (nil, nil) when no active row matches,
	// so callers can tell "unknown agent" apart from a storage fault.
	GetByExternalAgentID(ctx context.Context, externalAgentID string) (*domain.Agent, error)
	GetByOrganizationID(ctx context.Context, organizationID string, includeDisabled bool) ([]*domain.Agent, error)
	GetAll(ctx context.Context, includeDisabled bool) ([]*domain.Agent, error)

	// Deactivate soft deletes the registry row. The platform-side agent is
	// deleted separately through the platform client.
	Deactivate(ctx context.Context, id string) error
}

// CallRecordRepository defines the interface for call record operations
type CallRecordRepository interface {
	// UpsertPreservingCost atomically replaces the record sharing call_id,
	// except that a zero incoming cost never overwrites a stored non-zero
	// cost.
	UpsertPreservingCost(ctx context.Context, record *domain.CallRecord) error
	GetByCallID(ctx context.Context, callID string) (*domain.CallRecord, error)
	ListByOrganizationID(ctx context.Context, organizationID string, limit int) ([]*domain.CallRecord, error)
	StatsByOrganizationID(ctx context.Context, organizationID string) (*domain.CallStats, error)
}

// AppointmentRepository defines the interface for appointment operations
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	ListByOrganizationID(ctx context.Context, organizationID string, limit int) ([]*domain.Appointment, error)
}

// RepositoryManager combines all repositories
type RepositoryManager interface {
	Organization() OrganizationRepository
	Agent() AgentRepository
	CallRecord() CallRecordRepository
	Appointment() AppointmentRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connection
	Close() error
}

// GormRepositoryManager implements RepositoryManager using GORM
type GormRepositoryManager struct {
	db               *gorm.DB
	organizationRepo *GormOrganizationRepository
	agentRepo        *GormAgentRepository
	callRecordRepo   *GormCallRecordRepository
	appointmentRepo  *GormAppointmentRepository
}

// NewGormRepositoryManager creates a new GORM repository manager
func NewGormRepositoryManager(db *gorm.DB) *GormRepositoryManager {
	return &GormRepositoryManager{
		db:               db,
		organizationRepo: NewGormOrganizationRepository(db),
		agentRepo:        NewGormAgentRepository(db),
		callRecordRepo:   NewGormCallRecordRepository(db),
		appointmentRepo:  NewGormAppointmentRepository(db),
	}
}

// Organization returns the organization repository
func (m *GormRepositoryManager) Organization() OrganizationRepository {
	return m.organizationRepo
}

// Agent returns the agent repository
func (m *GormRepositoryManager) Agent() AgentRepository {
	return m.agentRepo
}

// CallRecord returns the call record repository
func (m *GormRepositoryManager) CallRecord() CallRecordRepository {
	return m.callRecordRepo
}

// Appointment returns the appointment repository
func (m *GormRepositoryManager) Appointment() AppointmentRepository {
	return m.appointmentRepo
}

// Ping checks the database connection
func (m *GormRepositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (m *GormRepositoryManager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
