// Package resolver maps platform-issued agent identifiers to the owning
// organization. It is a pure read path over the agent registry: no caching,
// since a stale entry could bill calls to the wrong organization.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
)

// ErrUnknownAgent is returned when no active registry row matches the agent
// identifier. Callers must treat it as non-retryable.
var ErrUnknownAgent = errors.New("unknown agent")

// Resolver resolves an agent identifier to its organization ID.
type Resolver interface {
	Resolve(ctx context.Context, agentID string) (string, error)
}

// AgentLookup is the slice of the agent repository the resolver needs.
type AgentLookup interface {
	GetByExternalAgentID(ctx context.Context, externalAgentID string) (*domain.Agent, error)
}

type registryResolver struct {
	agents AgentLookup
}

// NewRegistryResolver creates a resolver backed by the agent registry.
func NewRegistryResolver(agents AgentLookup) Resolver {
	return &registryResolver{agents: agents}
}

// Resolve trims the identifier and looks it up in the registry. Upstream
// systems occasionally inject whitespace around agent IDs, so the raw value
// is never used directly.
func (r *registryResolver) Resolve(ctx context.Context, agentID string) (string, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return "", ErrUnknownAgent
	}

	agent, err := r.agents.GetByExternalAgentID(ctx, agentID)
	if err != nil {
		return "", fmt.Errorf("agent lookup failed: %w", err)
	}
	if agent == nil {
		return "", ErrUnknownAgent
	}

	return agent.OrganizationID, nil
}
