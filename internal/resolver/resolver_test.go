package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgentLookup struct {
	agents map[string]*domain.Agent
	err    error
}

func (f *fakeAgentLookup) GetByExternalAgentID(_ context.Context, externalAgentID string) (*domain.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.agents[externalAgentID], nil
}

func TestRegistryResolver_Resolve(t *testing.T) {
	lookup := &fakeAgentLookup{agents: map[string]*domain.Agent{
		"agent_abc": {ExternalAgentID: "agent_abc", OrganizationID: "org-1"},
	}}
	r := NewRegistryResolver(lookup)

	orgID, err := r.Resolve(context.Background(), "agent_abc")
	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)
}

func TestRegistryResolver_TrimsWhitespace(t *testing.T) {
	lookup := &fakeAgentLookup{agents: map[string]*domain.Agent{
		"agent_abc": {ExternalAgentID: "agent_abc", OrganizationID: "org-1"},
	}}
	r := NewRegistryResolver(lookup)

	orgID, err := r.Resolve(context.Background(), "  agent_abc \n")
	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)
}

func TestRegistryResolver_UnknownAgent(t *testing.T) {
	r := NewRegistryResolver(&fakeAgentLookup{agents: map[string]*domain.Agent{}})

	_, err := r.Resolve(context.Background(), "agent_missing")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestRegistryResolver_EmptyAgentID(t *testing.T) {
	r := NewRegistryResolver(&fakeAgentLookup{agents: map[string]*domain.Agent{}})

	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestRegistryResolver_StorageFaultIsNotUnknownAgent(t *testing.T) {
	storageErr := errors.New("connection refused")
	r := NewRegistryResolver(&fakeAgentLookup{err: storageErr})

	_, err := r.Resolve(context.Background(), "agent_abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAgent)
	assert.ErrorIs(t, err, storageErr)
}
