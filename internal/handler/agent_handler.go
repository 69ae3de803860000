package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/VoiceDeskAI/voice-admin-service/internal/adapters/retell"
	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/repository"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultAgentModel    = "gpt-4o-mini"
	defaultAgentPrompt   = "You are a helpful assistant."
	defaultAgentLanguage = "en-US"
)

// AgentHandler provisions agents on the voice platform and mirrors them into
// the local registry the tenant resolver reads.
type AgentHandler struct {
	agentRepo repository.AgentRepository
	orgRepo   repository.OrganizationRepository
	platform  *retell.Client
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentRepo repository.AgentRepository, orgRepo repository.OrganizationRepository, platform *retell.Client) *AgentHandler {
	return &AgentHandler{
		agentRepo: agentRepo,
		orgRepo:   orgRepo,
		platform:  platform,
	}
}

// CreateAgent godoc
// @Summary Provision a new voice agent
// @Description Creates the reasoning engine and agent on the voice platform, then records the agent in the local registry under the owning organization.
// @Tags agents
// @Accept json
// @Produce json
// @Param agent body domain.CreateAgentRequest true "Agent creation request"
// @Success 201 {object} domain.Agent "Agent provisioned"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Voice platform error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/agents [post]
func (h *AgentHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.OrganizationID) == "" || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "organization_id and name are required", http.StatusBadRequest)
		return
	}

	exists, err := h.orgRepo.Exists(r.Context(), req.OrganizationID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "Organization not found", http.StatusBadRequest)
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultAgentPrompt
	}
	language := req.Language
	if language == "" {
		language = defaultAgentLanguage
	}

	llm, err := h.platform.CreateLLM(r.Context(), &retell.CreateLLMRequest{
		Model:         defaultAgentModel,
		GeneralPrompt: prompt,
	})
	if err != nil {
		logger.Base().Error("platform llm creation failed", zap.Error(err))
		http.Error(w, "Voice platform error", http.StatusBadGateway)
		return
	}

	platformAgent, err := h.platform.CreateAgent(r.Context(), &retell.CreateAgentRequest{
		AgentName: req.Name,
		VoiceID:   req.VoiceID,
		ResponseEngine: retell.ResponseEngine{
			LLMID: llm.LLMID,
			Type:  "retell-llm",
		},
		Language:                language,
		VoiceTemperature:        0.8,
		InterruptionSensitivity: 0.5,
	})
	if err != nil {
		logger.Base().Error("platform agent creation failed", zap.Error(err))
		http.Error(w, "Voice platform error", http.StatusBadGateway)
		return
	}

	agent := &domain.Agent{
		OrganizationID:  req.OrganizationID,
		ExternalAgentID: platformAgent.AgentID,
		Name:            req.Name,
		VoiceID:         platformAgent.VoiceID,
		LLMID:           llm.LLMID,
		Language:        language,
	}
	if err := h.agentRepo.Create(r.Context(), agent); err != nil {
		// The platform-side agent exists but the registry row failed; calls
		// from this agent would be dropped as unknown. Surface the fault so
		// the operator retries.
		logger.Base().Error("agent registry write failed",
			zap.String("external_agent_id", platformAgent.AgentID),
			zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Base().Info("agent provisioned",
		zap.String("external_agent_id", agent.ExternalAgentID),
		zap.String("organization_id", agent.OrganizationID))
	writeJSON(w, http.StatusCreated, agent)
}

// ListAgents godoc
// @Summary List agents
// @Tags agents
// @Produce json
// @Param organization_id query string false "Filter by organization"
// @Param include_disabled query bool false "Include deactivated agents"
// @Success 200 {array} domain.Agent
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/agents [get]
func (h *AgentHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("include_disabled") == "true"
	organizationID := r.URL.Query().Get("organization_id")

	var (
		agents []*domain.Agent
		err    error
	)
	if organizationID != "" {
		agents, err = h.agentRepo.GetByOrganizationID(r.Context(), organizationID, includeDisabled)
	} else {
		agents, err = h.agentRepo.GetAll(r.Context(), includeDisabled)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, agents)
}

// DeleteAgent godoc
// @Summary Deactivate an agent
// @Description Deletes the agent on the voice platform (best effort) and soft deletes the registry row. Calls from a deactivated agent are dropped by the ingestion pipeline.
// @Tags agents
// @Produce json
// @Param id path string true "Agent ID (UUID)" format(uuid)
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Agent not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/agents/{id} [delete]
func (h *AgentHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	agent, err := h.agentRepo.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "agent not found: "+id {
			http.Error(w, "Agent not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Platform deletion is best effort; the registry row is what gates
	// ingestion and billing attribution.
	if err := h.platform.DeleteAgent(r.Context(), agent.ExternalAgentID); err != nil {
		logger.Base().Warn("platform agent deletion failed",
			zap.String("external_agent_id", agent.ExternalAgentID),
			zap.Error(err))
	}

	if err := h.agentRepo.Deactivate(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
