package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/repository"
	"github.com/gorilla/mux"
)

// OrganizationHandler handles HTTP requests for organizations
type OrganizationHandler struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgRepo repository.OrganizationRepository) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo}
}

// CreateOrganization godoc
// @Summary Create a new organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body domain.CreateOrganizationRequest true "Organization creation request"
// @Success 201 {object} domain.Organization "Organization created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/organizations [post]
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	org, err := h.orgRepo.Create(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

// ListOrganizations godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param include_disabled query bool false "Include disabled organizations"
// @Success 200 {array} domain.Organization
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/organizations [get]
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("include_disabled") == "true"

	orgs, err := h.orgRepo.GetAll(r.Context(), includeDisabled)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orgs)
}

// GetOrganization godoc
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)" format(uuid)
// @Success 200 {object} domain.Organization
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/organizations/{id} [get]
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	org, err := h.orgRepo.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "organization not found: "+id {
			http.Error(w, "Organization not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, org)
}
