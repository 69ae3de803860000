package handler

import (
	"net/http"

	"github.com/VoiceDeskAI/voice-admin-service/internal/repository"
)

const appointmentListLimit = 50

// AppointmentHandler serves the appointments dashboard view. Appointments are
// written by the booking tool callback only; this surface is read-only.
type AppointmentHandler struct {
	appointmentRepo repository.AppointmentRepository
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentRepo repository.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{appointmentRepo: appointmentRepo}
}

// ListAppointments godoc
// @Summary List recent appointments for an organization
// @Tags appointments
// @Produce json
// @Param organization_id query string true "Organization ID"
// @Success 200 {array} domain.Appointment
// @Failure 400 {object} map[string]string "Missing organization_id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/appointments [get]
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		http.Error(w, "organization_id is required", http.StatusBadRequest)
		return
	}

	appointments, err := h.appointmentRepo.ListByOrganizationID(r.Context(), organizationID, appointmentListLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}
