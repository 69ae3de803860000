package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/VoiceDeskAI/voice-admin-service/internal/services/booking"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	"go.uber.org/zap"
)

// ToolHandler receives mid-call tool invocations from the platform's
// reasoning engine. The engine cannot branch on HTTP status codes, so every
// outcome — malformed JSON included — comes back as 200 with a spoken-safe
// result string.
type ToolHandler struct {
	booking *booking.Service
}

// NewToolHandler creates a new tool callback handler.
func NewToolHandler(svc *booking.Service) *ToolHandler {
	return &ToolHandler{booking: svc}
}

// HandleCreateAppointment godoc
// @Summary Book an appointment mid-call
// @Description Invoked by the voice platform's reasoning engine. The result string is read aloud to the caller; failures are expressed in the result, never the HTTP status.
// @Tags tools
// @Accept json
// @Produce json
// @Success 200 {object} booking.Result "Always 200 with a spoken-safe result"
// @Router /api/tools/create-appointment [post]
func (h *ToolHandler) HandleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Base().Warn("undecodable tool payload", zap.Error(err))
		writeJSON(w, http.StatusOK, booking.Result{
			Result: "I could not understand the booking request. Please try again.",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, h.booking.BookAppointment(ctx, &req))
}
