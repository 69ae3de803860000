package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/services/ingest"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	"go.uber.org/zap"
)

// storeTimeout bounds the resolver and store round-trips so a slow database
// cannot hold the platform's webhook retry timer open.
const storeTimeout = 5 * time.Second

// WebhookHandler receives call lifecycle events from the voice platform.
type WebhookHandler struct {
	ingest *ingest.Service
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(svc *ingest.Service) *WebhookHandler {
	return &WebhookHandler{ingest: svc}
}

// HandleCallEvent godoc
// @Summary Receive a call lifecycle event
// @Description Accepts the voice platform's webhook. Terminal events are persisted; everything else is acknowledged without side effects. A non-200 response means the sender should retry.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "Event received"
// @Failure 400 {object} map[string]string "Body is not valid JSON"
// @Failure 500 {object} map[string]string "Storage fault, retry"
// @Router /api/webhooks/retell [post]
func (h *WebhookHandler) HandleCallEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	env, err := ingest.DecodeEnvelope(body)
	if err != nil {
		logger.Base().Warn("undecodable webhook body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.ingest.ProcessEvent(ctx, env); err != nil {
		logger.Base().Error("webhook processing failed",
			zap.String("event", env.Event),
			zap.String("call_id", env.Call.CallID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Base().Error("failed to encode response", zap.Error(err))
	}
}
