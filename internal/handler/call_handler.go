package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/adapters/retell"
	"github.com/VoiceDeskAI/voice-admin-service/internal/repository"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	appredis "github.com/VoiceDeskAI/voice-admin-service/pkg/redis"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

const (
	callListLimit = 50
	statsCacheTTL = 30 * time.Second
)

// CallSummary is the list-view projection of a call record; the transcript
// stays out of list responses.
type CallSummary struct {
	CallID          string    `json:"call_id"`
	AgentID         string    `json:"agent_id"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
	Cost            float64   `json:"cost"`
	RecordingURL    string    `json:"recording_url,omitempty"`
	Sentiment       string    `json:"sentiment"`
	CreatedAt       time.Time `json:"created_at"`
}

// DashboardStats is the aggregate view the dashboard header renders.
type DashboardStats struct {
	TotalCalls   int64  `json:"total_calls"`
	TotalCost    string `json:"total_cost"`
	TotalMinutes int64  `json:"total_minutes"`
}

// WebCallRequest starts a browser test call.
type WebCallRequest struct {
	AgentID string `json:"agent_id"`
}

// OutboundCallRequest dials a real phone call through the platform.
type OutboundCallRequest struct {
	AgentID  string `json:"agent_id"`
	ToNumber string `json:"to_number"`
}

// CallHandler serves call listings, dashboard stats and test-call triggers.
type CallHandler struct {
	callRepo repository.CallRecordRepository
	platform *retell.Client
	redis    appredis.RedisServiceInterface // optional
}

// NewCallHandler creates a new call handler. redisSvc may be nil.
func NewCallHandler(callRepo repository.CallRecordRepository, platform *retell.Client, redisSvc appredis.RedisServiceInterface) *CallHandler {
	return &CallHandler{
		callRepo: callRepo,
		platform: platform,
		redis:    redisSvc,
	}
}

// ListCalls godoc
// @Summary List recent calls for an organization
// @Tags calls
// @Produce json
// @Param organization_id query string true "Organization ID"
// @Success 200 {array} CallSummary
// @Failure 400 {object} map[string]string "Missing organization_id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/calls [get]
func (h *CallHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		http.Error(w, "organization_id is required", http.StatusBadRequest)
		return
	}

	records, err := h.callRepo.ListByOrganizationID(r.Context(), organizationID, callListLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]CallSummary, 0, len(records))
	if err := copier.Copy(&summaries, &records); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// DashboardStats godoc
// @Summary Aggregate call totals for an organization
// @Description Totals are cached in Redis for a short interval; the cache is bypassed gracefully when Redis is down.
// @Tags calls
// @Produce json
// @Param organization_id query string true "Organization ID"
// @Success 200 {object} DashboardStats
// @Failure 400 {object} map[string]string "Missing organization_id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/dashboard/stats [get]
func (h *CallHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		http.Error(w, "organization_id is required", http.StatusBadRequest)
		return
	}

	var cacheKey string
	if h.redis != nil {
		cacheKey = h.redis.GenerateKey(appredis.DASHBOARD_STATS, organizationID)
		if cached, err := h.redis.GetValue(r.Context(), cacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	stats, err := h.callRepo.StatsByOrganizationID(r.Context(), organizationID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := DashboardStats{
		TotalCalls:   stats.TotalCalls,
		TotalCost:    fmt.Sprintf("%.2f", stats.TotalCost),
		TotalMinutes: int64(math.Round(float64(stats.TotalSeconds) / 60.0)),
	}

	if h.redis != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := h.redis.SetValue(r.Context(), cacheKey, string(payload), statsCacheTTL); err != nil {
				logger.Base().Debug("stats cache write failed", zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateWebCall godoc
// @Summary Start a browser test call
// @Tags calls
// @Accept json
// @Produce json
// @Param call body WebCallRequest true "Web call request"
// @Success 200 {object} retell.WebCallResponse
// @Failure 400 {object} map[string]string "Missing agent_id"
// @Failure 502 {object} map[string]string "Voice platform error"
// @Router /api/calls/web-call [post]
func (h *CallHandler) CreateWebCall(w http.ResponseWriter, r *http.Request) {
	var req WebCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AgentID == "" {
		http.Error(w, "agent_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.platform.CreateWebCall(r.Context(), &retell.WebCallRequest{AgentID: req.AgentID})
	if err != nil {
		logger.Base().Error("web call creation failed", zap.Error(err))
		http.Error(w, "Voice platform error", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateOutboundCall godoc
// @Summary Dial an outbound test call
// @Description Uses the first phone number purchased on the platform as the caller ID.
// @Tags calls
// @Accept json
// @Produce json
// @Param call body OutboundCallRequest true "Outbound call request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing to_number or no purchased numbers"
// @Failure 502 {object} map[string]string "Voice platform error"
// @Router /api/calls/outbound [post]
func (h *CallHandler) CreateOutboundCall(w http.ResponseWriter, r *http.Request) {
	var req OutboundCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToNumber == "" {
		http.Error(w, "to_number is required", http.StatusBadRequest)
		return
	}

	numbers, err := h.platform.ListPhoneNumbers(r.Context())
	if err != nil {
		logger.Base().Error("listing phone numbers failed", zap.Error(err))
		http.Error(w, "Voice platform error", http.StatusBadGateway)
		return
	}
	if len(numbers) == 0 {
		http.Error(w, "No phone numbers purchased on the platform", http.StatusBadRequest)
		return
	}

	call, err := h.platform.CreatePhoneCall(r.Context(), &retell.PhoneCallRequest{
		FromNumber:      numbers[0].PhoneNumber,
		ToNumber:        req.ToNumber,
		OverrideAgentID: req.AgentID,
	})
	if err != nil {
		logger.Base().Error("outbound call creation failed", zap.Error(err))
		http.Error(w, "Voice platform error", http.StatusBadGateway)
		return
	}

	logger.Base().Info("outbound call dialed",
		zap.String("call_id", call.CallID),
		zap.String("from_number", numbers[0].PhoneNumber))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"call_id": call.CallID,
	})
}
