package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/resolver"
	"github.com/VoiceDeskAI/voice-admin-service/internal/services/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCallStore struct {
	mu      sync.Mutex
	records map[string]*domain.CallRecord
	failAll bool
}

func newMemCallStore() *memCallStore {
	return &memCallStore{records: make(map[string]*domain.CallRecord)}
}

func (s *memCallStore) UpsertPreservingCost(_ context.Context, record *domain.CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("storage unavailable")
	}
	cp := *record
	if prev, ok := s.records[record.CallID]; ok && cp.Cost == 0 && prev.Cost != 0 {
		cp.Cost = prev.Cost
	}
	s.records[record.CallID] = &cp
	return nil
}

type staticResolver struct {
	orgs map[string]string
}

func (r *staticResolver) Resolve(_ context.Context, agentID string) (string, error) {
	orgID, ok := r.orgs[agentID]
	if !ok {
		return "", resolver.ErrUnknownAgent
	}
	return orgID, nil
}

func newWebhookHandler(store *memCallStore) *WebhookHandler {
	res := &staticResolver{orgs: map[string]string{"agent_abc": "org-1"}}
	return NewWebhookHandler(ingest.NewService(res, store, nil))
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/retell", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.HandleCallEvent(rec, req)
	return rec
}

const endedBody = `{
	"event": "call_ended",
	"call": {
		"call_id": "call_1",
		"agent_id": "agent_abc",
		"call_status": "ended",
		"start_timestamp": 1714000000000,
		"end_timestamp": 1714000125499,
		"duration_ms": 125499,
		"call_cost": {"combined_cost": 886},
		"call_analysis": {"user_sentiment": "Positive"}
	}
}`

func TestHandleCallEvent_TerminalEventStored(t *testing.T) {
	store := newMemCallStore()
	h := newWebhookHandler(store)

	rec := postWebhook(t, h, endedBody)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["received"])

	stored := store.records["call_1"]
	require.NotNil(t, stored)
	assert.Equal(t, "org-1", stored.OrganizationID)
	assert.Equal(t, 8.86, stored.Cost)
}

func TestHandleCallEvent_IgnoredKindStillAcked(t *testing.T) {
	store := newMemCallStore()
	h := newWebhookHandler(store)

	rec := postWebhook(t, h, `{"event":"call_started","call":{"call_id":"call_1","agent_id":"agent_abc"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.records)
}

func TestHandleCallEvent_UnknownAgentAcked(t *testing.T) {
	store := newMemCallStore()
	h := newWebhookHandler(store)

	rec := postWebhook(t, h, `{"event":"call_ended","call":{"call_id":"call_1","agent_id":"agent_ghost"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.records)
}

func TestHandleCallEvent_StorageFaultSignalsRetry(t *testing.T) {
	store := newMemCallStore()
	store.failAll = true
	h := newWebhookHandler(store)

	rec := postWebhook(t, h, endedBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCallEvent_InvalidJSONRejected(t *testing.T) {
	store := newMemCallStore()
	h := newWebhookHandler(store)

	rec := postWebhook(t, h, `{"event": "call_ended", "call":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.records)
}
