package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/services/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAppointmentStore struct {
	mu   sync.Mutex
	rows []*domain.Appointment
}

func (s *memAppointmentStore) Create(_ context.Context, appointment *domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *appointment
	s.rows = append(s.rows, &cp)
	return nil
}

func newToolHandler(store *memAppointmentStore) *ToolHandler {
	res := &staticResolver{orgs: map[string]string{"agent_abc": "org-1"}}
	return NewToolHandler(booking.NewService(res, store))
}

func postTool(t *testing.T, h *ToolHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/tools/create-appointment", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.HandleCreateAppointment(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["result"]
}

func TestHandleCreateAppointment_Success(t *testing.T) {
	store := &memAppointmentStore{}
	h := newToolHandler(store)

	rec := postTool(t, h, `{
		"agent_id": "agent_abc",
		"call_id": "call_1",
		"args": {"customer_name": "Maria Silva", "appointment_time": "Tuesday at 3pm"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.Contains(t, result, "Maria Silva")
	assert.Contains(t, result, "Tuesday at 3pm")
	require.Len(t, store.rows, 1)
	assert.Equal(t, "org-1", store.rows[0].OrganizationID)
}

func TestHandleCreateAppointment_MissingFieldStill200(t *testing.T) {
	store := &memAppointmentStore{}
	h := newToolHandler(store)

	rec := postTool(t, h, `{
		"agent_id": "agent_abc",
		"call_id": "call_1",
		"args": {"customer_name": "Maria Silva"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeResult(t, rec), "the appointment time")
	assert.Empty(t, store.rows)
}

func TestHandleCreateAppointment_BadJSONStill200(t *testing.T) {
	store := &memAppointmentStore{}
	h := newToolHandler(store)

	rec := postTool(t, h, `{"agent_id": `)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeResult(t, rec))
	assert.Empty(t, store.rows)
}
