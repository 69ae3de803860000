package ingest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
)

// Lifecycle event kinds delivered by the voice platform. Only the two
// terminal kinds carry final state worth persisting; everything else is
// acknowledged and dropped.
const (
	EventCallStarted  = "call_started"
	EventCallEnded    = "call_ended"
	EventCallAnalyzed = "call_analyzed"
)

// Envelope is the outer webhook payload: a kind discriminator plus the
// nested call snapshot.
type Envelope struct {
	Event string      `json:"event"`
	Call  CallPayload `json:"call"`
}

// CallPayload mirrors the provider's call object. The cost has shipped under
// two different shapes across provider versions (call_cost.combined_cost in
// hundredths, cost_metadata.total_cost in decimal currency); both are kept
// here and reconciled in one place by callCost.
type CallPayload struct {
	CallID         string        `json:"call_id"`
	AgentID        string        `json:"agent_id"`
	CallStatus     string        `json:"call_status"`
	StartTimestamp int64         `json:"start_timestamp"` // epoch ms
	EndTimestamp   int64         `json:"end_timestamp"`   // epoch ms
	DurationMS     int64         `json:"duration_ms"`
	CallCost       *CallCost     `json:"call_cost,omitempty"`
	CostMetadata   *CostMetadata `json:"cost_metadata,omitempty"`
	RecordingURL   string        `json:"recording_url"`
	Transcript     string        `json:"transcript"`
	CallAnalysis   *CallAnalysis `json:"call_analysis,omitempty"`
}

// CallCost is the newer cost shape; combined_cost is in hundredths of a
// currency unit.
type CallCost struct {
	CombinedCost float64 `json:"combined_cost"`
}

// CostMetadata is the older cost shape; total_cost is already decimal
// currency.
type CostMetadata struct {
	TotalCost float64 `json:"total_cost"`
}

// CallAnalysis carries the post-call analysis fields we keep.
type CallAnalysis struct {
	UserSentiment string `json:"user_sentiment"`
}

// DecodeEnvelope parses a raw webhook body.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// isTerminal reports whether the event kind carries final call state.
func isTerminal(event string) bool {
	return event == EventCallEnded || event == EventCallAnalyzed
}

// toCallRecord translates the loose provider payload into the normalized
// record for the resolved organization. All fallback handling lives here so
// the pipeline itself only sees named fields.
func (p *CallPayload) toCallRecord(organizationID string) *domain.CallRecord {
	status := p.CallStatus
	if status == "" {
		status = domain.CallStatusEnded
	}

	sentiment := domain.SentimentUnknown
	if p.CallAnalysis != nil && p.CallAnalysis.UserSentiment != "" {
		sentiment = p.CallAnalysis.UserSentiment
	}

	return &domain.CallRecord{
		CallID:          p.CallID,
		AgentID:         strings.TrimSpace(p.AgentID),
		OrganizationID:  organizationID,
		Status:          status,
		StartTime:       time.UnixMilli(p.StartTimestamp).UTC(),
		EndTime:         time.UnixMilli(p.EndTimestamp).UTC(),
		DurationSeconds: durationSeconds(p.DurationMS),
		Cost:            callCost(p),
		RecordingURL:    p.RecordingURL,
		Transcript:      p.Transcript,
		Sentiment:       sentiment,
	}
}
