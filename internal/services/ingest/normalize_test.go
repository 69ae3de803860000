package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want int64
	}{
		{name: "zero", ms: 0, want: 0},
		{name: "negative degrades to zero", ms: -500, want: 0},
		{name: "exact second", ms: 1000, want: 1},
		{name: "rounds down below half", ms: 125499, want: 125},
		{name: "rounds up at half", ms: 125500, want: 126},
		{name: "sub-second rounds up", ms: 700, want: 1},
		{name: "sub-second rounds down", ms: 499, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, durationSeconds(tt.ms))
		})
	}
}

func TestCallCost(t *testing.T) {
	tests := []struct {
		name    string
		payload CallPayload
		want    float64
	}{
		{
			name:    "combined cost in hundredths",
			payload: CallPayload{CallCost: &CallCost{CombinedCost: 886}},
			want:    8.86,
		},
		{
			name:    "total cost already decimal",
			payload: CallPayload{CostMetadata: &CostMetadata{TotalCost: 1.23}},
			want:    1.23,
		},
		{
			name:    "combined cost wins when both present",
			payload: CallPayload{CallCost: &CallCost{CombinedCost: 886}, CostMetadata: &CostMetadata{TotalCost: 1.23}},
			want:    8.86,
		},
		{
			name:    "absent cost degrades to zero",
			payload: CallPayload{},
			want:    0,
		},
		{
			name:    "negative cost degrades to zero",
			payload: CallPayload{CallCost: &CallCost{CombinedCost: -50}},
			want:    0,
		},
		{
			name:    "zero combined cost stays zero",
			payload: CallPayload{CallCost: &CallCost{CombinedCost: 0}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, callCost(&tt.payload))
		})
	}
}

func TestDecodeEnvelope_TolerantOfUnknownFields(t *testing.T) {
	body := []byte(`{
		"event": "call_ended",
		"call": {
			"call_id": "call_123",
			"agent_id": "agent_abc",
			"call_status": "ended",
			"start_timestamp": 1714000000000,
			"end_timestamp": 1714000125499,
			"duration_ms": 125499,
			"call_cost": {"combined_cost": 886, "product_costs": [{"product": "tts", "cost": 300}]},
			"recording_url": "https://example.com/rec.wav",
			"transcript": "hello",
			"call_analysis": {"user_sentiment": "Positive", "call_successful": true},
			"some_future_field": {"x": 1}
		}
	}`)

	env, err := DecodeEnvelope(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	assert.Equal(t, EventCallEnded, env.Event)
	assert.Equal(t, "call_123", env.Call.CallID)
	assert.Equal(t, "Positive", env.Call.CallAnalysis.UserSentiment)
	assert.Equal(t, 8.86, callCost(&env.Call))
	assert.Equal(t, int64(125), durationSeconds(env.Call.DurationMS))
}
