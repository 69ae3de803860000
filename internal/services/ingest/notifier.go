package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/redis"
)

// callEndedMessage is the compact notification published for dashboard
// consumers. It intentionally omits the transcript.
type callEndedMessage struct {
	CallID          string  `json:"call_id"`
	OrganizationID  string  `json:"organization_id"`
	AgentID         string  `json:"agent_id"`
	Status          string  `json:"status"`
	DurationSeconds int64   `json:"duration_seconds"`
	Cost            float64 `json:"cost"`
}

// RedisNotifier publishes call-ended notifications on the shared call events
// channel.
type RedisNotifier struct {
	redis redis.RedisServiceInterface
}

// NewRedisNotifier creates a notifier backed by the Redis service.
func NewRedisNotifier(svc redis.RedisServiceInterface) *RedisNotifier {
	return &RedisNotifier{redis: svc}
}

// NotifyCallEnded implements Notifier.
func (n *RedisNotifier) NotifyCallEnded(ctx context.Context, record *domain.CallRecord) error {
	msg := callEndedMessage{
		CallID:          record.CallID,
		OrganizationID:  record.OrganizationID,
		AgentID:         record.AgentID,
		Status:          record.Status,
		DurationSeconds: record.DurationSeconds,
		Cost:            record.Cost,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal call-ended message: %w", err)
	}

	return n.redis.Publish(ctx, redis.CallEventsChannel, string(payload))
}
