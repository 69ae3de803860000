// Package ingest is the call-event webhook pipeline: it filters lifecycle
// events down to the terminal ones, resolves the owning organization,
// normalizes cost and duration, and writes exactly one call record per
// call_id. Events may arrive duplicated or out of order; the cost-preserving
// upsert in the store makes the outcome converge regardless.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/resolver"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	"go.uber.org/zap"
)

// CallRecordStore is the slice of the call record repository the pipeline
// writes through.
type CallRecordStore interface {
	UpsertPreservingCost(ctx context.Context, record *domain.CallRecord) error
}

// Notifier fans out call-ended notifications after a successful write.
// Implementations must be best-effort; a notification failure never fails
// the ingest.
type Notifier interface {
	NotifyCallEnded(ctx context.Context, record *domain.CallRecord) error
}

// Service processes inbound lifecycle events.
type Service struct {
	resolver resolver.Resolver
	calls    CallRecordStore
	notifier Notifier // optional
}

// NewService creates an ingestion pipeline. notifier may be nil.
func NewService(res resolver.Resolver, calls CallRecordStore, notifier Notifier) *Service {
	return &Service{
		resolver: res,
		calls:    calls,
		notifier: notifier,
	}
}

// ProcessEvent handles one lifecycle event. A nil return means the sender
// must be acknowledged (including ignored kinds and unknown agents — the
// sender would otherwise keep retrying an event we will never use). A non-nil
// return means a storage fault: the only case where the sender should retry.
func (s *Service) ProcessEvent(ctx context.Context, env *Envelope) error {
	if !isTerminal(env.Event) {
		logger.Base().Debug("ignoring non-terminal event",
			zap.String("event", env.Event),
			zap.String("call_id", env.Call.CallID))
		return nil
	}

	if env.Call.CallID == "" {
		logger.Base().Warn("terminal event without call_id, dropping",
			zap.String("event", env.Event))
		return nil
	}

	organizationID, err := s.resolver.Resolve(ctx, env.Call.AgentID)
	if err != nil {
		if errors.Is(err, resolver.ErrUnknownAgent) {
			// Orphaned call, e.g. a deprovisioned or test agent. Ack so the
			// sender stops retrying, but write nothing.
			logger.Base().Warn("dropping event for unknown agent",
				zap.String("event", env.Event),
				zap.String("call_id", env.Call.CallID),
				zap.String("agent_id", env.Call.AgentID))
			return nil
		}
		return fmt.Errorf("tenant resolution failed: %w", err)
	}

	record := env.Call.toCallRecord(organizationID)
	if err := s.calls.UpsertPreservingCost(ctx, record); err != nil {
		return fmt.Errorf("failed to store call record: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyCallEnded(ctx, record); err != nil {
			logger.Base().Warn("call-ended notification failed",
				zap.String("call_id", record.CallID),
				zap.Error(err))
		}
	}

	logger.Base().Info("call record stored",
		zap.String("event", env.Event),
		zap.String("call_id", record.CallID),
		zap.String("organization_id", record.OrganizationID),
		zap.Int64("duration_seconds", record.DurationSeconds),
		zap.Float64("cost", record.Cost))
	return nil
}
