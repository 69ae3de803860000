// Package booking handles the mid-call appointment tool callback. The caller
// is the voice platform's reasoning engine, which relays the Result string to
// the end user, so every outcome (including every failure) must come back as
// a sentence that is safe to speak aloud.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/resolver"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	"go.uber.org/zap"
)

// Request is the tool-invocation payload sent by the reasoning engine.
type Request struct {
	AgentID string `json:"agent_id"`
	CallID  string `json:"call_id"`
	Args    Args   `json:"args"`
}

// Args carries the fields the agent extracted from the conversation.
type Args struct {
	CustomerName    string `json:"customer_name"`
	AppointmentTime string `json:"appointment_time"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
}

// Result is returned to the reasoning engine. Failures are expressed through
// the Result text, never through an HTTP status, because the caller cannot
// branch on status codes.
type Result struct {
	Result string `json:"result"`
}

// Spoken-safe outcome messages.
const (
	msgMissingAgent = "I could not verify which assistant is making this request, so the appointment was not booked."
	msgUnknownAgent = "This assistant is not registered with the scheduling system, so the appointment was not booked."
	msgSystemDown   = "The scheduling system is unavailable right now. Please ask the caller to try again later."
)

// AppointmentStore is the slice of the appointment repository the service
// writes through.
type AppointmentStore interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
}

// Service books appointments on behalf of agents.
type Service struct {
	resolver     resolver.Resolver
	appointments AppointmentStore
}

// NewService creates a booking service.
func NewService(res resolver.Resolver, appointments AppointmentStore) *Service {
	return &Service{
		resolver:     res,
		appointments: appointments,
	}
}

// BookAppointment validates the request, resolves the owning organization and
// inserts one appointment row. Retried invocations insert again: the platform
// offers at-least-once tool semantics and this service does not deduplicate
// by call ID.
func (s *Service) BookAppointment(ctx context.Context, req *Request) Result {
	agentID := strings.TrimSpace(req.AgentID)
	if agentID == "" {
		logger.Base().Warn("booking request without agent_id",
			zap.String("call_id", req.CallID))
		return Result{Result: msgMissingAgent}
	}

	if msg, ok := missingFieldsMessage(&req.Args); ok {
		logger.Base().Info("booking request with missing fields",
			zap.String("agent_id", agentID),
			zap.String("call_id", req.CallID))
		return Result{Result: msg}
	}

	organizationID, err := s.resolver.Resolve(ctx, agentID)
	if err != nil {
		if errors.Is(err, resolver.ErrUnknownAgent) {
			logger.Base().Warn("booking request from unknown agent",
				zap.String("agent_id", agentID),
				zap.String("call_id", req.CallID))
			return Result{Result: msgUnknownAgent}
		}
		logger.Base().Error("tenant resolution failed for booking",
			zap.String("agent_id", agentID),
			zap.Error(err))
		return Result{Result: msgSystemDown}
	}

	appointment := &domain.Appointment{
		OrganizationID:  organizationID,
		AgentID:         agentID,
		CustomerName:    req.Args.CustomerName,
		CustomerPhone:   req.Args.CustomerPhone,
		AppointmentTime: req.Args.AppointmentTime,
		ExternalCallID:  req.CallID,
		Status:          domain.AppointmentStatusConfirmed,
		Summary:         fmt.Sprintf("Booked by voice agent for %s at %s.", req.Args.CustomerName, req.Args.AppointmentTime),
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		logger.Base().Error("failed to store appointment",
			zap.String("agent_id", agentID),
			zap.String("call_id", req.CallID),
			zap.Error(err))
		return Result{Result: msgSystemDown}
	}

	logger.Base().Info("appointment booked",
		zap.String("organization_id", organizationID),
		zap.String("agent_id", agentID),
		zap.String("call_id", req.CallID))

	return Result{Result: fmt.Sprintf(
		"Done. The appointment for %s at %s is confirmed. Let the caller know everything is set.",
		req.Args.CustomerName, req.Args.AppointmentTime)}
}

// missingFieldsMessage names the specific required fields the request lacks,
// so the reasoning engine can ask the caller for exactly those.
func missingFieldsMessage(args *Args) (string, bool) {
	var missing []string
	if strings.TrimSpace(args.CustomerName) == "" {
		missing = append(missing, "the customer's name")
	}
	if strings.TrimSpace(args.AppointmentTime) == "" {
		missing = append(missing, "the appointment time")
	}
	if len(missing) == 0 {
		return "", false
	}
	return fmt.Sprintf("I still need %s before I can book the appointment. Please ask the caller for it.",
		strings.Join(missing, " and ")), true
}
