package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VoiceDeskAI/voice-admin-service/internal/domain"
	"github.com/VoiceDeskAI/voice-admin-service/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCallStore implements CallRecordStore in memory with the same conflict
// semantics the Postgres upsert has: full replace, except a zero incoming
// cost keeps a stored non-zero cost.
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

func (s *memCallStore) get(callID string) *domain.CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[callID]
}

func (s *memCallStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type staticResolver struct {
	orgs map[string]string
	err  error
}

func (r *staticResolver) Resolve(_ context.Context, agentID string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	// Mirror the production resolver's trim behavior.
	orgID, ok := r.orgs[strings.TrimSpace(agentID)]
	if !ok {
		return "", resolver.ErrUnknownAgent
	}
	return orgID, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *recordingNotifier) NotifyCallEnded(_ context.Context, record *domain.CallRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, record.CallID)
	return n.err
}

func endedEnvelope(callID, agentID string) *Envelope {
	return &Envelope{
		Event: EventCallEnded,
		Call: CallPayload{
			CallID:         callID,
			AgentID:        agentID,
			CallStatus:     "ended",
			StartTimestamp: 1714000000000,
			EndTimestamp:   1714000125499,
			DurationMS:     125499,
			CallCost:       &CallCost{CombinedCost: 886},
			RecordingURL:   "https://example.com/rec.wav",
			Transcript:     "hi there",
			CallAnalysis:   &CallAnalysis{UserSentiment: "Positive"},
		},
	}
}

func newTestService(store *memCallStore, notifier Notifier) *Service {
	res := &staticResolver{orgs: map[string]string{"agent_abc": "org-1"}}
	return NewService(res, store, notifier)
}

func TestProcessEvent_IgnoresNonTerminalKinds(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	env := endedEnvelope("call_1", "agent_abc")
	env.Event = EventCallStarted

	require.NoError(t, svc.ProcessEvent(context.Background(), env))
	assert.Equal(t, 0, store.count())
}

func TestProcessEvent_StoresNormalizedRecord(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "agent_abc")))

	rec := store.get("call_1")
	require.NotNil(t, rec)
	assert.Equal(t, "org-1", rec.OrganizationID)
	assert.Equal(t, "agent_abc", rec.AgentID)
	assert.Equal(t, int64(125), rec.DurationSeconds)
	assert.Equal(t, 8.86, rec.Cost)
	assert.Equal(t, "Positive", rec.Sentiment)
	assert.Equal(t, time.UnixMilli(1714000000000).UTC(), rec.StartTime)
}

func TestProcessEvent_DefaultsSentimentToUnknown(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	env := endedEnvelope("call_1", "agent_abc")
	env.Call.CallAnalysis = nil

	require.NoError(t, svc.ProcessEvent(context.Background(), env))
	assert.Equal(t, domain.SentimentUnknown, store.get("call_1").Sentiment)
}

func TestProcessEvent_TrimsAgentWhitespace(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "  agent_abc\n")))

	rec := store.get("call_1")
	require.NotNil(t, rec)
	assert.Equal(t, "agent_abc", rec.AgentID)
}

func TestProcessEvent_UnknownAgentAckedWithoutWrite(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "agent_ghost")))
	assert.Equal(t, 0, store.count())
}

func TestProcessEvent_MissingCallIDAcked(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), endedEnvelope("", "agent_abc")))
	assert.Equal(t, 0, store.count())
}

func TestProcessEvent_DuplicateDeliveryIsIdempotent(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)
	env := endedEnvelope("call_1", "agent_abc")

	require.NoError(t, svc.ProcessEvent(context.Background(), env))
	first := *store.get("call_1")

	require.NoError(t, svc.ProcessEvent(context.Background(), env))
	assert.Equal(t, 1, store.count())
	second := store.get("call_1")
	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, first.DurationSeconds, second.DurationSeconds)
}

func TestProcessEvent_ZeroCostDuplicatePreservesStoredCost(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	withCost := endedEnvelope("call_1", "agent_abc")
	withCost.Event = EventCallAnalyzed
	withCost.Call.CallCost = &CallCost{CombinedCost: 1234}
	require.NoError(t, svc.ProcessEvent(context.Background(), withCost))
	require.Equal(t, 12.34, store.get("call_1").Cost)

	stale := endedEnvelope("call_1", "agent_abc")
	stale.Call.CallCost = nil
	stale.Call.CostMetadata = nil
	require.NoError(t, svc.ProcessEvent(context.Background(), stale))

	assert.Equal(t, 1, store.count())
	assert.Equal(t, 12.34, store.get("call_1").Cost)
}

func TestProcessEvent_LaterNonZeroCostReplaces(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	first := endedEnvelope("call_1", "agent_abc")
	first.Call.CallCost = &CallCost{CombinedCost: 500}
	require.NoError(t, svc.ProcessEvent(context.Background(), first))

	analyzed := endedEnvelope("call_1", "agent_abc")
	analyzed.Event = EventCallAnalyzed
	analyzed.Call.CallCost = &CallCost{CombinedCost: 886}
	require.NoError(t, svc.ProcessEvent(context.Background(), analyzed))

	assert.Equal(t, 8.86, store.get("call_1").Cost)
}

func TestProcessEvent_ConcurrentDeliveriesConverge(t *testing.T) {
	store := newMemCallStore()
	svc := newTestService(store, nil)

	costBearing := endedEnvelope("call_1", "agent_abc")
	costBearing.Event = EventCallAnalyzed
	costBearing.Call.CallCost = &CallCost{CombinedCost: 886}

	zeroCost := endedEnvelope("call_1", "agent_abc")
	zeroCost.Call.CallCost = nil
	zeroCost.Call.CostMetadata = nil

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.ProcessEvent(context.Background(), costBearing)
		}()
		go func() {
			defer wg.Done()
			_ = svc.ProcessEvent(context.Background(), zeroCost)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.count())
	assert.Equal(t, 8.86, store.get("call_1").Cost)
}

func TestProcessEvent_StorageFaultPropagates(t *testing.T) {
	store := newMemCallStore()
	store.failAll = true
	svc := newTestService(store, nil)

	err := svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "agent_abc"))
	assert.Error(t, err)
}

func TestProcessEvent_ResolverFaultPropagates(t *testing.T) {
	store := newMemCallStore()
	svc := NewService(&staticResolver{err: errors.New("db down")}, store, nil)

	err := svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "agent_abc"))
	assert.Error(t, err)
	assert.Equal(t, 0, store.count())
}

func TestProcessEvent_NotifierFailureDoesNotFailIngest(t *testing.T) {
	store := newMemCallStore()
	notifier := &recordingNotifier{err: errors.New("redis gone")}
	svc := newTestService(store, notifier)

	require.NoError(t, svc.ProcessEvent(context.Background(), endedEnvelope("call_1", "agent_abc")))
	assert.Equal(t, 1, store.count())
	assert.Equal(t, []string{"call_1"}, notifier.calls)
}

func TestProcessEvent_NotifierSkippedForIgnoredEvents(t *testing.T) {
	store := newMemCallStore()
	notifier := &recordingNotifier{}
	svc := newTestService(store, notifier)

	env := endedEnvelope("call_1", "agent_abc")
	env.Event = "call_started"
	require.NoError(t, svc.ProcessEvent(context.Background(), env))
	assert.Empty(t, notifier.calls)
}
