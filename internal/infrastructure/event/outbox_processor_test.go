package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newFakeOutboxRepository() *fakeOutboxRepository {
	return &fakeOutboxRepository{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && e.NextRetryAt.Before(before) {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id], nil
}

func (r *fakeOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *fakeOutboxRepository) get(id uuid.UUID) *shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

// forceRetryDue pulls the entry's next retry time into the past so the
// tests do not have to wait out the backoff.
func (r *fakeOutboxRepository) forceRetryDue(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok && e.NextRetryAt != nil {
		past := time.Now().Add(-time.Minute)
		e.NextRetryAt = &past
	}
}

func newProcessorFixture(t *testing.T, handler shared.EventHandler) (*OutboxProcessor, *fakeOutboxRepository, *shared.OutboxEntry) {
	t.Helper()
	serializer := NewEventSerializer()
	serializer.Register("FeeRecordGenerated", &shared.BaseDomainEvent{})

	repo := newFakeOutboxRepository()
	bus := NewInMemoryEventBus(zap.NewNop())
	if handler != nil {
		bus.Subscribe(handler, "FeeRecordGenerated")
	}

	event := testEvent("FeeRecordGenerated")
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))

	config := OutboxProcessorConfig{BatchSize: 10, PollInterval: 50 * time.Millisecond}
	return NewOutboxProcessor(repo, bus, serializer, config, zap.NewNop()), repo, entry
}

func TestOutboxProcessor_DeliversPendingEntry(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	processor, repo, entry := newProcessorFixture(t, handler)

	processor.processBatch(context.Background())

	require.Len(t, handler.handled, 1)
	stored := repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	require.NotNil(t, stored.ProcessedAt)
	assert.Zero(t, stored.RetryCount)
}

func TestOutboxProcessor_TransientHandlerFailureEntersRetryQueue(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("connection refused")}
	processor, repo, entry := newProcessorFixture(t, handler)

	processor.processBatch(context.Background())

	// The handler failed, so the entry must not be marked sent
	stored := repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "connection refused")
	require.NotNil(t, stored.NextRetryAt)
	assert.True(t, stored.NextRetryAt.After(time.Now()))
}

func TestOutboxProcessor_RecoversOnRetry(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("connection refused")}
	processor, repo, entry := newProcessorFixture(t, handler)

	processor.processBatch(context.Background())
	require.Equal(t, shared.OutboxStatusFailed, repo.get(entry.ID).Status)

	handler.err = nil
	repo.forceRetryDue(entry.ID)
	processor.processBatch(context.Background())

	assert.Equal(t, shared.OutboxStatusSent, repo.get(entry.ID).Status)
	assert.Len(t, handler.handled, 1)
}

func TestOutboxProcessor_ExhaustedRetriesMoveEntryToDeadLetter(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("connection refused")}
	processor, repo, entry := newProcessorFixture(t, handler)

	for i := 0; i < shared.DefaultMaxRetries; i++ {
		processor.processBatch(context.Background())
		repo.forceRetryDue(entry.ID)
	}

	stored := repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
	assert.Equal(t, shared.DefaultMaxRetries, stored.RetryCount)

	// Dead entries surface in the operator queue and can be requeued
	dead, total, err := repo.FindDead(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dead, 1)
	require.NoError(t, dead[0].ResetForRetry())
	assert.Equal(t, shared.OutboxStatusPending, dead[0].Status)
}

func TestOutboxProcessor_DeserializationFailureDoesNotReachBus(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	processor, repo, entry := newProcessorFixture(t, handler)
	entry.EventType = "UnknownEventType"
	require.NoError(t, repo.Update(context.Background(), entry))

	processor.processBatch(context.Background())

	assert.Empty(t, handler.handled)
	stored := repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "unknown event type")
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	processor, repo, entry := newProcessorFixture(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, processor.Start(ctx))

	assert.Eventually(t, func() bool {
		return repo.get(entry.ID).Status == shared.OutboxStatusSent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, processor.Stop(stopCtx))
}
