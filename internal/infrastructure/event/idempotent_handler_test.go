package event

import (
	"context"
	"errors"
	"testing"

	"github.com/clinic/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdempotentHandler_ProcessesFirstDelivery(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), testEvent("FeeRecordGenerated"))

	require.NoError(t, err)
	assert.Len(t, inner.handled, 1)
}

func TestIdempotentHandler_SkipsRedelivery(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := testEvent("FeeRecordGenerated")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	// The same event ID is processed exactly once
	assert.Len(t, inner.handled, 1)
}

func TestIdempotentHandler_DistinctEventsBothProcessed(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), testEvent("FeeRecordGenerated")))
	require.NoError(t, handler.Handle(context.Background(), testEvent("FeeRecordGenerated")))

	assert.Len(t, inner.handled, 2)
}

func TestIdempotentHandler_FailurePropagates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("db down")}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), testEvent("FeeRecordGenerated"))

	assert.Error(t, err)
}

func TestIdempotentHandler_RedeliveryAfterFailureIsProcessed(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("db down")}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := testEvent("FeeRecordGenerated")

	require.Error(t, handler.Handle(context.Background(), event))

	// A failed delivery must not claim the event ID, otherwise an outbox
	// retry or an operator requeue would be skipped as a duplicate
	inner.err = nil
	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Len(t, inner.handled, 1)

	// The successful run claims it; further redeliveries are duplicates
	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Len(t, inner.handled, 1)
}

func TestIdempotentHandler_DelegatesEventTypes(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"FeeRecordGenerated", "FeeGenerationFailed"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	assert.Equal(t, inner.types, handler.EventTypes())
}
