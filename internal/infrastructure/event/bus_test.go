package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type recordingHandler struct {
	types   []string
	handled []shared.DomainEvent
	err     error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.err != nil {
		return h.err
	}
	h.handled = append(h.handled, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), testNow)
	return &e
}

func TestInMemoryEventBus_PublishToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), testEvent("FeeRecordGenerated"))

	require.NoError(t, err)
	require.Len(t, handler.handled, 1)
	assert.Equal(t, "FeeRecordGenerated", handler.handled[0].EventType())
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), testEvent("FinancialEntryApproved"))

	require.NoError(t, err)
	assert.Empty(t, handler.handled)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: nil}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		testEvent("FeeRecordGenerated"),
		testEvent("FinancialEntryApproved"),
	)

	require.NoError(t, err)
	assert.Len(t, handler.handled, 2)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), testEvent("FeeRecordGenerated"))

	require.NoError(t, err)
	assert.Len(t, healthy.handled, 1)
}

func TestInMemoryEventBus_DispatchReportsHandlerFailure(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"FeeRecordGenerated"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Dispatch(context.Background(), testEvent("FeeRecordGenerated"))

	// The failure surfaces to the caller but does not starve other handlers
	require.Error(t, err)
	assert.Len(t, healthy.handled, 1)
}

func TestInMemoryEventBus_DispatchRecoversPanicAsError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(&panickingHandler{types: []string{"FeeRecordGenerated"}})

	err := bus.Dispatch(context.Background(), testEvent("FeeRecordGenerated"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic")
}

type panickingHandler struct {
	types []string
}

func (h *panickingHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("unexpected nil formula")
}

func (h *panickingHandler) EventTypes() []string {
	return h.types
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"FeeRecordGenerated"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), testEvent("FeeRecordGenerated"))

	require.NoError(t, err)
	assert.Empty(t, handler.handled)
}
