package event

import (
	"testing"

	"github.com/clinic/backend/internal/domain/fee"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializer_RoundTripFeeEvent(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	original := fee.NewGenerationFailedEvent(
		uuid.New(), "ProcedureRecord", uuid.New(), "no qualifying formula data", testNow)

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(fee.EventTypeGenerationFailed, data)
	require.NoError(t, err)

	failed, ok := restored.(*fee.GenerationFailedEvent)
	require.True(t, ok)
	assert.Equal(t, original.SourceID, failed.SourceID)
	assert.Equal(t, original.SourceType, failed.SourceType)
	assert.Equal(t, original.Reason, failed.Reason)
}

func TestSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("NeverRegistered", []byte(`{}`))

	assert.Error(t, err)
}

func TestRegisterAllEvents_CoversFeePipeline(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	for _, eventType := range []string{
		"FinancialEntryApproved",
		"ProcedureRecordApproved",
		"DailyPatientCountApproved",
		"ProcedureRecordReverted",
		"DailyPatientCountReverted",
		"FeeRecordGenerated",
		"FeeRecordFlagged",
		"FeeGenerationFailed",
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}
