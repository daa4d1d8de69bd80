package fee

import (
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(t *testing.T) *Record {
	t.Helper()
	record, err := NewAutoApprovedRecord(
		uuid.New(),
		time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC),
		clinical.ShiftMorning,
		BasisDailyCount,
		idr(60000),
		"Jaspel poli umum shift pagi",
		uuid.New(), uuid.New(), uuid.New(),
		testNow,
	)
	require.NoError(t, err)
	return record
}

func TestNewAutoApprovedRecord(t *testing.T) {
	t.Run("record is born approved", func(t *testing.T) {
		record := newTestRecord(t)

		assert.Equal(t, validation.StatusApproved, record.Status())
		assert.NotNil(t, record.Validation.ValidatedBy)
		assert.NotNil(t, record.Validation.ValidatedAt)

		events := record.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRecordGenerated, events[0].EventType())
	})

	t.Run("service date is normalized to midnight", func(t *testing.T) {
		record := newTestRecord(t)
		assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), record.ServiceDate)
	})

	tests := []struct {
		name   string
		mutate func(beneficiary, source, approver *uuid.UUID)
	}{
		{"nil beneficiary", func(b, s, a *uuid.UUID) { *b = uuid.Nil }},
		{"nil source", func(b, s, a *uuid.UUID) { *s = uuid.Nil }},
		{"nil approver", func(b, s, a *uuid.UUID) { *a = uuid.Nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beneficiary, source, approver := uuid.New(), uuid.New(), uuid.New()
			tt.mutate(&beneficiary, &source, &approver)

			_, err := NewAutoApprovedRecord(
				beneficiary, testNow, clinical.ShiftMorning, BasisDailyCount,
				idr(60000), "", source, uuid.New(), approver, testNow,
			)
			require.Error(t, err)
		})
	}

	t.Run("negative amount is refused", func(t *testing.T) {
		_, err := NewAutoApprovedRecord(
			uuid.New(), testNow, clinical.ShiftMorning, BasisDailyCount,
			idr(-1), "", uuid.New(), uuid.New(), uuid.New(), testNow,
		)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})
}

func TestRecord_FlagForReview(t *testing.T) {
	actor := uuid.New()

	t.Run("flags approved record back to pending", func(t *testing.T) {
		record := newTestRecord(t)
		record.ClearDomainEvents()

		err := record.FlagForReview(actor, testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, validation.StatusPending, record.Status())
		assert.Nil(t, record.Validation.ValidatedBy)

		events := record.GetDomainEvents()
		require.Len(t, events, 1)
		flagged, ok := events[0].(*RecordFlaggedEvent)
		require.True(t, ok)
		assert.Equal(t, validation.StatusApproved, flagged.FromStatus)
		assert.Equal(t, actor, flagged.FlaggedBy)
	})

	t.Run("cannot flag a pending record twice", func(t *testing.T) {
		record := newTestRecord(t)
		require.NoError(t, record.FlagForReview(actor, testNow))
		require.Error(t, record.FlagForReview(actor, testNow))
	})

	t.Run("requires actor", func(t *testing.T) {
		record := newTestRecord(t)
		require.Error(t, record.FlagForReview(uuid.Nil, testNow))
	})
}

func TestRecord_Approve(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.FlagForReview(uuid.New(), testNow))

	validator := uuid.New()
	err := record.Approve(validator, "rechecked against the revised count", testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, validation.StatusApproved, record.Status())
	assert.Equal(t, validator, *record.Validation.ValidatedBy)
}
