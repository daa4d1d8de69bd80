package clinical

import (
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCount(t *testing.T, general, insured int) *DailyPatientCount {
	t.Helper()
	count, err := NewDailyPatientCount(
		DepartmentGeneral,
		ShiftMorning,
		uuid.New(),
		time.Date(2025, 3, 9, 16, 45, 0, 0, time.UTC),
		general, insured,
		uuid.New(),
		testNow,
	)
	require.NoError(t, err)
	return count
}

func TestNewDailyPatientCount(t *testing.T) {
	t.Run("creates pending count", func(t *testing.T) {
		count := newTestCount(t, 12, 6)
		assert.Equal(t, validation.StatusPending, count.Status())
		assert.Equal(t, 18, count.TotalCount())
	})

	t.Run("count date is normalized to midnight", func(t *testing.T) {
		count := newTestCount(t, 1, 0)
		assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), count.CountDate)
	})

	t.Run("zero counts are allowed", func(t *testing.T) {
		count := newTestCount(t, 0, 0)
		assert.Equal(t, 0, count.TotalCount())
	})

	t.Run("negative counts are refused", func(t *testing.T) {
		_, err := NewDailyPatientCount(DepartmentGeneral, ShiftMorning, uuid.New(), testNow, -1, 0, uuid.New(), testNow)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COUNT", domainErr.Code)
	})

	t.Run("requires physician", func(t *testing.T) {
		_, err := NewDailyPatientCount(DepartmentGeneral, ShiftMorning, uuid.Nil, testNow, 5, 0, uuid.New(), testNow)
		require.Error(t, err)
	})
}

func TestDailyPatientCount_Approve(t *testing.T) {
	validator := uuid.New()

	count := newTestCount(t, 12, 6)
	count.ClearDomainEvents()

	require.NoError(t, count.Approve(validator, "", testNow))
	assert.True(t, count.IsApproved())

	events := count.GetDomainEvents()
	require.Len(t, events, 1)
	approved, ok := events[0].(*DailyPatientCountApprovedEvent)
	require.True(t, ok)
	assert.Equal(t, 12, approved.GeneralCount)
	assert.Equal(t, 6, approved.InsuredCount)
	assert.Equal(t, validator, approved.ApprovedBy)
}

func TestDailyPatientCount_RevertCycle(t *testing.T) {
	validator := uuid.New()

	count := newTestCount(t, 12, 6)
	require.NoError(t, count.Approve(validator, "", testNow))
	require.NoError(t, count.Revert(validator, testNow.Add(time.Hour)))
	assert.Equal(t, validation.StatusPending, count.Status())

	// The corrected count goes through review again.
	count.GeneralCount = 10
	require.NoError(t, count.Approve(validator, "angka sudah dikoreksi", testNow.Add(2*time.Hour)))
	assert.True(t, count.IsApproved())
	assert.Equal(t, 16, count.TotalCount())
}
