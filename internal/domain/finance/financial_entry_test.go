package finance

import (
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func money(v int64) valueobject.Money {
	return valueobject.NewMoneyIDRFromInt(v)
}

func newTestEntry(t *testing.T) *FinancialEntry {
	t.Helper()
	entry, err := NewFinancialEntry(
		"FIN-2025-03-0001",
		EntryTypeRevenue,
		CategoryConsultation,
		money(350000),
		"Pendapatan konsultasi pagi",
		testNow,
		uuid.New(),
		testNow,
	)
	require.NoError(t, err)
	return entry
}

func TestNewFinancialEntry(t *testing.T) {
	t.Run("creates pending entry", func(t *testing.T) {
		entry := newTestEntry(t)

		assert.Equal(t, validation.StatusPending, entry.Status())
		assert.True(t, entry.IsPending())
		assert.True(t, decimal.NewFromInt(350000).Equal(entry.Amount))

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeFinancialEntryCreated, events[0].EventType())
	})

	tests := []struct {
		name        string
		entryNumber string
		entryType   EntryType
		category    EntryCategory
		amount      valueobject.Money
		note        string
		createdBy   uuid.UUID
		wantCode    string
	}{
		{"empty entry number", "", EntryTypeRevenue, CategoryConsultation, money(1000), "", uuid.New(), "INVALID_ENTRY_NUMBER"},
		{"invalid type", "FIN-1", EntryType("GIFT"), CategoryConsultation, money(1000), "", uuid.New(), "INVALID_ENTRY_TYPE"},
		{"invalid category", "FIN-1", EntryTypeExpense, EntryCategory("X"), money(1000), "", uuid.New(), "INVALID_CATEGORY"},
		{"negative amount", "FIN-1", EntryTypeExpense, CategorySalary, valueobject.NewMoneyIDR(decimal.NewFromInt(-1)), "", uuid.New(), "INVALID_AMOUNT"},
		{"nil creator", "FIN-1", EntryTypeRevenue, CategoryConsultation, money(1000), "", uuid.Nil, "INVALID_USER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFinancialEntry(tt.entryNumber, tt.entryType, tt.category, tt.amount, tt.note, testNow, tt.createdBy, testNow)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantCode)
		})
	}

	t.Run("zero amount is allowed", func(t *testing.T) {
		_, err := NewFinancialEntry("FIN-1", EntryTypeExpense, CategoryOther, money(0), "write-off", testNow, uuid.New(), testNow)
		require.NoError(t, err)
	})
}

func TestFinancialEntry_Approve(t *testing.T) {
	validator := uuid.New()

	t.Run("approves pending entry", func(t *testing.T) {
		entry := newTestEntry(t)
		entry.ClearDomainEvents()

		err := entry.Approve(validator, "", testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, entry.IsApproved())

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeFinancialEntryApproved, events[0].EventType())
	})

	t.Run("double approval fails", func(t *testing.T) {
		entry := newTestEntry(t)
		require.NoError(t, entry.Approve(validator, "", testNow))

		err := entry.Approve(validator, "", testNow)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE_TRANSITION", domainErr.Code)
	})
}

func TestFinancialEntry_Reject(t *testing.T) {
	validator := uuid.New()

	t.Run("reject requires comment", func(t *testing.T) {
		entry := newTestEntry(t)
		require.ErrorIs(t, entry.Reject(validator, "", testNow), shared.ErrMissingComment)
		assert.True(t, entry.IsPending())
	})

	t.Run("rejects with comment", func(t *testing.T) {
		entry := newTestEntry(t)
		entry.ClearDomainEvents()

		require.NoError(t, entry.Reject(validator, "nominal tidak sesuai kwitansi", testNow))
		assert.True(t, entry.IsRejected())
		assert.Equal(t, "nominal tidak sesuai kwitansi", entry.Validation.Comment)

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeFinancialEntryRejected, events[0].EventType())
	})
}

func TestFinancialEntry_Revert(t *testing.T) {
	validator := uuid.New()
	actor := uuid.New()

	t.Run("reverts approved entry to pending", func(t *testing.T) {
		entry := newTestEntry(t)
		require.NoError(t, entry.Approve(validator, "", testNow))
		entry.ClearDomainEvents()

		require.NoError(t, entry.Revert(actor, testNow.Add(time.Hour)))
		assert.True(t, entry.IsPending())
		assert.Nil(t, entry.Validation.ValidatedBy)

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		reverted, ok := events[0].(*FinancialEntryRevertedEvent)
		require.True(t, ok)
		assert.Equal(t, validation.StatusApproved, reverted.FromStatus)
	})

	t.Run("cannot revert pending entry", func(t *testing.T) {
		entry := newTestEntry(t)
		require.Error(t, entry.Revert(actor, testNow))
	})
}

func TestFinancialEntry_Update(t *testing.T) {
	t.Run("updates pending entry", func(t *testing.T) {
		entry := newTestEntry(t)
		err := entry.Update(CategoryPharmacy, money(420000), "revisi nota", testNow, testNow.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, CategoryPharmacy, entry.Category)
		assert.True(t, decimal.NewFromInt(420000).Equal(entry.Amount))
	})

	t.Run("approved entry is frozen", func(t *testing.T) {
		entry := newTestEntry(t)
		require.NoError(t, entry.Approve(uuid.New(), "", testNow))

		err := entry.Update(CategoryPharmacy, money(420000), "", testNow, testNow)
		require.Error(t, err)
	})
}

func TestFinancialEntry_SoftDelete(t *testing.T) {
	entry := newTestEntry(t)
	require.Nil(t, entry.DeletedAt)

	entry.SoftDelete(testNow)
	require.NotNil(t, entry.DeletedAt)
	assert.Equal(t, testNow, *entry.DeletedAt)
}
