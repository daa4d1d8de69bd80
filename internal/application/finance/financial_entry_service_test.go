package finance

import (
	"context"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestEntryService() (*FinancialEntryService, *MockFinancialEntryRepository, *MockEventPublisher) {
	entryRepo := new(MockFinancialEntryRepository)
	publisher := new(MockEventPublisher)
	service := NewFinancialEntryService(entryRepo, publisher, shared.NewFixedClock(testNow), zap.NewNop())
	return service, entryRepo, publisher
}

func pendingEntry(t *testing.T) *finance.FinancialEntry {
	t.Helper()
	entry, err := finance.NewFinancialEntry(
		"REV-202503-00004",
		finance.EntryTypeRevenue,
		finance.CategoryConsultation,
		valueobject.NewMoneyIDR(decimal.NewFromInt(350000)),
		"Pendapatan konsultasi pagi",
		testNow,
		uuid.New(),
		testNow,
	)
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestFinancialEntryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending entry with generated number", func(t *testing.T) {
		service, entryRepo, publisher := newTestEntryService()
		creator := uuid.New()

		entryRepo.On("GenerateEntryNumber", ctx, finance.EntryTypeRevenue).Return("REV-202503-00007", nil)
		var saved *finance.FinancialEntry
		entryRepo.On("Save", ctx, mock.AnythingOfType("*finance.FinancialEntry")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*finance.FinancialEntry)
		}).Return(nil)
		var published []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			published = args.Get(1).([]shared.DomainEvent)
		}).Return(nil)

		resp, err := service.Create(ctx, CreateFinancialEntryRequest{
			Type:      "REVENUE",
			Category:  "CONSULTATION",
			Amount:    decimal.NewFromInt(350000),
			Note:      "Konsultasi dr. Agus",
			EntryDate: testNow,
			CreatedBy: creator,
		})
		require.NoError(t, err)

		assert.Equal(t, "REV-202503-00007", resp.EntryNumber)
		assert.Equal(t, "PENDING", resp.Status)
		require.NotNil(t, saved)
		assert.Empty(t, saved.GetDomainEvents(), "events must be drained before save")
		require.Len(t, published, 1)
		assert.Equal(t, finance.EventTypeFinancialEntryCreated, published[0].EventType())
	})

	t.Run("rejects unknown entry type without saving", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		entryRepo.On("GenerateEntryNumber", ctx, finance.EntryType("GIFT")).Return("REV-202503-00008", nil)

		_, err := service.Create(ctx, CreateFinancialEntryRequest{
			Type:      "GIFT",
			Category:  "CONSULTATION",
			Amount:    decimal.NewFromInt(1000),
			EntryDate: testNow,
			CreatedBy: uuid.New(),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ENTRY_TYPE", domainErr.Code)
		entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestFinancialEntryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates a pending entry", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		entry := pendingEntry(t)

		entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		entryRepo.On("Save", ctx, entry).Return(nil)

		resp, err := service.Update(ctx, entry.ID, UpdateFinancialEntryRequest{
			Category:  "PHARMACY",
			Amount:    decimal.NewFromInt(125000),
			Note:      "Penjualan obat racikan",
			EntryDate: testNow,
		})
		require.NoError(t, err)
		assert.Equal(t, "PHARMACY", resp.Category)
		assert.True(t, decimal.NewFromInt(125000).Equal(resp.Amount))
	})

	t.Run("refuses to update an approved entry", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		entry := pendingEntry(t)
		require.NoError(t, entry.Approve(uuid.New(), "", testNow))
		entry.ClearDomainEvents()

		entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)

		_, err := service.Update(ctx, entry.ID, UpdateFinancialEntryRequest{
			Category:  "PHARMACY",
			Amount:    decimal.NewFromInt(125000),
			EntryDate: testNow,
		})
		require.Error(t, err)
		entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown entry id", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		id := uuid.New()
		entryRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.Update(ctx, id, UpdateFinancialEntryRequest{
			Category:  "PHARMACY",
			Amount:    decimal.NewFromInt(125000),
			EntryDate: testNow,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestFinancialEntryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes a pending entry", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		entry := pendingEntry(t)

		entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		entryRepo.On("Save", ctx, entry).Return(nil)

		require.NoError(t, service.Delete(ctx, entry.ID))
		assert.NotNil(t, entry.DeletedAt)
	})

	t.Run("refuses to delete a validated entry", func(t *testing.T) {
		service, entryRepo, _ := newTestEntryService()
		entry := pendingEntry(t)
		require.NoError(t, entry.Reject(uuid.New(), "nota tidak ada", testNow))
		entry.ClearDomainEvents()

		entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)

		err := service.Delete(ctx, entry.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE_TRANSITION", domainErr.Code)
		entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestFinancialEntryService_List(t *testing.T) {
	ctx := context.Background()
	service, entryRepo, _ := newTestEntryService()

	status := validation.StatusPending
	entries := []finance.FinancialEntry{*pendingEntry(t), *pendingEntry(t)}
	entryRepo.On("FindAll", ctx, mock.AnythingOfType("finance.FinancialEntryFilter")).Return(entries, nil)
	entryRepo.On("Count", ctx, mock.AnythingOfType("finance.FinancialEntryFilter")).Return(int64(2), nil)

	responses, total, err := service.List(ctx, FinancialEntryListFilter{Status: &status, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, responses, 2)
	assert.Equal(t, "PENDING", responses[0].Status)
}
