package finance

import (
	"context"

	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFinancialEntryRepository is a mock implementation of finance.FinancialEntryRepository
type MockFinancialEntryRepository struct {
	mock.Mock
}

func (m *MockFinancialEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindByEntryNumber(ctx context.Context, entryNumber string) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindAll(ctx context.Context, filter finance.FinancialEntryFilter) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindPending(ctx context.Context) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFinancialEntryRepository) Count(ctx context.Context, filter finance.FinancialEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinancialEntryRepository) GenerateEntryNumber(ctx context.Context, entryType finance.EntryType) (string, error) {
	args := m.Called(ctx, entryType)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
