package fee

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFormulaRepository is a mock implementation of fee.FormulaRepository
type MockFormulaRepository struct {
	mock.Mock
}

func (m *MockFormulaRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Formula, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Formula), args.Error(1)
}

func (m *MockFormulaRepository) FindActive(ctx context.Context, department clinical.Department, shift clinical.Shift, basis fee.Basis) ([]fee.Formula, error) {
	args := m.Called(ctx, department, shift, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.Formula), args.Error(1)
}

func (m *MockFormulaRepository) FindAll(ctx context.Context) ([]fee.Formula, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.Formula), args.Error(1)
}

func (m *MockFormulaRepository) Save(ctx context.Context, formula *fee.Formula) error {
	args := m.Called(ctx, formula)
	return args.Error(0)
}

func (m *MockFormulaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of fee.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (*fee.Record, error) {
	args := m.Called(ctx, beneficiaryID, serviceDate, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Record), args.Error(1)
}

func (m *MockRecordRepository) FindBySource(ctx context.Context, sourceID uuid.UUID) ([]fee.Record, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.Record), args.Error(1)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, filter fee.RecordFilter) ([]fee.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.Record), args.Error(1)
}

func (m *MockRecordRepository) ExistsByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (bool, error) {
	args := m.Called(ctx, beneficiaryID, serviceDate, basis)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) CreateIfAbsent(ctx context.Context, record *fee.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Save(ctx context.Context, record *fee.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Count(ctx context.Context, filter fee.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
