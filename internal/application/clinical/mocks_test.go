package clinical

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProcedureRecordRepository is a mock implementation of clinical.ProcedureRecordRepository
type MockProcedureRecordRepository struct {
	mock.Mock
}

func (m *MockProcedureRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinical.ProcedureRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinical.ProcedureRecord), args.Error(1)
}

func (m *MockProcedureRecordRepository) FindAll(ctx context.Context, filter clinical.ProcedureRecordFilter) ([]clinical.ProcedureRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinical.ProcedureRecord), args.Error(1)
}

func (m *MockProcedureRecordRepository) FindPending(ctx context.Context) ([]clinical.ProcedureRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinical.ProcedureRecord), args.Error(1)
}

func (m *MockProcedureRecordRepository) Save(ctx context.Context, record *clinical.ProcedureRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProcedureRecordRepository) Count(ctx context.Context, filter clinical.ProcedureRecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockDailyPatientCountRepository is a mock implementation of clinical.DailyPatientCountRepository
type MockDailyPatientCountRepository struct {
	mock.Mock
}

func (m *MockDailyPatientCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinical.DailyPatientCount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindByKey(ctx context.Context, department clinical.Department, shift clinical.Shift, physicianID uuid.UUID, countDate time.Time) (*clinical.DailyPatientCount, error) {
	args := m.Called(ctx, department, shift, physicianID, countDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindAll(ctx context.Context, filter clinical.DailyPatientCountFilter) ([]clinical.DailyPatientCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindPending(ctx context.Context) ([]clinical.DailyPatientCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindApprovedWithoutFee(ctx context.Context, limit int) ([]clinical.DailyPatientCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) Save(ctx context.Context, count *clinical.DailyPatientCount) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockDailyPatientCountRepository) Count(ctx context.Context, filter clinical.DailyPatientCountFilter) (int64, error) {
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
