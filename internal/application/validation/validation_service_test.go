package validation

import (
	"context"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/audit"
	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/finance"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/clinic/backend/internal/domain/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

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
	return args.Get(0).([]finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) FindPending(ctx context.Context) ([]finance.FinancialEntry, error) {
	args := m.Called(ctx)
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
	return args.Get(0).([]clinical.ProcedureRecord), args.Error(1)
}

func (m *MockProcedureRecordRepository) FindPending(ctx context.Context) ([]clinical.ProcedureRecord, error) {
	args := m.Called(ctx)
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
	return args.Get(0).([]clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindPending(ctx context.Context) ([]clinical.DailyPatientCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]clinical.DailyPatientCount), args.Error(1)
}

func (m *MockDailyPatientCountRepository) FindApprovedWithoutFee(ctx context.Context, limit int) ([]clinical.DailyPatientCount, error) {
	args := m.Called(ctx, limit)
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

// MockFeeRecordRepository is a mock implementation of fee.RecordRepository
type MockFeeRecordRepository struct {
	mock.Mock
}

func (m *MockFeeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Record), args.Error(1)
}

func (m *MockFeeRecordRepository) FindByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (*fee.Record, error) {
	args := m.Called(ctx, beneficiaryID, serviceDate, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Record), args.Error(1)
}

func (m *MockFeeRecordRepository) FindBySource(ctx context.Context, sourceID uuid.UUID) ([]fee.Record, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).([]fee.Record), args.Error(1)
}

func (m *MockFeeRecordRepository) FindAll(ctx context.Context, filter fee.RecordFilter) ([]fee.Record, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]fee.Record), args.Error(1)
}

func (m *MockFeeRecordRepository) ExistsByKey(ctx context.Context, beneficiaryID uuid.UUID, serviceDate time.Time, basis fee.Basis) (bool, error) {
	args := m.Called(ctx, beneficiaryID, serviceDate, basis)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeRecordRepository) CreateIfAbsent(ctx context.Context, record *fee.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFeeRecordRepository) Save(ctx context.Context, record *fee.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFeeRecordRepository) Count(ctx context.Context, filter fee.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByRecord(ctx context.Context, recordType string, recordID uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, recordType, recordID)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) FindByActor(ctx context.Context, actor uuid.UUID, limit int) ([]audit.Entry, error) {
	args := m.Called(ctx, actor, limit)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type serviceMocks struct {
	entryRepo *MockFinancialEntryRepository
	procRepo  *MockProcedureRecordRepository
	countRepo *MockDailyPatientCountRepository
	feeRepo   *MockFeeRecordRepository
	auditRepo *MockAuditRepository
	publisher *MockEventPublisher
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		entryRepo: new(MockFinancialEntryRepository),
		procRepo:  new(MockProcedureRecordRepository),
		countRepo: new(MockDailyPatientCountRepository),
		feeRepo:   new(MockFeeRecordRepository),
		auditRepo: new(MockAuditRepository),
		publisher: new(MockEventPublisher),
	}
	service := NewService(
		m.entryRepo, m.procRepo, m.countRepo, m.feeRepo, m.auditRepo,
		m.publisher, shared.NewFixedClock(testNow), zap.NewNop(),
	)
	return service, m
}

func pendingEntry(t *testing.T) *finance.FinancialEntry {
	t.Helper()
	entry, err := finance.NewFinancialEntry(
		"FIN-2025-03-0001", finance.EntryTypeRevenue, finance.CategoryConsultation,
		valueobject.NewMoneyIDRFromInt(350000), "", testNow, uuid.New(), testNow,
	)
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func pendingCount(t *testing.T) *clinical.DailyPatientCount {
	t.Helper()
	count, err := clinical.NewDailyPatientCount(
		clinical.DepartmentGeneral, clinical.ShiftMorning, uuid.New(),
		testNow, 12, 6, uuid.New(), testNow,
	)
	require.NoError(t, err)
	count.ClearDomainEvents()
	return count
}

func TestService_ApproveFinancialEntry(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("approves, audits and publishes", func(t *testing.T) {
		service, m := newTestService()
		entry := pendingEntry(t)

		m.entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		m.entryRepo.On("Save", ctx, entry).Return(nil)

		var auditEntry *audit.Entry
		m.auditRepo.On("Append", ctx, mock.AnythingOfType("*audit.Entry")).Run(func(args mock.Arguments) {
			auditEntry = args.Get(1).(*audit.Entry)
		}).Return(nil)

		var published []shared.DomainEvent
		m.publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			published = args.Get(1).([]shared.DomainEvent)
		}).Return(nil)

		err := service.ApproveFinancialEntry(ctx, Decision{RecordID: entry.ID, Actor: actor})
		require.NoError(t, err)
		assert.True(t, entry.IsApproved())

		require.NotNil(t, auditEntry)
		assert.Equal(t, RecordTypeFinancialEntry, auditEntry.RecordType)
		assert.Equal(t, "PENDING", auditEntry.FromStatus)
		assert.Equal(t, "APPROVED", auditEntry.ToStatus)
		assert.Equal(t, actor, auditEntry.Actor)

		require.Len(t, published, 1)
		assert.Equal(t, finance.EventTypeFinancialEntryApproved, published[0].EventType())
	})

	t.Run("unknown record id", func(t *testing.T) {
		service, m := newTestService()
		id := uuid.New()
		m.entryRepo.On("FindByID", ctx, id).Return(nil, nil)

		err := service.ApproveFinancialEntry(ctx, Decision{RecordID: id, Actor: actor})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("already approved entry fails without side effects", func(t *testing.T) {
		service, m := newTestService()
		entry := pendingEntry(t)
		require.NoError(t, entry.Approve(uuid.New(), "", testNow))
		entry.ClearDomainEvents()

		m.entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)

		err := service.ApproveFinancialEntry(ctx, Decision{RecordID: entry.ID, Actor: actor})
		require.Error(t, err)
		m.entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestService_RejectDailyCount(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("reject without comment fails", func(t *testing.T) {
		service, m := newTestService()
		count := pendingCount(t)
		m.countRepo.On("FindByID", ctx, count.ID).Return(count, nil)

		err := service.RejectDailyCount(ctx, Decision{RecordID: count.ID, Actor: actor})
		require.ErrorIs(t, err, shared.ErrMissingComment)
		m.countRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("reject with comment is audited", func(t *testing.T) {
		service, m := newTestService()
		count := pendingCount(t)

		m.countRepo.On("FindByID", ctx, count.ID).Return(count, nil)
		m.countRepo.On("Save", ctx, count).Return(nil)

		var auditEntry *audit.Entry
		m.auditRepo.On("Append", ctx, mock.AnythingOfType("*audit.Entry")).Run(func(args mock.Arguments) {
			auditEntry = args.Get(1).(*audit.Entry)
		}).Return(nil)
		m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		err := service.RejectDailyCount(ctx, Decision{RecordID: count.ID, Actor: actor, Comment: "jumlah pasien tidak cocok dengan register"})
		require.NoError(t, err)
		assert.Equal(t, validation.StatusRejected, count.Status())

		require.NotNil(t, auditEntry)
		assert.Equal(t, "jumlah pasien tidak cocok dengan register", auditEntry.Comment)
	})
}

func TestService_RevertDailyCount(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	service, m := newTestService()
	count := pendingCount(t)
	require.NoError(t, count.Approve(uuid.New(), "", testNow))
	count.ClearDomainEvents()

	m.countRepo.On("FindByID", ctx, count.ID).Return(count, nil)
	m.countRepo.On("Save", ctx, count).Return(nil)
	m.auditRepo.On("Append", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil)

	var published []shared.DomainEvent
	m.publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]shared.DomainEvent)
	}).Return(nil)

	err := service.RevertDailyCount(ctx, Decision{RecordID: count.ID, Actor: actor, Comment: "salah input jumlah pasien"})
	require.NoError(t, err)
	assert.Equal(t, validation.StatusPending, count.Status())

	// The reverted event is what flags dependent fee records downstream.
	require.Len(t, published, 1)
	assert.Equal(t, clinical.EventTypeDailyPatientCountReverted, published[0].EventType())
}

func TestService_ApproveFeeRecord(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	service, m := newTestService()

	record, err := fee.NewAutoApprovedRecord(
		uuid.New(), testNow, clinical.ShiftMorning, fee.BasisDailyCount,
		valueobject.NewMoneyIDRFromInt(56000).Amount(),
		"Jaspel GENERAL shift MORNING (18 pasien)",
		uuid.New(), uuid.New(), uuid.New(), testNow,
	)
	require.NoError(t, err)
	require.NoError(t, record.FlagForReview(uuid.New(), testNow))
	record.ClearDomainEvents()

	m.feeRepo.On("FindByID", ctx, record.ID).Return(record, nil)
	m.feeRepo.On("Save", ctx, record).Return(nil)
	m.auditRepo.On("Append", ctx, mock.AnythingOfType("*audit.Entry")).Return(nil)
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err = service.ApproveFeeRecord(ctx, Decision{RecordID: record.ID, Actor: actor, Comment: "dicek ulang"})
	require.NoError(t, err)
	assert.Equal(t, validation.StatusApproved, record.Status())
}
