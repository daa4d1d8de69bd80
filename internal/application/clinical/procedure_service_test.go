package clinical

import (
	"context"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProcedureService() (*ProcedureService, *MockProcedureRecordRepository, *MockEventPublisher) {
	procRepo := new(MockProcedureRecordRepository)
	publisher := new(MockEventPublisher)
	service := NewProcedureService(procRepo, publisher, shared.NewFixedClock(testNow), zap.NewNop())
	return service, procRepo, publisher
}

func pendingProcedure(t *testing.T) *clinical.ProcedureRecord {
	t.Helper()
	physicianID := uuid.New()
	record, err := clinical.NewProcedureRecord(
		uuid.New(),
		"Scaling gigi",
		clinical.DepartmentDental,
		clinical.ShiftEvening,
		&physicianID,
		nil,
		valueobject.NewMoneyIDRFromInt(150000),
		time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC),
		uuid.New(),
		testNow,
	)
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func TestProcedureService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("logs a pending procedure", func(t *testing.T) {
		service, procRepo, publisher := newTestProcedureService()
		physicianID := uuid.New()

		var saved *clinical.ProcedureRecord
		procRepo.On("Save", ctx, mock.AnythingOfType("*clinical.ProcedureRecord")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*clinical.ProcedureRecord)
		}).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := service.Create(ctx, CreateProcedureRequest{
			PatientID:     uuid.New(),
			ProcedureType: "Tambal gigi",
			Department:    "DENTAL",
			Shift:         "EVENING",
			PhysicianID:   &physicianID,
			Price:         decimal.NewFromInt(250000),
			PerformedAt:   time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC),
			CreatedBy:     uuid.New(),
		})
		require.NoError(t, err)

		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "Tambal gigi", resp.ProcedureType)
		require.NotNil(t, saved)
		require.NotNil(t, saved.PhysicianID)
		assert.Equal(t, physicianID, *saved.PhysicianID)
	})

	t.Run("requires at least one staff member", func(t *testing.T) {
		service, procRepo, _ := newTestProcedureService()

		_, err := service.Create(ctx, CreateProcedureRequest{
			PatientID:     uuid.New(),
			ProcedureType: "Tambal gigi",
			Department:    "DENTAL",
			Shift:         "EVENING",
			Price:         decimal.NewFromInt(250000),
			PerformedAt:   testNow,
			CreatedBy:     uuid.New(),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STAFF", domainErr.Code)
		procRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProcedureService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes a pending record", func(t *testing.T) {
		service, procRepo, _ := newTestProcedureService()
		record := pendingProcedure(t)

		procRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		procRepo.On("Save", ctx, record).Return(nil)

		require.NoError(t, service.Delete(ctx, record.ID))
		assert.NotNil(t, record.DeletedAt)
	})

	t.Run("refuses to delete an approved record", func(t *testing.T) {
		service, procRepo, _ := newTestProcedureService()
		record := pendingProcedure(t)
		require.NoError(t, record.Approve(uuid.New(), "", testNow))
		record.ClearDomainEvents()

		procRepo.On("FindByID", ctx, record.ID).Return(record, nil)

		err := service.Delete(ctx, record.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE_TRANSITION", domainErr.Code)
		procRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProcedureService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown record id", func(t *testing.T) {
		service, procRepo, _ := newTestProcedureService()
		id := uuid.New()
		procRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.GetByID(ctx, id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("maps the record to a response", func(t *testing.T) {
		service, procRepo, _ := newTestProcedureService()
		record := pendingProcedure(t)
		procRepo.On("FindByID", ctx, record.ID).Return(record, nil)

		resp, err := service.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, resp.ID)
		assert.Equal(t, "DENTAL", resp.Department)
		assert.True(t, decimal.NewFromInt(150000).Equal(resp.Price))
	})
}
