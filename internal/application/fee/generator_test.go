package fee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestGenerator(formulaRepo *MockFormulaRepository, recordRepo *MockRecordRepository, publisher *MockEventPublisher) *Generator {
	return NewGenerator(formulaRepo, recordRepo, publisher, shared.NewFixedClock(testNow), zap.NewNop())
}

func testFormula(t *testing.T, threshold int64, base int64, mode fee.ComputationMode) fee.Formula {
	t.Helper()
	f, err := fee.NewFormula(clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount, threshold, decimal.NewFromInt(base), mode, testNow)
	require.NoError(t, err)
	return *f
}

func testInput(quantity int64) GenerationInput {
	return GenerationInput{
		SourceID:      uuid.New(),
		SourceType:    "DailyPatientCount",
		BeneficiaryID: uuid.New(),
		Department:    clinical.DepartmentGeneral,
		Shift:         clinical.ShiftMorning,
		Basis:         fee.BasisDailyCount,
		Quantity:      quantity,
		ServiceDate:   time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		ApprovedBy:    uuid.New(),
		Description:   "Jaspel GENERAL shift MORNING",
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("computes progressive fee and persists record", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		formulas := []fee.Formula{testFormula(t, 10, 50000, fee.Progressive{Multiplier: decimal.NewFromInt(2000)})}

		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, nil)
		formulaRepo.On("FindActive", ctx, clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount).Return(formulas, nil)

		var saved *fee.Record
		recordRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fee.Record")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*fee.Record)
		}).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		err := generator.Generate(ctx, input)
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.True(t, decimal.NewFromInt(60000).Equal(saved.Amount), "want 60000 got %s", saved.Amount)
		assert.Equal(t, input.BeneficiaryID, saved.BeneficiaryID)
		assert.Equal(t, input.SourceID, saved.SourceID)
		recordRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("highest qualifying threshold wins among several", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		formulas := []fee.Formula{
			testFormula(t, 0, 10000, fee.Fixed{}),
			testFormula(t, 10, 50000, fee.Fixed{}),
			testFormula(t, 20, 90000, fee.Fixed{}),
		}

		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, nil)
		formulaRepo.On("FindActive", ctx, clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount).Return(formulas, nil)

		var saved *fee.Record
		recordRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fee.Record")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*fee.Record)
		}).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		require.NoError(t, generator.Generate(ctx, input))
		require.NotNil(t, saved)
		assert.True(t, decimal.NewFromInt(50000).Equal(saved.Amount), "threshold 10 formula should win, got %s", saved.Amount)
	})

	t.Run("below every threshold is a no-op", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(5)
		formulas := []fee.Formula{testFormula(t, 10, 50000, fee.Fixed{})}

		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, nil)
		formulaRepo.On("FindActive", ctx, clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount).Return(formulas, nil)

		require.NoError(t, generator.Generate(ctx, input))
		recordRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("existing fee short-circuits as success", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(true, nil)

		require.NoError(t, generator.Generate(ctx, input))
		formulaRepo.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		recordRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("losing the insert race is success", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		formulas := []fee.Formula{testFormula(t, 10, 50000, fee.Fixed{})}

		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, nil)
		formulaRepo.On("FindActive", ctx, clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount).Return(formulas, nil)
		recordRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fee.Record")).Return(shared.ErrDuplicateFee)

		require.NoError(t, generator.Generate(ctx, input))
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("transient repository error propagates for retry", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, errors.New("connection reset"))

		require.Error(t, generator.Generate(ctx, input))
	})

	t.Run("invalid source data reports failure instead of retrying", func(t *testing.T) {
		formulaRepo := new(MockFormulaRepository)
		recordRepo := new(MockRecordRepository)
		publisher := new(MockEventPublisher)
		generator := newTestGenerator(formulaRepo, recordRepo, publisher)

		input := testInput(15)
		input.ApprovedBy = uuid.Nil // cannot build a valid record
		formulas := []fee.Formula{testFormula(t, 10, 50000, fee.Fixed{})}

		recordRepo.On("ExistsByKey", ctx, input.BeneficiaryID, input.ServiceDate, fee.BasisDailyCount).Return(false, nil)
		formulaRepo.On("FindActive", ctx, clinical.DepartmentGeneral, clinical.ShiftMorning, fee.BasisDailyCount).Return(formulas, nil)

		var published []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			published = args.Get(1).([]shared.DomainEvent)
		}).Return(nil)

		require.NoError(t, generator.Generate(ctx, input))
		recordRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
		require.Len(t, published, 1)
		assert.Equal(t, fee.EventTypeGenerationFailed, published[0].EventType())
	})
}
