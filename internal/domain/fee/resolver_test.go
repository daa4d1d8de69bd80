package fee

import (
	"testing"
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFormula(t *testing.T, threshold int64, createdAt time.Time) Formula {
	t.Helper()
	f, err := NewFormula(clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, threshold, idr(50000), Fixed{}, createdAt)
	require.NoError(t, err)
	return *f
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver()

	t.Run("highest qualifying threshold wins", func(t *testing.T) {
		candidates := []Formula{
			mustFormula(t, 0, testNow),
			mustFormula(t, 10, testNow),
			mustFormula(t, 20, testNow),
		}

		got := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 15)
		require.NotNil(t, got)
		assert.Equal(t, int64(10), got.Threshold)
	})

	t.Run("quantity at threshold qualifies", func(t *testing.T) {
		candidates := []Formula{
			mustFormula(t, 10, testNow),
			mustFormula(t, 20, testNow),
		}

		got := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 20)
		require.NotNil(t, got)
		assert.Equal(t, int64(20), got.Threshold)
	})

	t.Run("below every threshold means no fee", func(t *testing.T) {
		candidates := []Formula{
			mustFormula(t, 10, testNow),
			mustFormula(t, 20, testNow),
		}

		got := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 9)
		assert.Nil(t, got)
	})

	t.Run("no candidates means no fee", func(t *testing.T) {
		got := resolver.Resolve(nil, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 100)
		assert.Nil(t, got)
	})

	t.Run("inactive formulas are skipped", func(t *testing.T) {
		high := mustFormula(t, 20, testNow)
		high.Deactivate(testNow)
		candidates := []Formula{high, mustFormula(t, 10, testNow)}

		got := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 25)
		require.NotNil(t, got)
		assert.Equal(t, int64(10), got.Threshold)
	})

	t.Run("other tuples are filtered out", func(t *testing.T) {
		dental, err := NewFormula(clinical.DepartmentDental, clinical.ShiftMorning, BasisDailyCount, 0, idr(90000), Fixed{}, testNow)
		require.NoError(t, err)
		evening, err := NewFormula(clinical.DepartmentGeneral, clinical.ShiftEvening, BasisDailyCount, 0, idr(90000), Fixed{}, testNow)
		require.NoError(t, err)
		procedure, err := NewFormula(clinical.DepartmentGeneral, clinical.ShiftMorning, BasisPerProcedure, 0, idr(90000), Fixed{}, testNow)
		require.NoError(t, err)

		candidates := []Formula{*dental, *evening, *procedure}
		got := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 10)
		assert.Nil(t, got)
	})

	t.Run("equal thresholds tie-break on newest", func(t *testing.T) {
		older := mustFormula(t, 10, testNow)
		newer := mustFormula(t, 10, testNow.Add(time.Hour))

		got := resolver.Resolve([]Formula{older, newer}, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 15)
		require.NotNil(t, got)
		assert.Equal(t, newer.ID, got.ID)

		// Same winner regardless of candidate order.
		got = resolver.Resolve([]Formula{newer, older}, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 15)
		require.NotNil(t, got)
		assert.Equal(t, newer.ID, got.ID)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		candidates := []Formula{
			mustFormula(t, 0, testNow),
			mustFormula(t, 5, testNow),
			mustFormula(t, 10, testNow),
		}

		first := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 7)
		require.NotNil(t, first)
		for i := 0; i < 10; i++ {
			again := resolver.Resolve(candidates, clinical.DepartmentGeneral, clinical.ShiftMorning, BasisDailyCount, 7)
			require.NotNil(t, again)
			assert.Equal(t, first.ID, again.ID)
		}
	})
}
