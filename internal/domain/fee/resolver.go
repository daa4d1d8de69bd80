package fee

import (
	"sort"

	"github.com/clinic/backend/internal/domain/clinical"
)

// Resolver picks the single applicable formula for an observed quantity.
// Among active formulas for the (department, shift, basis) tuple whose
// threshold the quantity reaches, the highest threshold wins; formulas
// sharing that threshold tie-break on most recently created. Below every
// threshold means no fee is owed, which is a normal no-op, not an error.
type Resolver struct{}

// NewResolver creates a new formula resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the applicable formula, or nil when no fee is owed.
// The candidates may be in any order and may contain inactive formulas
// or formulas for other tuples; they are filtered here.
func (r *Resolver) Resolve(
	candidates []Formula,
	department clinical.Department,
	shift clinical.Shift,
	basis Basis,
	quantity int64,
) *Formula {
	qualifying := make([]Formula, 0, len(candidates))
	for _, f := range candidates {
		if f.Department != department || f.Shift != shift || f.Basis != basis {
			continue
		}
		if !f.Qualifies(quantity) {
			continue
		}
		qualifying = append(qualifying, f)
	}
	if len(qualifying) == 0 {
		return nil
	}

	// Highest threshold first; equal thresholds ordered newest first so
	// the most recently created formula wins the tie deterministically.
	sort.SliceStable(qualifying, func(i, j int) bool {
		if qualifying[i].Threshold != qualifying[j].Threshold {
			return qualifying[i].Threshold > qualifying[j].Threshold
		}
		return qualifying[i].CreatedAt.After(qualifying[j].CreatedAt)
	})

	return &qualifying[0]
}
