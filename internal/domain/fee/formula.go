// Package fee implements the service-fee (jaspel) rules: configured
// formulas, threshold-based resolution and amount computation, and the
// fee records generated from approved clinical data.
package fee

import (
	"time"

	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Basis identifies which generation path a formula belongs to
type Basis string

const (
	BasisPerProcedure Basis = "PER_PROCEDURE"       // One fee per validated procedure
	BasisDailyCount   Basis = "DAILY_PATIENT_COUNT" // One fee per approved daily aggregate
)

// IsValid checks if the basis is a valid Basis
func (b Basis) IsValid() bool {
	return b == BasisPerProcedure || b == BasisDailyCount
}

// String returns the string representation of Basis
func (b Basis) String() string {
	return string(b)
}

// ComputationMode is the sealed set of ways a formula turns a quantity into
// an amount. Implementations are Fixed, PerUnit and Progressive; the closed
// interface keeps the calculator exhaustively checked instead of branching
// on a string field.
type ComputationMode interface {
	// Amount computes the fee in whole rupiah for the observed quantity.
	// The quantity is guaranteed to be >= threshold by the resolver.
	Amount(quantity, threshold int64, base decimal.Decimal) decimal.Decimal
	// Name returns the persisted identifier of the mode
	Name() string

	sealed()
}

// Fixed pays the base amount regardless of quantity
type Fixed struct{}

// Amount implements ComputationMode
func (Fixed) Amount(quantity, threshold int64, base decimal.Decimal) decimal.Decimal {
	return base
}

// Name implements ComputationMode
func (Fixed) Name() string { return "FIXED" }

func (Fixed) sealed() {}

// PerUnit pays the base amount for every counted unit
type PerUnit struct{}

// Amount implements ComputationMode
func (PerUnit) Amount(quantity, threshold int64, base decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(quantity))
}

// Name implements ComputationMode
func (PerUnit) Name() string { return "PER_UNIT" }

func (PerUnit) sealed() {}

// Progressive pays the base amount plus a per-unit bonus for every unit
// above the threshold. A zero multiplier degenerates to Fixed.
type Progressive struct {
	Multiplier decimal.Decimal
}

// Amount implements ComputationMode
func (p Progressive) Amount(quantity, threshold int64, base decimal.Decimal) decimal.Decimal {
	excess := quantity - threshold
	if excess <= 0 {
		return base
	}
	return base.Add(p.Multiplier.Mul(decimal.NewFromInt(excess)))
}

// Name implements ComputationMode
func (p Progressive) Name() string { return "PROGRESSIVE" }

func (Progressive) sealed() {}

// ModeFromName reconstructs a ComputationMode from its persisted identifier
func ModeFromName(name string, multiplier decimal.Decimal) (ComputationMode, error) {
	switch name {
	case "FIXED":
		return Fixed{}, nil
	case "PER_UNIT":
		return PerUnit{}, nil
	case "PROGRESSIVE":
		return Progressive{Multiplier: multiplier}, nil
	default:
		return nil, shared.NewDomainError("INVALID_COMPUTATION_MODE", "Unknown computation mode: "+name)
	}
}

// Formula is a configured fee rule. Formulas are read-only from the fee
// pipeline's perspective; only administrative configuration mutates them.
type Formula struct {
	shared.BaseAggregateRoot
	Department clinical.Department
	Shift      clinical.Shift
	Basis      Basis
	Active     bool
	Threshold  int64 // Minimum qualifying quantity
	BaseAmount decimal.Decimal
	Mode       ComputationMode
}

// NewFormula creates a new active fee formula
func NewFormula(
	department clinical.Department,
	shift clinical.Shift,
	basis Basis,
	threshold int64,
	baseAmount decimal.Decimal,
	mode ComputationMode,
	now time.Time,
) (*Formula, error) {
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Department is not valid")
	}
	if !shift.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift is not valid")
	}
	if !basis.IsValid() {
		return nil, shared.NewDomainError("INVALID_BASIS", "Fee basis is not valid")
	}
	if threshold < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	if baseAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if mode == nil {
		return nil, shared.NewDomainError("INVALID_COMPUTATION_MODE", "Computation mode is required")
	}

	return &Formula{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Department:        department,
		Shift:             shift,
		Basis:             basis,
		Active:            true,
		Threshold:         threshold,
		BaseAmount:        baseAmount,
		Mode:              mode,
	}, nil
}

// Qualifies reports whether the observed quantity reaches the threshold
func (f *Formula) Qualifies(quantity int64) bool {
	return f.Active && quantity >= f.Threshold
}

// Compute calculates the fee amount for the observed quantity. The caller
// must have checked Qualifies first.
func (f *Formula) Compute(quantity int64) decimal.Decimal {
	return f.Mode.Amount(quantity, f.Threshold, f.BaseAmount)
}

// Deactivate removes the formula from resolution without deleting it
func (f *Formula) Deactivate(now time.Time) {
	f.Active = false
	f.UpdatedAt = now
}

// Activate makes the formula eligible for resolution again
func (f *Formula) Activate(now time.Time) {
	f.Active = true
	f.UpdatedAt = now
}
