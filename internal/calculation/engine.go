package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// CalculationEngine orchestrates the fiscal sub-models into a projection
type CalculationEngine struct {
	TaxCalc       *TaxCalculator
	PensionCalc   *PensionCalculator
	HousingCalc   *HousingCostModel
	EducationCalc *EducationCostModel
	Loans         *LoanAmortizer
	Logger        Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	loans := NewLoanAmortizer()
	return &CalculationEngine{
		TaxCalc:       NewTaxCalculator(),
		PensionCalc:   NewPensionCalculator(),
		HousingCalc:   NewHousingCostModel(loans),
		EducationCalc: NewEducationCostModel(),
		Loans:         loans,
		Logger:        NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// ErrInvalidHorizon is wrapped by the ComputationError returned for a
// projection whose years cannot be enumerated.
var ErrInvalidHorizon = errors.New("invalid projection horizon")

// Run projects b over its whole horizon. b is never modified. On failure
// the returned error is a *domain.ComputationError and no result is returned.
func (ce *CalculationEngine) Run(b *domain.Bundle) (res *domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			ce.Logger.Errorf("projection panicked: %v", r)
			res = nil
			err = &domain.ComputationError{Op: "run", Err: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()

	if err := checkHorizon(b); err != nil {
		return nil, &domain.ComputationError{Op: "validate", Err: err}
	}

	run := ce.prepare(b)
	records, assets := ce.fold(run)
	ledger, err := domain.NewLedger(records)
	if err != nil {
		return nil, &domain.ComputationError{Op: "ledger", Err: err}
	}

	ce.Logger.Infof("projected %d years (%d-%d)", ledger.Len(), b.Profile.StartYear, b.Profile.LastYear())
	return &domain.Result{Ledger: ledger, Snapshot: run.snapshot, Assets: assets}, nil
}

func checkHorizon(b *domain.Bundle) error {
	if b == nil || b.Profile == nil {
		return fmt.Errorf("%w: bundle has no profile", ErrInvalidHorizon)
	}
	p := b.Profile
	if p.StartYear <= 0 {
		return fmt.Errorf("%w: start year %d", ErrInvalidHorizon, p.StartYear)
	}
	if p.EndAge < p.CurrentAge {
		return fmt.Errorf("%w: end age %d is before current age %d", ErrInvalidHorizon, p.EndAge, p.CurrentAge)
	}
	return nil
}
