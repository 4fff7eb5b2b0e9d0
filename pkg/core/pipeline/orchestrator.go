// Package pipeline wires the engine stages end to end:
// aggregator -> bridge -> {valuation matrix, EPV, LBO} -> sensitivity.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"privco_valuation/pkg/core/calc"
	"privco_valuation/pkg/core/sensitivity"
	"privco_valuation/pkg/core/valuation"
	"privco_valuation/pkg/models"
)

// ErrDatasetValidation signals that strict validation rejected the
// dataset. It is a configuration error on the caller's side.
var ErrDatasetValidation = errors.New("dataset validation failed")

// ValidationConfig controls how dataset derivation checks are handled.
type ValidationConfig struct {
	Strict    bool    // if true, derivation discrepancies abort the run
	Tolerance float64 // allowed gap for EBITDA/gross-profit derivation
}

// AnalysisReport is the complete engine output. Every numeric field of
// every stage is exposed losslessly; no display formatting happens here.
type AnalysisReport struct {
	RunID       string    `json:"run_id"`
	Company     string    `json:"company"`
	Currency    string    `json:"currency,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Window        calc.TrailingWindow           `json:"window"`
	Bridge        calc.EBITDABridge             `json:"bridge"`
	ValuationRows []valuation.ValuationRow      `json:"valuation_rows"`
	EPV           valuation.EPVResult           `json:"epv"`
	LBO           valuation.LBOSummary          `json:"lbo"`
	Sensitivity   []sensitivity.Table           `json:"sensitivity,omitempty"`
	MonteCarlo    *sensitivity.MonteCarloResult `json:"monte_carlo,omitempty"`
	Validation    []string                      `json:"validation_warnings,omitempty"`
}

// Orchestrator runs the full analysis for a company dataset.
type Orchestrator struct {
	validation ValidationConfig
}

// NewOrchestrator creates an orchestrator with lenient validation and a
// small rounding tolerance.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		validation: ValidationConfig{
			Strict:    false,
			Tolerance: 0.01,
		},
	}
}

// SetValidationConfig updates the validation behavior.
func (o *Orchestrator) SetValidationConfig(cfg ValidationConfig) {
	o.validation = cfg
}

// Run executes the pipeline. Engine errors surface unchanged so callers
// can match them with errors.Is; no stage substitutes defaults.
func (o *Orchestrator) Run(ds *models.CompanyDataset) (*AnalysisReport, error) {
	issues := ds.Validate(o.validation.Tolerance)
	if len(issues) > 0 && o.validation.Strict {
		return nil, fmt.Errorf("%w: %s", ErrDatasetValidation, issues[0])
	}

	a := ds.Assumptions

	// A CAPM build-up, when supplied, replaces the raw discount rate.
	if b := a.WACCBuildup; b != nil {
		buildup, err := valuation.CalculateWACCBuildup(valuation.WACCBuildupInput{
			UnleveredBeta:     b.UnleveredBeta,
			RiskFreeRate:      b.RiskFreeRate,
			MarketRiskPremium: b.MarketRiskPremium,
			PreTaxCostOfDebt:  b.PreTaxCostOfDebt,
			TaxRate:           a.TaxRate,
			DebtToEquityRatio: b.DebtToEquityRatio,
		})
		if err != nil {
			return nil, err
		}
		a.WACC = buildup.WACC
	}

	// TTM = four quarters; a single annual record is also a valid window.
	if n := len(a.TrailingWindow); n != 1 && n != 4 {
		return nil, fmt.Errorf("%w: window must cover one fiscal year or four quarters, got %d periods", calc.ErrInvalidWindow, n)
	}

	window, err := calc.BuildTrailingWindow(ds.Periods, a.TrailingWindow, 0)
	if err != nil {
		return nil, err
	}

	bridge, err := calc.BuildBridge(window, a.Adjustments)
	if err != nil {
		return nil, err
	}

	rows, err := valuation.BuildValuationMatrix(bridge.Adjusted, a.Multiples, a.NetDebt, window.Revenue)
	if err != nil {
		return nil, err
	}

	base := sensitivity.Scenario{Window: window, Assumptions: a}
	outcome, err := base.Run()
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		RunID:         uuid.New().String(),
		Company:       ds.Company,
		Currency:      ds.Currency,
		GeneratedAt:   time.Now().UTC(),
		Window:        window,
		Bridge:        bridge,
		ValuationRows: rows,
		EPV:           outcome.EPV,
		LBO:           outcome.LBO,
		Validation:    issues,
	}

	if err := o.runSensitivity(report, base); err != nil {
		return nil, err
	}

	if a.MonteCarlo.Trials > 0 {
		mc, err := sensitivity.RunMonteCarlo(base, a.MonteCarlo)
		if err != nil {
			return nil, err
		}
		report.MonteCarlo = &mc
	}

	return report, nil
}

// runSensitivity appends one table per configured driver grid.
func (o *Orchestrator) runSensitivity(report *AnalysisReport, base sensitivity.Scenario) error {
	grid := base.Assumptions.Sensitivity
	sweeps := []struct {
		driver sensitivity.Driver
		values []float64
	}{
		{sensitivity.DriverWACC, grid.WACC},
		{sensitivity.DriverEntryMultiple, grid.EntryMultiples},
		{sensitivity.DriverExitMultiple, grid.ExitMultiples},
		{sensitivity.DriverGrowthRate, grid.GrowthRates},
		{sensitivity.DriverInterestRate, grid.InterestRates},
	}
	for _, s := range sweeps {
		if len(s.values) == 0 {
			continue
		}
		table, err := sensitivity.Sweep(base, s.driver, s.values)
		if err != nil {
			return err
		}
		report.Sensitivity = append(report.Sensitivity, table)
	}

	if grid.AdjustmentLabel != "" && len(grid.AdjustmentAmounts) > 0 {
		table, err := sensitivity.SweepAdjustment(base, grid.AdjustmentLabel, grid.AdjustmentAmounts)
		if err != nil {
			return err
		}
		report.Sensitivity = append(report.Sensitivity, table)
	}
	return nil
}
