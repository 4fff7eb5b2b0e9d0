// Package sensitivity re-runs the bridge -> valuation -> LBO pipeline with
// one driver perturbed at a time. Every run is a pure function of the
// scenario value, so sweeps and sampled batches cannot drift from a
// direct invocation with the same inputs.
package sensitivity

import (
	"fmt"

	"privco_valuation/pkg/core/calc"
	"privco_valuation/pkg/core/valuation"
	"privco_valuation/pkg/models"
)

// Driver identifies which assumption a sweep varies.
type Driver string

const (
	DriverWACC          Driver = "wacc"
	DriverEntryMultiple Driver = "entry_multiple"
	DriverExitMultiple  Driver = "exit_multiple"
	DriverGrowthRate    Driver = "revenue_growth_rate"
	DriverInterestRate  Driver = "interest_rate"
	DriverAdjustment    Driver = "adjustment"
)

// Scenario carries everything downstream of the period aggregator: the
// trailing window, the normalization adjustments, and the assumption
// bundle. Scenario values are copied per run, never mutated in place.
type Scenario struct {
	Window      calc.TrailingWindow
	Assumptions models.Assumptions
}

// Outcome is the result of one full pipeline run under a scenario.
type Outcome struct {
	Bridge calc.EBITDABridge
	EPV    valuation.EPVResult
	LBO    valuation.LBOSummary
}

// Run executes the bridge, EPV, and LBO stages for the scenario.
func (s Scenario) Run() (Outcome, error) {
	bridge, err := calc.BuildBridge(s.Window, s.Assumptions.Adjustments)
	if err != nil {
		return Outcome{}, err
	}

	a := s.Assumptions
	epv, err := valuation.CalculateEPV(valuation.EPVInput{
		AdjustedEBITDA:           bridge.Adjusted,
		DepreciationAmortization: a.DepreciationAmortization,
		TaxRate:                  a.TaxRate,
		ReinvestmentRate:         a.ReinvestmentRate,
		WACC:                     a.WACC,
		NetDebt:                  a.NetDebt,
	})
	if err != nil {
		return Outcome{}, err
	}

	lbo, err := valuation.CalculateLBO(valuation.LBOInput{
		AdjustedEBITDA:           bridge.Adjusted,
		BaseRevenue:              s.Window.Revenue,
		COGSRatio:                s.Window.COGSRatio(),
		EntryMultiple:            a.EntryMultiple,
		ExitMultiple:             a.ExitMultiple,
		DebtFraction:             a.DebtFraction,
		InterestRate:             a.InterestRate,
		RevenueGrowth:            a.RevenueGrowthRate,
		SweepFraction:            a.FCFSweepFraction,
		DepreciationAmortization: a.DepreciationAmortization,
		TaxRate:                  a.TaxRate,
		MaintenanceCapexRate:     a.MaintenanceCapexRate,
		WorkingCapital:           a.WorkingCapital,
		ProjectionYears:          a.ProjectionYears,
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Bridge: bridge, EPV: epv, LBO: lbo}, nil
}

// Point is one row of a sensitivity table.
type Point struct {
	DriverValue float64 `json:"driver_value"`
	IRR         float64 `json:"irr"`
	MOIC        float64 `json:"moic"`
	EquityValue float64 `json:"equity_value"` // EPV equity under the perturbed driver
}

// Table is an ordered sweep over one driver.
type Table struct {
	Driver Driver  `json:"driver"`
	Label  string  `json:"label,omitempty"` // adjustment label for DriverAdjustment
	Points []Point `json:"points"`
}

// Sweep varies one numeric assumption across the given values, holding
// everything else fixed, and collects the resulting IRR and EPV equity.
func Sweep(base Scenario, driver Driver, values []float64) (Table, error) {
	table := Table{Driver: driver, Points: make([]Point, 0, len(values))}
	for _, v := range values {
		scenario := base
		scenario.Assumptions = applyDriver(base.Assumptions, driver, v)
		out, err := scenario.Run()
		if err != nil {
			return Table{}, fmt.Errorf("sweep %s=%v: %w", driver, v, err)
		}
		table.Points = append(table.Points, Point{
			DriverValue: v,
			IRR:         out.LBO.IRR,
			MOIC:        out.LBO.MOIC,
			EquityValue: out.EPV.EquityValue,
		})
	}
	return table, nil
}

// SweepAdjustment varies the signed amount of the named bridge adjustment
// (e.g. the marketing normalization) across the given values.
func SweepAdjustment(base Scenario, label string, amounts []float64) (Table, error) {
	idx := -1
	for i, adj := range base.Assumptions.Adjustments {
		if adj.Label == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Table{}, fmt.Errorf("adjustment %q not found in bridge", label)
	}

	table := Table{Driver: DriverAdjustment, Label: label, Points: make([]Point, 0, len(amounts))}
	for _, amount := range amounts {
		scenario := base
		scenario.Assumptions.Adjustments = cloneAdjustments(base.Assumptions.Adjustments)
		scenario.Assumptions.Adjustments[idx].Amount = amount
		out, err := scenario.Run()
		if err != nil {
			return Table{}, fmt.Errorf("sweep %s=%v: %w", label, amount, err)
		}
		table.Points = append(table.Points, Point{
			DriverValue: amount,
			IRR:         out.LBO.IRR,
			MOIC:        out.LBO.MOIC,
			EquityValue: out.EPV.EquityValue,
		})
	}
	return table, nil
}

func applyDriver(a models.Assumptions, driver Driver, v float64) models.Assumptions {
	switch driver {
	case DriverWACC:
		a.WACC = v
	case DriverEntryMultiple:
		a.EntryMultiple = v
	case DriverExitMultiple:
		a.ExitMultiple = v
	case DriverGrowthRate:
		a.RevenueGrowthRate = v
	case DriverInterestRate:
		a.InterestRate = v
	}
	return a
}

func cloneAdjustments(in []models.NormalizationAdjustment) []models.NormalizationAdjustment {
	out := make([]models.NormalizationAdjustment, len(in))
	copy(out, in)
	return out
}
