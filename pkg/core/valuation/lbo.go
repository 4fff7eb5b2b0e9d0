package valuation

import (
	"errors"
	"fmt"
	"math"

	"privco_valuation/pkg/core/calc"
	"privco_valuation/pkg/core/projection"
	"privco_valuation/pkg/models"
)

// ErrNegativeSponsorEquity signals an over-leveraged entry: the debt raised
// at close meets or exceeds the entry enterprise value.
var ErrNegativeSponsorEquity = errors.New("negative sponsor equity")

// LBOInput parameters for the leveraged-buyout return model.
type LBOInput struct {
	AdjustedEBITDA float64
	BaseRevenue    float64 // trailing-window revenue, the growth base
	COGSRatio      float64 // window COGS / revenue, sizes working capital

	EntryMultiple float64
	ExitMultiple  float64
	DebtFraction  float64 // debt raised as a fraction of entry EV
	InterestRate  float64
	RevenueGrowth float64
	SweepFraction float64 // share of excess FCF applied to paydown

	DepreciationAmortization float64
	TaxRate                  float64 // [0, 1)
	MaintenanceCapexRate     float64
	WorkingCapital           models.WorkingCapitalDays
	ProjectionYears          int
}

// LBOSummary is the full buyout outcome: entry structure, the year-by-year
// projection, and exit returns.
type LBOSummary struct {
	EntryMultiple        float64                     `json:"entry_multiple"`
	EntryEnterpriseValue float64                     `json:"entry_enterprise_value"`
	InitialDebt          float64                     `json:"initial_debt"`
	SponsorEquity        float64                     `json:"sponsor_equity"`
	Years                []projection.YearProjection `json:"years"`
	ExitMultiple         float64                     `json:"exit_multiple"`
	ExitEBITDA           float64                     `json:"exit_ebitda"`
	ExitEnterpriseValue  float64                     `json:"exit_enterprise_value"`
	ExitDebt             float64                     `json:"exit_debt"`
	ExitEquityProceeds   float64                     `json:"exit_equity_proceeds"`
	IRR                  float64                     `json:"irr"`
	MOIC                 float64                     `json:"moic"`
}

// CalculateLBO prices the entry off adjusted EBITDA, runs the sequential
// debt-paydown projection, and computes exit proceeds and returns.
//
// The model assumes a single terminal cash flow (no interim
// distributions), so IRR has the exact closed form MOIC^(1/N) - 1 rather
// than requiring a root-find.
func CalculateLBO(input LBOInput) (LBOSummary, error) {
	if input.EntryMultiple <= 0 {
		return LBOSummary{}, fmt.Errorf("%w: entry multiple %.2f", ErrInvalidMultiple, input.EntryMultiple)
	}
	if input.ExitMultiple <= 0 {
		return LBOSummary{}, fmt.Errorf("%w: exit multiple %.2f", ErrInvalidMultiple, input.ExitMultiple)
	}
	if input.TaxRate < 0 || input.TaxRate >= 1 {
		return LBOSummary{}, fmt.Errorf("%w: tax rate %.4f outside [0,1)", ErrInvalidRate, input.TaxRate)
	}
	if input.ProjectionYears < 1 {
		return LBOSummary{}, fmt.Errorf("%w: projection years must be >= 1, got %d", ErrInvalidRate, input.ProjectionYears)
	}
	if input.BaseRevenue <= 0 {
		return LBOSummary{}, fmt.Errorf("%w: base revenue must be positive, got %.2f", calc.ErrDivisionByZero, input.BaseRevenue)
	}

	entryEV := input.AdjustedEBITDA * input.EntryMultiple
	initialDebt := entryEV * input.DebtFraction
	sponsorEquity := entryEV - initialDebt
	if sponsorEquity <= 0 {
		return LBOSummary{}, fmt.Errorf("%w: entry EV %.2f <= initial debt %.2f", ErrNegativeSponsorEquity, entryEV, initialDebt)
	}

	// Margin held constant at the adjusted trailing margin.
	drivers := projection.Drivers{
		BaseRevenue:              input.BaseRevenue,
		TargetMargin:             input.AdjustedEBITDA / input.BaseRevenue,
		COGSRatio:                input.COGSRatio,
		DepreciationAmortization: input.DepreciationAmortization,
		TaxRate:                  input.TaxRate,
		MaintenanceCapexRate:     input.MaintenanceCapexRate,
		InterestRate:             input.InterestRate,
		RevenueGrowth:            input.RevenueGrowth,
		SweepFraction:            input.SweepFraction,
		Years:                    input.ProjectionYears,
		WorkingCapital:           input.WorkingCapital,
	}
	years := projection.ProjectYears(drivers, initialDebt)

	final := years[len(years)-1]
	exitEV := final.EBITDA * input.ExitMultiple
	exitProceeds := exitEV - final.EndingDebt

	moic := exitProceeds / sponsorEquity
	irr := -1.0
	if moic > 0 {
		irr = math.Pow(moic, 1.0/float64(input.ProjectionYears)) - 1
	}

	return LBOSummary{
		EntryMultiple:        input.EntryMultiple,
		EntryEnterpriseValue: entryEV,
		InitialDebt:          initialDebt,
		SponsorEquity:        sponsorEquity,
		Years:                years,
		ExitMultiple:         input.ExitMultiple,
		ExitEBITDA:           final.EBITDA,
		ExitEnterpriseValue:  exitEV,
		ExitDebt:             final.EndingDebt,
		ExitEquityProceeds:   exitProceeds,
		IRR:                  irr,
		MOIC:                 moic,
	}, nil
}
