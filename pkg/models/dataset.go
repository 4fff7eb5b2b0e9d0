// Package models defines the value types shared by the valuation engine:
// the per-company periodic dataset and the assumption bundle that drives
// the downstream calculations.
package models

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

// LineItem is a single labeled amount inside a COGS or opex block.
// Amounts are stored as positive costs; the calculation layer subtracts them.
type LineItem struct {
	Label  string  `json:"label" yaml:"label"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// PeriodRecord is one reporting period (quarter or fiscal year) as stated.
// ReportedEBITDA should be derivable as Revenue - COGS - Opex; Validate
// checks that within a tolerance.
type PeriodRecord struct {
	PeriodID          string     `json:"period_id" yaml:"period_id"`
	Revenue           float64    `json:"revenue" yaml:"revenue"`
	CostOfGoods       []LineItem `json:"cost_of_goods" yaml:"cost_of_goods"`
	GrossProfit       float64    `json:"gross_profit" yaml:"gross_profit"`
	OperatingExpenses []LineItem `json:"operating_expenses" yaml:"operating_expenses"`
	ReportedEBITDA    float64    `json:"reported_ebitda" yaml:"reported_ebitda"`
}

// TotalCOGS sums the cost-of-goods components.
func (p PeriodRecord) TotalCOGS() float64 {
	return sumItems(p.CostOfGoods)
}

// TotalOpex sums the operating-expense components.
func (p PeriodRecord) TotalOpex() float64 {
	return sumItems(p.OperatingExpenses)
}

func sumItems(items []LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Amount
	}
	return total
}

// NormalizationAdjustment is one signed step of the EBITDA bridge
// (owner comp add-back, rent-to-market, etc.). Order is preserved for
// bridge display; the total is order-independent.
type NormalizationAdjustment struct {
	Label     string  `json:"label" yaml:"label"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Rationale string  `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// WorkingCapitalDays holds the day-count assumptions used for the year-1
// working-capital requirement, plus the simplified fraction applied to
// incremental revenue in later years.
type WorkingCapitalDays struct {
	DSO                 float64 `json:"dso" yaml:"dso"` // days sales outstanding
	DIO                 float64 `json:"dio" yaml:"dio"` // days inventory outstanding
	DPO                 float64 `json:"dpo" yaml:"dpo"` // days payable outstanding
	IncrementalFraction float64 `json:"incremental_fraction" yaml:"incremental_fraction"`
}

// SensitivityGrid names the one-driver sweeps to run. Empty slices skip
// the corresponding table.
type SensitivityGrid struct {
	WACC              []float64 `json:"wacc,omitempty" yaml:"wacc,omitempty"`
	EntryMultiples    []float64 `json:"entry_multiples,omitempty" yaml:"entry_multiples,omitempty"`
	ExitMultiples     []float64 `json:"exit_multiples,omitempty" yaml:"exit_multiples,omitempty"`
	GrowthRates       []float64 `json:"growth_rates,omitempty" yaml:"growth_rates,omitempty"`
	InterestRates     []float64 `json:"interest_rates,omitempty" yaml:"interest_rates,omitempty"`
	AdjustmentLabel   string    `json:"adjustment_label,omitempty" yaml:"adjustment_label,omitempty"`
	AdjustmentAmounts []float64 `json:"adjustment_amounts,omitempty" yaml:"adjustment_amounts,omitempty"`
}

// MonteCarloSpec configures the sampled-scenario batch. Trials <= 0
// disables it. The seed makes runs reproducible.
type MonteCarloSpec struct {
	Trials             int     `json:"trials" yaml:"trials"`
	Seed               int64   `json:"seed" yaml:"seed"`
	Workers            int     `json:"workers,omitempty" yaml:"workers,omitempty"`
	GrowthStdDev       float64 `json:"growth_std_dev" yaml:"growth_std_dev"`
	ExitMultipleStdDev float64 `json:"exit_multiple_std_dev" yaml:"exit_multiple_std_dev"`
	InterestStdDev     float64 `json:"interest_std_dev" yaml:"interest_std_dev"`
}

// WACCBuildup derives the discount rate from CAPM components instead of
// a directly supplied wacc. When present it takes precedence.
type WACCBuildup struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	DebtToEquityRatio float64 `json:"debt_to_equity_ratio" yaml:"debt_to_equity_ratio"`
}

// Assumptions is the full configuration bundle consumed by the pipeline.
// Every numeric driver of the bridge, valuation matrix, EPV, and LBO
// models lives here rather than being hardcoded per company.
type Assumptions struct {
	TrailingWindow []string                  `json:"trailing_window" yaml:"trailing_window"`
	Adjustments    []NormalizationAdjustment `json:"adjustments" yaml:"adjustments"`

	Multiples []float64 `json:"multiples" yaml:"multiples"`
	NetDebt   float64   `json:"net_debt" yaml:"net_debt"`

	DepreciationAmortization float64 `json:"depreciation_amortization" yaml:"depreciation_amortization"`
	TaxRate                  float64 `json:"tax_rate" yaml:"tax_rate"`
	ReinvestmentRate         float64 `json:"reinvestment_rate" yaml:"reinvestment_rate"`
	WACC                     float64 `json:"wacc" yaml:"wacc"`

	WACCBuildup *WACCBuildup `json:"wacc_buildup,omitempty" yaml:"wacc_buildup,omitempty"`

	EntryMultiple        float64            `json:"entry_multiple" yaml:"entry_multiple"`
	ExitMultiple         float64            `json:"exit_multiple" yaml:"exit_multiple"`
	DebtFraction         float64            `json:"debt_fraction" yaml:"debt_fraction"`
	InterestRate         float64            `json:"interest_rate" yaml:"interest_rate"`
	RevenueGrowthRate    float64            `json:"revenue_growth_rate" yaml:"revenue_growth_rate"`
	FCFSweepFraction     float64            `json:"fcf_sweep_fraction" yaml:"fcf_sweep_fraction"`
	ProjectionYears      int                `json:"projection_years" yaml:"projection_years"`
	MaintenanceCapexRate float64            `json:"maintenance_capex_rate" yaml:"maintenance_capex_rate"`
	WorkingCapital       WorkingCapitalDays `json:"working_capital" yaml:"working_capital"`

	Sensitivity SensitivityGrid `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
	MonteCarlo  MonteCarloSpec  `json:"monte_carlo,omitempty" yaml:"monte_carlo,omitempty"`
}

// CompanyDataset is the single external input: the target company's
// periodic statements plus the assumption bundle.
type CompanyDataset struct {
	Company     string         `json:"company" yaml:"company"`
	Currency    string         `json:"currency,omitempty" yaml:"currency,omitempty"`
	Periods     []PeriodRecord `json:"periods" yaml:"periods"`
	Assumptions Assumptions    `json:"assumptions" yaml:"assumptions"`
}

// LoadDataset reads and unmarshals a company dataset from a YAML file.
func LoadDataset(path string) (*CompanyDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var ds CompanyDataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if ds.Company == "" {
		return nil, fmt.Errorf("dataset missing company name")
	}
	if len(ds.Periods) == 0 {
		return nil, fmt.Errorf("dataset has no periods")
	}
	return &ds, nil
}

// Validate checks the derivation invariants on every period:
//   - GrossProfit = Revenue - Total COGS
//   - ReportedEBITDA = Revenue - Total COGS - Total Opex
//
// It returns one message per discrepancy beyond the tolerance. The caller
// decides whether discrepancies are fatal (strict validation) or warnings.
func (d *CompanyDataset) Validate(tolerance float64) []string {
	var issues []string
	seen := make(map[string]bool)
	for _, p := range d.Periods {
		if seen[p.PeriodID] {
			issues = append(issues, fmt.Sprintf("%s: duplicate period_id", p.PeriodID))
		}
		seen[p.PeriodID] = true

		gp := p.Revenue - p.TotalCOGS()
		if math.Abs(gp-p.GrossProfit) > tolerance {
			issues = append(issues, fmt.Sprintf("%s: gross_profit %.2f != revenue - COGS %.2f", p.PeriodID, p.GrossProfit, gp))
		}
		ebitda := p.Revenue - p.TotalCOGS() - p.TotalOpex()
		if math.Abs(ebitda-p.ReportedEBITDA) > tolerance {
			issues = append(issues, fmt.Sprintf("%s: reported_ebitda %.2f != revenue - COGS - opex %.2f", p.PeriodID, p.ReportedEBITDA, ebitda))
		}
	}
	return issues
}
