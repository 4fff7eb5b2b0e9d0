package valuation

import (
	"fmt"
)

// WACCBuildupInput parameters for deriving the discount rate from CAPM
// and the Hamada relever, instead of supplying WACC directly.
type WACCBuildupInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate"`
	DebtToEquityRatio float64 `json:"debt_to_equity_ratio" yaml:"debt_to_equity_ratio"`
}

// WACCBuildupResult holds the derived rates.
type WACCBuildupResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after-tax
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
	WACC         float64 `json:"wacc"`
}

// CalculateWACCBuildup relevers beta for the target capital structure
// (Hamada), prices equity via CAPM, and blends with after-tax debt cost:
//
//	BetaL = BetaU x (1 + (1-t) x D/E)
//	Ke    = Rf + BetaL x MRP
//	Kd    = PreTaxKd x (1 - t)
//	WACC  = Ke x E/V + Kd x D/V
func CalculateWACCBuildup(input WACCBuildupInput) (WACCBuildupResult, error) {
	if input.TaxRate < 0 || input.TaxRate >= 1 {
		return WACCBuildupResult{}, fmt.Errorf("%w: tax rate %.4f outside [0,1)", ErrInvalidRate, input.TaxRate)
	}
	if input.DebtToEquityRatio < 0 {
		return WACCBuildupResult{}, fmt.Errorf("%w: D/E ratio must be non-negative, got %.4f", ErrInvalidRate, input.DebtToEquityRatio)
	}

	leveredBeta := input.UnleveredBeta * (1 + (1-input.TaxRate)*input.DebtToEquityRatio)
	ke := input.RiskFreeRate + leveredBeta*input.MarketRiskPremium
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	// D/E = x  =>  D/V = x/(1+x), E/V = 1/(1+x)
	wd := input.DebtToEquityRatio / (1 + input.DebtToEquityRatio)
	we := 1.0 / (1 + input.DebtToEquityRatio)

	wacc := ke*we + kd*wd
	if wacc <= 0 {
		return WACCBuildupResult{}, fmt.Errorf("%w: build-up produced non-positive WACC %.4f", ErrInvalidRate, wacc)
	}

	return WACCBuildupResult{
		LeveredBeta:  leveredBeta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WeightDebt:   wd,
		WeightEquity: we,
		WACC:         wacc,
	}, nil
}
