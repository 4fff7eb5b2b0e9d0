package valuation

import (
	"errors"
	"fmt"

	"privco_valuation/pkg/core/calc"
)

// ErrInvalidRate signals a rate outside its valid domain: WACC must be
// positive, tax and reinvestment rates must sit in [0, 1).
var ErrInvalidRate = errors.New("invalid rate")

// EPVInput parameters for the earnings-power valuation.
type EPVInput struct {
	AdjustedEBITDA           float64
	DepreciationAmortization float64 // >= 0
	TaxRate                  float64 // [0, 1)
	ReinvestmentRate         float64 // [0, 1)
	WACC                     float64 // > 0
	NetDebt                  float64
}

// EPVResult holds the capitalized earnings-power outputs.
type EPVResult struct {
	EBIT            float64 `json:"ebit"`
	NOPAT           float64 `json:"nopat"`
	Reinvestment    float64 `json:"reinvestment"`
	UnleveredFCF    float64 `json:"unlevered_fcf"`
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	ImpliedMultiple float64 `json:"implied_multiple"`
}

// CalculateEPV capitalizes sustainable unlevered free cash flow at the
// WACC:
//
//	EBIT   = Adjusted EBITDA - D&A
//	NOPAT  = EBIT x (1 - t)
//	UFCF   = NOPAT - EBIT x reinvestment rate
//	EV     = UFCF / WACC
//
// The implied multiple (EV / Adjusted EBITDA) is only defined for a
// positive adjusted EBITDA.
func CalculateEPV(input EPVInput) (EPVResult, error) {
	if input.WACC <= 0 {
		return EPVResult{}, fmt.Errorf("%w: wacc must be positive, got %.4f", ErrInvalidRate, input.WACC)
	}
	if input.TaxRate < 0 || input.TaxRate >= 1 {
		return EPVResult{}, fmt.Errorf("%w: tax rate %.4f outside [0,1)", ErrInvalidRate, input.TaxRate)
	}
	if input.ReinvestmentRate < 0 || input.ReinvestmentRate >= 1 {
		return EPVResult{}, fmt.Errorf("%w: reinvestment rate %.4f outside [0,1)", ErrInvalidRate, input.ReinvestmentRate)
	}
	if input.DepreciationAmortization < 0 {
		return EPVResult{}, fmt.Errorf("%w: D&A must be non-negative, got %.2f", ErrInvalidRate, input.DepreciationAmortization)
	}
	if input.AdjustedEBITDA <= 0 {
		return EPVResult{}, fmt.Errorf("%w: adjusted EBITDA must be positive for an implied multiple, got %.2f", calc.ErrDivisionByZero, input.AdjustedEBITDA)
	}

	ebit := input.AdjustedEBITDA - input.DepreciationAmortization
	nopat := ebit * (1 - input.TaxRate)
	reinvestment := ebit * input.ReinvestmentRate
	ufcf := nopat - reinvestment
	ev := ufcf / input.WACC

	return EPVResult{
		EBIT:            ebit,
		NOPAT:           nopat,
		Reinvestment:    reinvestment,
		UnleveredFCF:    ufcf,
		EnterpriseValue: ev,
		EquityValue:     ev - input.NetDebt,
		ImpliedMultiple: ev / input.AdjustedEBITDA,
	}, nil
}
