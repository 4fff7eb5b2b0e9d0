// Package valuation implements the multiple-based valuation matrix, the
// earnings-power-value model, and the leveraged-buyout return model on
// top of an adjusted EBITDA figure.
package valuation

import (
	"errors"
	"fmt"

	"privco_valuation/pkg/core/calc"
)

// ErrInvalidMultiple signals a non-positive EV/EBITDA multiple.
var ErrInvalidMultiple = errors.New("invalid multiple")

// ValuationRow is one line of the multiple matrix. Rows are immutable
// once computed; duplicates in the input produce duplicate rows.
type ValuationRow struct {
	Multiple        float64 `json:"multiple"`
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	EVRevenue       float64 `json:"ev_revenue"`
}

// BuildValuationMatrix computes EV, equity value, and EV/Revenue for each
// multiple, preserving input order. Net debt may be negative (net cash).
func BuildValuationMatrix(adjustedEBITDA float64, multiples []float64, netDebt, revenue float64) ([]ValuationRow, error) {
	if revenue <= 0 {
		return nil, fmt.Errorf("%w: revenue must be positive, got %.2f", calc.ErrDivisionByZero, revenue)
	}
	rows := make([]ValuationRow, 0, len(multiples))
	for _, m := range multiples {
		if m <= 0 {
			return nil, fmt.Errorf("%w: %.2f", ErrInvalidMultiple, m)
		}
		ev := adjustedEBITDA * m
		rows = append(rows, ValuationRow{
			Multiple:        m,
			EnterpriseValue: ev,
			EquityValue:     ev - netDebt,
			EVRevenue:       ev / revenue,
		})
	}
	return rows, nil
}
