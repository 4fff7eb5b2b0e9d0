// Package calc provides the deterministic first stages of the valuation
// pipeline: trailing-window aggregation and EBITDA normalization.
package calc

import (
	"errors"
	"fmt"

	"privco_valuation/pkg/models"
)

// ErrInvalidWindow signals a trailing window referencing a missing period
// or a window whose length does not match the expected cadence.
var ErrInvalidWindow = errors.New("invalid trailing window")

// ErrDivisionByZero signals a ratio whose denominator is zero or negative
// (revenue, WACC capitalization base, or adjusted EBITDA).
var ErrDivisionByZero = errors.New("division by zero")

// TrailingWindow is the summed view of a contiguous run of periods
// (e.g. trailing twelve months = 4 quarters). Sums cover only fields
// present on every PeriodRecord.
type TrailingWindow struct {
	PeriodIDs      []string `json:"period_ids"`
	Revenue        float64  `json:"revenue"`
	CostOfGoods    float64  `json:"cost_of_goods"`
	ReportedEBITDA float64  `json:"reported_ebitda"`
}

// COGSRatio returns total COGS as a fraction of window revenue. Used by
// the LBO working-capital model to size inventory and payables.
func (w TrailingWindow) COGSRatio() float64 {
	if w.Revenue == 0 {
		return 0
	}
	return w.CostOfGoods / w.Revenue
}

// BuildTrailingWindow sums revenue, COGS, and reported EBITDA over the
// named periods, in the order given. expectedLen guards the cadence:
// a TTM window must name exactly 4 quarters. Pass 0 to skip that check.
func BuildTrailingWindow(periods []models.PeriodRecord, windowIDs []string, expectedLen int) (TrailingWindow, error) {
	if len(windowIDs) == 0 {
		return TrailingWindow{}, fmt.Errorf("%w: empty window", ErrInvalidWindow)
	}
	if expectedLen > 0 && len(windowIDs) != expectedLen {
		return TrailingWindow{}, fmt.Errorf("%w: got %d periods, expected %d", ErrInvalidWindow, len(windowIDs), expectedLen)
	}

	byID := make(map[string]models.PeriodRecord, len(periods))
	for _, p := range periods {
		byID[p.PeriodID] = p
	}

	win := TrailingWindow{PeriodIDs: make([]string, 0, len(windowIDs))}
	for _, id := range windowIDs {
		p, ok := byID[id]
		if !ok {
			return TrailingWindow{}, fmt.Errorf("%w: period %q not in dataset", ErrInvalidWindow, id)
		}
		win.PeriodIDs = append(win.PeriodIDs, id)
		win.Revenue += p.Revenue
		win.CostOfGoods += p.TotalCOGS()
		win.ReportedEBITDA += p.ReportedEBITDA
	}
	return win, nil
}
