// Package projection builds the multi-year operating and debt-paydown
// forecast behind the LBO model. The recurrence is strictly sequential:
// each year's interest and paydown depend on the prior year's ending
// debt balance.
package projection

import (
	"math"

	"privco_valuation/pkg/models"
)

// YearProjection is one projected year. Values are model outputs, not
// display-formatted figures.
type YearProjection struct {
	Year                  int     `json:"year"`
	Revenue               float64 `json:"revenue"`
	EBITDA                float64 `json:"ebitda"`
	EBIT                  float64 `json:"ebit"`
	NOPAT                 float64 `json:"nopat"`
	MaintenanceCapex      float64 `json:"maintenance_capex"`
	DeltaWorkingCapital   float64 `json:"delta_working_capital"`
	InterestExpense       float64 `json:"interest_expense"`
	FCFBeforeDebtService  float64 `json:"fcf_before_debt_service"`
	DebtPaydown           float64 `json:"debt_paydown"`
	EndingDebt            float64 `json:"ending_debt"`
}

// Drivers holds everything the year loop needs. TargetMargin is held
// constant at the adjusted TTM margin (a modeling simplification, not a
// forecast of margin expansion). COGSRatio sizes the inventory and
// payables legs of the year-1 working-capital requirement.
type Drivers struct {
	BaseRevenue              float64
	TargetMargin             float64
	COGSRatio                float64
	DepreciationAmortization float64
	TaxRate                  float64
	MaintenanceCapexRate     float64
	InterestRate             float64
	RevenueGrowth            float64
	SweepFraction            float64
	Years                    int
	WorkingCapital           models.WorkingCapitalDays
}

// ProjectYears runs the N-year recurrence from an opening debt balance.
// The debt balance is floor-clamped at zero: once debt is retired the
// model retains (and ignores) further excess cash rather than building a
// separate cash balance.
func ProjectYears(d Drivers, openingDebt float64) []YearProjection {
	years := make([]YearProjection, 0, d.Years)
	debt := openingDebt
	priorRevenue := d.BaseRevenue

	for year := 1; year <= d.Years; year++ {
		revenue := d.BaseRevenue * math.Pow(1+d.RevenueGrowth, float64(year))
		ebitda := revenue * d.TargetMargin
		ebit := ebitda - d.DepreciationAmortization
		nopat := ebit * (1 - d.TaxRate)
		capex := revenue * d.MaintenanceCapexRate
		deltaWC := d.deltaWorkingCapital(year, revenue, priorRevenue)

		interest := debt * d.InterestRate
		fcf := nopat - capex - deltaWC

		excess := fcf - interest
		if excess < 0 {
			excess = 0
		}
		paydown := excess * d.SweepFraction
		if paydown > debt {
			paydown = debt
		}
		debt -= paydown

		years = append(years, YearProjection{
			Year:                 year,
			Revenue:              revenue,
			EBITDA:               ebitda,
			EBIT:                 ebit,
			NOPAT:                nopat,
			MaintenanceCapex:     capex,
			DeltaWorkingCapital:  deltaWC,
			InterestExpense:      interest,
			FCFBeforeDebtService: fcf,
			DebtPaydown:          paydown,
			EndingDebt:           debt,
		})
		priorRevenue = revenue
	}
	return years
}

// deltaWorkingCapital models the cash absorbed by growth. Year 1 builds
// the full requirement from the day-count assumptions (receivables on
// revenue, inventory and payables on COGS) and scales it by the growth
// fraction versus the prior base. Later years use the simplified rule:
// incremental revenue times a fixed fraction. This is an acknowledged
// approximation, not a full working-capital roll-forward.
func (d Drivers) deltaWorkingCapital(year int, revenue, priorRevenue float64) float64 {
	if year == 1 {
		cogs := revenue * d.COGSRatio
		wc := d.WorkingCapital
		requirement := revenue*wc.DSO/365.0 + cogs*wc.DIO/365.0 - cogs*wc.DPO/365.0
		if priorRevenue == 0 {
			return 0
		}
		growthFraction := (revenue - priorRevenue) / priorRevenue
		return requirement * growthFraction
	}
	return (revenue - priorRevenue) * d.WorkingCapital.IncrementalFraction
}
