// Hand-check of the engine against a worked reference case:
// a 4-quarter trailing window, a three-step bridge, an 8.5x matrix row,
// and a 72.5% leveraged entry. Run it after touching any core formula.
package main

import (
	"fmt"
	"math"

	"privco_valuation/pkg/core/calc"
	"privco_valuation/pkg/core/valuation"
	"privco_valuation/pkg/models"
)

var failures int

func check(label string, got, want float64) {
	if math.Abs(got-want) > 0.01 {
		failures++
		fmt.Printf("FAIL %-40s got %.2f, want %.2f\n", label, got, want)
		return
	}
	fmt.Printf("ok   %-40s %.2f\n", label, got)
}

func main() {
	periods := []models.PeriodRecord{
		quarter("2025-Q1", 2050000, 779000, 351000),
		quarter("2025-Q2", 2120000, 802600, 337400),
		quarter("2025-Q3", 2250000, 849000, 425000),
		quarter("2025-Q4", 2330000, 872400, 496600),
	}

	window, err := calc.BuildTrailingWindow(periods, []string{"2025-Q1", "2025-Q2", "2025-Q3", "2025-Q4"}, 4)
	if err != nil {
		fmt.Printf("FAIL window: %v\n", err)
		return
	}
	check("TTM revenue", window.Revenue, 8750000)
	check("TTM reported EBITDA", window.ReportedEBITDA, 1610000)

	bridge, err := calc.BuildBridge(window, []models.NormalizationAdjustment{
		{Label: "Owner compensation add-back", Amount: 200000},
		{Label: "One-time legal settlement", Amount: 80000},
		{Label: "Rent to market", Amount: -84000},
	})
	if err != nil {
		fmt.Printf("FAIL bridge: %v\n", err)
		return
	}
	check("Adjusted EBITDA", bridge.Adjusted, 1806000)
	check("Adjusted margin", bridge.Margin, 0.2064)

	rows, err := valuation.BuildValuationMatrix(bridge.Adjusted, []float64{8.5}, 2030000, window.Revenue)
	if err != nil {
		fmt.Printf("FAIL matrix: %v\n", err)
		return
	}
	check("EV at 8.5x", rows[0].EnterpriseValue, 15351000)
	check("Equity at 8.5x", rows[0].EquityValue, 13321000)

	lbo, err := valuation.CalculateLBO(valuation.LBOInput{
		AdjustedEBITDA:           bridge.Adjusted,
		BaseRevenue:              window.Revenue,
		COGSRatio:                window.COGSRatio(),
		EntryMultiple:            8.5,
		ExitMultiple:             8.0,
		DebtFraction:             0.725,
		InterestRate:             0.09,
		RevenueGrowth:            0.05,
		SweepFraction:            0.85,
		DepreciationAmortization: 140000,
		TaxRate:                  0.26,
		MaintenanceCapexRate:     0.02,
		WorkingCapital:           models.WorkingCapitalDays{DSO: 38, DIO: 22, DPO: 24, IncrementalFraction: 0.08},
		ProjectionYears:          5,
	})
	if err != nil {
		fmt.Printf("FAIL lbo: %v\n", err)
		return
	}
	check("Entry EV", lbo.EntryEnterpriseValue, 15351000)
	check("Initial debt", lbo.InitialDebt, 11129475)
	check("Sponsor equity", lbo.SponsorEquity, 4221525)
	// Exit EBITDA compounds the adjusted figure at 5% for 5 years.
	check("Exit EBITDA", lbo.ExitEBITDA, 1806000*math.Pow(1.05, 5))

	if failures == 0 {
		fmt.Println("\nAll checks passed.")
	} else {
		fmt.Printf("\n%d check(s) failed.\n", failures)
	}
}

// quarter builds a period whose line items satisfy the derivation
// invariants for the given revenue, total COGS, and EBITDA.
func quarter(id string, revenue, cogs, ebitda float64) models.PeriodRecord {
	opex := revenue - cogs - ebitda
	return models.PeriodRecord{
		PeriodID:    id,
		Revenue:     revenue,
		CostOfGoods: []models.LineItem{{Label: "Cost of goods sold", Amount: cogs}},
		GrossProfit: revenue - cogs,
		OperatingExpenses: []models.LineItem{
			{Label: "Operating expenses", Amount: opex},
		},
		ReportedEBITDA: ebitda,
	}
}
