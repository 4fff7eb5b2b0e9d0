// Package report renders finished AnalysisReport values for humans:
// markdown, JSON files, and PDF. All display formatting (currency,
// rounding, percentages) lives here, outside the engine.
package report

import (
	"fmt"
	"strings"

	"privco_valuation/pkg/core/pipeline"
	"privco_valuation/pkg/core/sensitivity"
)

// RenderMarkdown builds the full analysis document: EBITDA bridge walk,
// valuation matrix, EPV block, LBO projection table, and sensitivity
// tables.
func RenderMarkdown(r *pipeline.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Valuation Analysis - %s\n\n", r.Company)
	fmt.Fprintf(&b, "Run %s, generated %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	// Trailing window
	fmt.Fprintf(&b, "## Trailing Window (%s)\n\n", strings.Join(r.Window.PeriodIDs, ", "))
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Revenue | %s |\n", money(r.Window.Revenue))
	fmt.Fprintf(&b, "| Cost of goods | %s |\n", money(r.Window.CostOfGoods))
	fmt.Fprintf(&b, "| Reported EBITDA | %s |\n\n", money(r.Window.ReportedEBITDA))

	// Bridge
	fmt.Fprintf(&b, "## EBITDA Normalization Bridge\n\n")
	fmt.Fprintf(&b, "| Step | Amount |\n|---|---|\n")
	fmt.Fprintf(&b, "| Reported EBITDA | %s |\n", money(r.Bridge.Reported))
	for _, adj := range r.Bridge.Adjustments {
		fmt.Fprintf(&b, "| %s | %s |\n", adj.Label, signedMoney(adj.Amount))
	}
	fmt.Fprintf(&b, "| **Adjusted EBITDA** | **%s** |\n\n", money(r.Bridge.Adjusted))
	fmt.Fprintf(&b, "Adjusted margin: %s of trailing revenue\n\n", percent(r.Bridge.Margin))

	// Valuation matrix
	fmt.Fprintf(&b, "## Valuation Matrix\n\n")
	fmt.Fprintf(&b, "| Multiple | Enterprise Value | Equity Value | EV/Revenue |\n|---|---|---|---|\n")
	for _, row := range r.ValuationRows {
		fmt.Fprintf(&b, "| %.1fx | %s | %s | %.2fx |\n", row.Multiple, money(row.EnterpriseValue), money(row.EquityValue), row.EVRevenue)
	}
	b.WriteString("\n")

	// EPV
	fmt.Fprintf(&b, "## Earnings Power Value\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| EBIT | %s |\n", money(r.EPV.EBIT))
	fmt.Fprintf(&b, "| NOPAT | %s |\n", money(r.EPV.NOPAT))
	fmt.Fprintf(&b, "| Reinvestment | %s |\n", money(r.EPV.Reinvestment))
	fmt.Fprintf(&b, "| Unlevered FCF | %s |\n", money(r.EPV.UnleveredFCF))
	fmt.Fprintf(&b, "| Enterprise value | %s |\n", money(r.EPV.EnterpriseValue))
	fmt.Fprintf(&b, "| Equity value | %s |\n", money(r.EPV.EquityValue))
	fmt.Fprintf(&b, "| Implied multiple | %.2fx |\n\n", r.EPV.ImpliedMultiple)

	// LBO
	fmt.Fprintf(&b, "## LBO Analysis\n\n")
	fmt.Fprintf(&b, "Entry at %.1fx (%s EV), %s debt / %s sponsor equity.\n\n",
		r.LBO.EntryMultiple, money(r.LBO.EntryEnterpriseValue), money(r.LBO.InitialDebt), money(r.LBO.SponsorEquity))
	fmt.Fprintf(&b, "| Year | Revenue | EBITDA | NOPAT | Capex | Chg WC | Interest | Paydown | Ending Debt |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|---|---|---|\n")
	for _, y := range r.LBO.Years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			y.Year, money(y.Revenue), money(y.EBITDA), money(y.NOPAT), money(y.MaintenanceCapex),
			money(y.DeltaWorkingCapital), money(y.InterestExpense), money(y.DebtPaydown), money(y.EndingDebt))
	}
	fmt.Fprintf(&b, "\nExit at %.1fx: %s EV, %s equity proceeds. MOIC %.2fx, IRR %s.\n\n",
		r.LBO.ExitMultiple, money(r.LBO.ExitEnterpriseValue), money(r.LBO.ExitEquityProceeds), r.LBO.MOIC, percent(r.LBO.IRR))

	// Sensitivity
	for _, table := range r.Sensitivity {
		fmt.Fprintf(&b, "## Sensitivity - %s\n\n", tableTitle(table))
		fmt.Fprintf(&b, "| Value | IRR | MOIC | EPV Equity |\n|---|---|---|---|\n")
		for _, p := range table.Points {
			fmt.Fprintf(&b, "| %s | %s | %.2fx | %s |\n", driverValue(table, p), percent(p.IRR), p.MOIC, money(p.EquityValue))
		}
		b.WriteString("\n")
	}

	// Monte Carlo
	if r.MonteCarlo != nil {
		mc := r.MonteCarlo
		fmt.Fprintf(&b, "## Monte Carlo (%d trials, seed %d)\n\n", mc.Trials, mc.Seed)
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Mean IRR | %s |\n", percent(mc.MeanIRR))
		fmt.Fprintf(&b, "| P10 | %s |\n", percent(mc.P10))
		fmt.Fprintf(&b, "| P50 | %s |\n", percent(mc.P50))
		fmt.Fprintf(&b, "| P90 | %s |\n", percent(mc.P90))
		fmt.Fprintf(&b, "| Probability of loss | %s |\n\n", percent(mc.ProbLoss))
	}

	if len(r.Validation) > 0 {
		fmt.Fprintf(&b, "## Data Validation Warnings\n\n")
		for _, issue := range r.Validation {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func tableTitle(t sensitivity.Table) string {
	if t.Driver == sensitivity.DriverAdjustment {
		return fmt.Sprintf("adjustment %q", t.Label)
	}
	return string(t.Driver)
}

// driverValue formats rate drivers as percentages and multiples/amounts
// as plain numbers.
func driverValue(t sensitivity.Table, p sensitivity.Point) string {
	switch t.Driver {
	case sensitivity.DriverWACC, sensitivity.DriverGrowthRate, sensitivity.DriverInterestRate:
		return percent(p.DriverValue)
	case sensitivity.DriverEntryMultiple, sensitivity.DriverExitMultiple:
		return fmt.Sprintf("%.1fx", p.DriverValue)
	default:
		return money(p.DriverValue)
	}
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	// Insert thousands separators.
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "(" + string(out) + ")"
	}
	return string(out)
}

func signedMoney(v float64) string {
	if v >= 0 {
		return "+" + money(v)
	}
	return "-" + money(-v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
