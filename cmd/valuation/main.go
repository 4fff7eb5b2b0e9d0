package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"privco_valuation/pkg/core/pipeline"
	"privco_valuation/pkg/core/report"
	"privco_valuation/pkg/models"
)

func main() {
	// Load environment variables
	godotenv.Load()

	dataPath := flag.String("data", "config/sample_company.yaml", "path to the company dataset YAML")
	outDir := flag.String("out", envOr("VALUATION_OUT_DIR", "out"), "directory for JSON/PDF exports")
	writeJSON := flag.Bool("json", true, "write the full report as JSON")
	writePDF := flag.Bool("pdf", false, "write the rendered report as PDF")
	strict := flag.Bool("strict", false, "fail on dataset derivation discrepancies")
	flag.Parse()

	ds, err := models.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	orch := pipeline.NewOrchestrator()
	if *strict {
		orch.SetValidationConfig(pipeline.ValidationConfig{Strict: true, Tolerance: 0.01})
	}

	fmt.Printf("Running valuation analysis for %s...\n", ds.Company)
	result, err := orch.Run(ds)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	for _, warning := range result.Validation {
		fmt.Printf("[WARNING] %s\n", warning)
	}

	printSummary(result)

	if *writeJSON || *writePDF {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}
	slug := strings.ToLower(strings.ReplaceAll(ds.Company, " ", "_"))
	if *writeJSON {
		path := filepath.Join(*outDir, slug+"_analysis.json")
		if err := report.WriteJSON(result, path); err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("[EXPORT] JSON written to %s\n", path)
	}
	if *writePDF {
		path := filepath.Join(*outDir, slug+"_analysis.pdf")
		if err := report.WritePDF(result, path); err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("[EXPORT] PDF written to %s\n", path)
	}
}

func printSummary(r *pipeline.AnalysisReport) {
	fmt.Println("\n--- Trailing Window ---")
	fmt.Printf("Periods:          %s\n", strings.Join(r.Window.PeriodIDs, ", "))
	fmt.Printf("Revenue:          %14.0f\n", r.Window.Revenue)
	fmt.Printf("Reported EBITDA:  %14.0f\n", r.Window.ReportedEBITDA)

	fmt.Println("\n--- EBITDA Bridge ---")
	for _, adj := range r.Bridge.Adjustments {
		fmt.Printf("%-28s %+12.0f\n", adj.Label, adj.Amount)
	}
	fmt.Printf("%-28s %12.0f  (margin %.2f%%)\n", "Adjusted EBITDA", r.Bridge.Adjusted, r.Bridge.Margin*100)

	fmt.Println("\n--- Valuation Matrix ---")
	for _, row := range r.ValuationRows {
		fmt.Printf("%4.1fx  EV %14.0f  Equity %14.0f  EV/Rev %5.2fx\n",
			row.Multiple, row.EnterpriseValue, row.EquityValue, row.EVRevenue)
	}

	fmt.Println("\n--- Earnings Power Value ---")
	fmt.Printf("Unlevered FCF:    %14.0f\n", r.EPV.UnleveredFCF)
	fmt.Printf("Enterprise value: %14.0f\n", r.EPV.EnterpriseValue)
	fmt.Printf("Equity value:     %14.0f\n", r.EPV.EquityValue)
	fmt.Printf("Implied multiple: %13.2fx\n", r.EPV.ImpliedMultiple)

	fmt.Println("\n--- LBO ---")
	fmt.Printf("Entry EV:         %14.0f (%.1fx)\n", r.LBO.EntryEnterpriseValue, r.LBO.EntryMultiple)
	fmt.Printf("Initial debt:     %14.0f\n", r.LBO.InitialDebt)
	fmt.Printf("Sponsor equity:   %14.0f\n", r.LBO.SponsorEquity)
	fmt.Printf("Exit proceeds:    %14.0f (%.1fx exit)\n", r.LBO.ExitEquityProceeds, r.LBO.ExitMultiple)
	fmt.Printf("MOIC:             %13.2fx\n", r.LBO.MOIC)
	fmt.Printf("IRR:              %13.2f%%\n", r.LBO.IRR*100)

	if r.MonteCarlo != nil {
		mc := r.MonteCarlo
		fmt.Printf("\n--- Monte Carlo (%d trials) ---\n", mc.Trials)
		fmt.Printf("Mean IRR %.2f%%  P10 %.2f%%  P50 %.2f%%  P90 %.2f%%  P(loss) %.1f%%\n",
			mc.MeanIRR*100, mc.P10*100, mc.P50*100, mc.P90*100, mc.ProbLoss*100)
	}
	fmt.Println()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
