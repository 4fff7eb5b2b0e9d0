package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDatasetYAML(t *testing.T) {
	doc := `
company: Testco
currency: USD
periods:
  - period_id: 2025-Q1
    revenue: 1000000
    cost_of_goods:
      - { label: Materials, amount: 300000 }
      - { label: Labor, amount: 100000 }
    gross_profit: 600000
    operating_expenses:
      - { label: Salaries, amount: 350000 }
      - { label: Rent, amount: 50000 }
    reported_ebitda: 200000
assumptions:
  trailing_window: [2025-Q1]
  multiples: [5.0, 6.0]
  net_debt: 150000
  tax_rate: 0.25
  wacc: 0.12
`
	path := filepath.Join(t.TempDir(), "testco.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Company != "Testco" || len(ds.Periods) != 1 {
		t.Fatalf("dataset not loaded: %+v", ds)
	}
	p := ds.Periods[0]
	if p.TotalCOGS() != 400000 {
		t.Errorf("Expected COGS 400000, got %f", p.TotalCOGS())
	}
	if p.TotalOpex() != 400000 {
		t.Errorf("Expected opex 400000, got %f", p.TotalOpex())
	}
	if ds.Assumptions.Multiples[1] != 6.0 {
		t.Errorf("assumptions not parsed: %+v", ds.Assumptions)
	}
	if issues := ds.Validate(0.01); len(issues) != 0 {
		t.Errorf("clean dataset should validate: %v", issues)
	}
}

func TestLoadDatasetErrors(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(path, []byte("company: X\nperiods: []\n"), 0o644)
	if _, err := LoadDataset(path); err == nil {
		t.Errorf("expected error for dataset with no periods")
	}
}

func TestValidateFindsDiscrepancies(t *testing.T) {
	ds := &CompanyDataset{
		Company: "Testco",
		Periods: []PeriodRecord{
			{
				PeriodID:          "2025-Q1",
				Revenue:           1000000,
				CostOfGoods:       []LineItem{{Label: "COGS", Amount: 400000}},
				GrossProfit:       700000, // should be 600000
				OperatingExpenses: []LineItem{{Label: "Opex", Amount: 400000}},
				ReportedEBITDA:    250000, // should be 200000
			},
			{PeriodID: "2025-Q1"}, // duplicate id
		},
	}
	issues := ds.Validate(0.01)
	if len(issues) < 3 {
		t.Errorf("expected gross profit, EBITDA, and duplicate-id issues, got %v", issues)
	}
}

func TestValidateTolerance(t *testing.T) {
	ds := &CompanyDataset{
		Company: "Testco",
		Periods: []PeriodRecord{{
			PeriodID:          "2025-Q1",
			Revenue:           1000000,
			CostOfGoods:       []LineItem{{Label: "COGS", Amount: 400000}},
			GrossProfit:       600000.005, // within rounding tolerance
			OperatingExpenses: []LineItem{{Label: "Opex", Amount: 400000}},
			ReportedEBITDA:    200000,
		}},
	}
	if issues := ds.Validate(0.01); len(issues) != 0 {
		t.Errorf("sub-tolerance gap should pass: %v", issues)
	}
	if issues := ds.Validate(0.001); len(issues) != 1 {
		t.Errorf("tighter tolerance should flag the gap: %v", issues)
	}
}
