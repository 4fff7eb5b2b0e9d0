package projection

import (
	"math"
	"testing"

	"privco_valuation/pkg/models"
)

func testDrivers() Drivers {
	return Drivers{
		BaseRevenue:              1000000,
		TargetMargin:             0.2,
		COGSRatio:                0.5,
		DepreciationAmortization: 20000,
		TaxRate:                  0.25,
		MaintenanceCapexRate:     0.03,
		InterestRate:             0.10,
		RevenueGrowth:            0.10,
		SweepFraction:            1.0,
		Years:                    3,
		WorkingCapital: models.WorkingCapitalDays{
			DSO: 36.5, DIO: 36.5, DPO: 36.5, IncrementalFraction: 0.08,
		},
	}
}

func TestProjectYearsSequence(t *testing.T) {
	years := ProjectYears(testDrivers(), 600000)
	if len(years) != 3 {
		t.Fatalf("expected 3 years, got %d", len(years))
	}
	for i, y := range years {
		if y.Year != i+1 {
			t.Errorf("year index %d at position %d", y.Year, i)
		}
	}
	// Revenue compounds: 1,100,000 / 1,210,000 / 1,331,000
	wantRevenue := []float64{1100000, 1210000, 1331000}
	for i, w := range wantRevenue {
		if math.Abs(years[i].Revenue-w) > 0.01 {
			t.Errorf("year %d revenue: expected %f, got %f", i+1, w, years[i].Revenue)
		}
	}
}

func TestDeltaWorkingCapitalRules(t *testing.T) {
	years := ProjectYears(testDrivers(), 600000)

	// Year 1: full requirement from day counts. DIO and DPO cancel at
	// equal days, leaving 1,100,000 x 36.5/365 = 110,000, scaled by the
	// 10% growth fraction = 11,000.
	if math.Abs(years[0].DeltaWorkingCapital-11000) > 0.01 {
		t.Errorf("year 1 dWC: expected 11000, got %f", years[0].DeltaWorkingCapital)
	}

	// Year 2: simplified rule, (1,210,000 - 1,100,000) x 0.08 = 8,800.
	if math.Abs(years[1].DeltaWorkingCapital-8800) > 0.01 {
		t.Errorf("year 2 dWC: expected 8800, got %f", years[1].DeltaWorkingCapital)
	}

	// Year 3: (1,331,000 - 1,210,000) x 0.08 = 9,680.
	if math.Abs(years[2].DeltaWorkingCapital-9680) > 0.01 {
		t.Errorf("year 3 dWC: expected 9680, got %f", years[2].DeltaWorkingCapital)
	}
}

func TestInterestChargedOnOpeningBalance(t *testing.T) {
	years := ProjectYears(testDrivers(), 600000)
	// Year 1 interest: 600,000 x 10% = 60,000.
	if math.Abs(years[0].InterestExpense-60000) > 0.01 {
		t.Errorf("year 1 interest: expected 60000, got %f", years[0].InterestExpense)
	}
	// Year 2 interest is charged on year 1's ending balance.
	want := years[0].EndingDebt * 0.10
	if math.Abs(years[1].InterestExpense-want) > 0.01 {
		t.Errorf("year 2 interest: expected %f, got %f", want, years[1].InterestExpense)
	}
}

func TestNegativeGrowthReleasesWorkingCapital(t *testing.T) {
	d := testDrivers()
	d.RevenueGrowth = -0.05
	years := ProjectYears(d, 600000)
	// Shrinking revenue releases working capital in every year.
	for _, y := range years {
		if y.DeltaWorkingCapital >= 0 {
			t.Errorf("year %d: expected negative dWC under shrinking revenue, got %f", y.Year, y.DeltaWorkingCapital)
		}
	}
}
