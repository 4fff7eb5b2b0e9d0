package valuation

import (
	"errors"
	"math"
	"testing"

	"privco_valuation/pkg/models"
)

// baseLBOInput uses round numbers so every year-1 line can be checked by
// hand. DSO = DIO = DPO = 36.5 makes each day-count leg exactly 10% of
// its base, and the inventory and payables legs cancel.
func baseLBOInput() LBOInput {
	return LBOInput{
		AdjustedEBITDA:           200000, // 20% margin on 1,000,000
		BaseRevenue:              1000000,
		COGSRatio:                0.5,
		EntryMultiple:            5.0,
		ExitMultiple:             5.0,
		DebtFraction:             0.6,
		InterestRate:             0.10,
		RevenueGrowth:            0.10,
		SweepFraction:            1.0,
		DepreciationAmortization: 20000,
		TaxRate:                  0.25,
		MaintenanceCapexRate:     0.03,
		WorkingCapital: models.WorkingCapitalDays{
			DSO: 36.5, DIO: 36.5, DPO: 36.5, IncrementalFraction: 0.08,
		},
		ProjectionYears: 5,
	}
}

func TestLBOYearOne(t *testing.T) {
	// Entry EV = 200,000 x 5 = 1,000,000; debt 600,000; equity 400,000.
	// Year 1:
	//   revenue  = 1,100,000
	//   EBITDA   = 220,000 (20% margin held constant)
	//   EBIT     = 200,000; NOPAT = 150,000
	//   capex    = 33,000
	//   WC req   = 1,100,000 x 36.5/365 = 110,000 (DIO and DPO legs cancel)
	//   dWC      = 110,000 x 0.10 = 11,000
	//   interest = 600,000 x 0.10 = 60,000
	//   FCF      = 150,000 - 33,000 - 11,000 = 106,000
	//   paydown  = (106,000 - 60,000) x 1.0 = 46,000
	//   debt     = 554,000
	res, err := CalculateLBO(baseLBOInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EntryEnterpriseValue != 1000000 || res.InitialDebt != 600000 || res.SponsorEquity != 400000 {
		t.Fatalf("entry structure wrong: %+v", res)
	}

	y1 := res.Years[0]
	checks := []struct {
		label string
		got   float64
		want  float64
	}{
		{"revenue", y1.Revenue, 1100000},
		{"ebitda", y1.EBITDA, 220000},
		{"ebit", y1.EBIT, 200000},
		{"nopat", y1.NOPAT, 150000},
		{"capex", y1.MaintenanceCapex, 33000},
		{"delta WC", y1.DeltaWorkingCapital, 11000},
		{"interest", y1.InterestExpense, 60000},
		{"fcf", y1.FCFBeforeDebtService, 106000},
		{"paydown", y1.DebtPaydown, 46000},
		{"ending debt", y1.EndingDebt, 554000},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.01 {
			t.Errorf("year 1 %s: expected %f, got %f", c.label, c.want, c.got)
		}
	}
}

func TestLBOSingleYearExit(t *testing.T) {
	// With a 1-year hold, exit EV = 220,000 x 5 = 1,100,000;
	// proceeds = 1,100,000 - 554,000 = 546,000;
	// MOIC = 546,000 / 400,000 = 1.365; IRR = MOIC - 1 for N=1.
	input := baseLBOInput()
	input.ProjectionYears = 1
	res, err := CalculateLBO(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.ExitEquityProceeds-546000) > 0.01 {
		t.Errorf("Expected proceeds 546000, got %f", res.ExitEquityProceeds)
	}
	if math.Abs(res.MOIC-1.365) > 0.0001 {
		t.Errorf("Expected MOIC 1.365, got %f", res.MOIC)
	}
	if math.Abs(res.IRR-0.365) > 0.0001 {
		t.Errorf("Expected IRR 0.365, got %f", res.IRR)
	}
}

func TestLBODebtNonIncreasing(t *testing.T) {
	res, err := CalculateLBO(baseLBOInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prior := res.InitialDebt
	for _, y := range res.Years {
		if y.EndingDebt > prior {
			t.Errorf("year %d: debt increased from %f to %f", y.Year, prior, y.EndingDebt)
		}
		if y.EndingDebt < 0 {
			t.Errorf("year %d: debt went negative: %f", y.Year, y.EndingDebt)
		}
		prior = y.EndingDebt
	}
}

func TestLBOZeroSweepKeepsDebt(t *testing.T) {
	input := baseLBOInput()
	input.SweepFraction = 0
	res, err := CalculateLBO(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, y := range res.Years {
		if y.EndingDebt != res.InitialDebt {
			t.Errorf("year %d: debt %f should equal initial %f with zero sweep", y.Year, y.EndingDebt, res.InitialDebt)
		}
	}
}

func TestLBOZeroGrowthConstantRevenue(t *testing.T) {
	input := baseLBOInput()
	input.RevenueGrowth = 0
	res, err := CalculateLBO(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, y := range res.Years {
		if math.Abs(y.Revenue-input.BaseRevenue) > 1e-6 {
			t.Errorf("year %d: revenue %f should stay at base %f", y.Year, y.Revenue, input.BaseRevenue)
		}
	}
}

func TestLBODebtFloorClamp(t *testing.T) {
	// Tiny leverage and huge cash flow: the sweep would overshoot, so the
	// balance clamps at zero instead of going negative.
	input := baseLBOInput()
	input.DebtFraction = 0.05
	res, err := CalculateLBO(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	final := res.Years[len(res.Years)-1]
	if final.EndingDebt != 0 {
		t.Errorf("Expected debt paid to zero, got %f", final.EndingDebt)
	}
	for _, y := range res.Years {
		if y.EndingDebt < 0 {
			t.Errorf("year %d: debt negative: %f", y.Year, y.EndingDebt)
		}
	}
}

func TestLBOOverLeveredEntry(t *testing.T) {
	input := baseLBOInput()
	input.DebtFraction = 1.0
	if _, err := CalculateLBO(input); !errors.Is(err, ErrNegativeSponsorEquity) {
		t.Errorf("Expected ErrNegativeSponsorEquity at 100%% debt, got %v", err)
	}
	input.DebtFraction = 1.2
	if _, err := CalculateLBO(input); !errors.Is(err, ErrNegativeSponsorEquity) {
		t.Errorf("Expected ErrNegativeSponsorEquity at 120%% debt, got %v", err)
	}
}

func TestLBOInvalidInputs(t *testing.T) {
	input := baseLBOInput()
	input.EntryMultiple = 0
	if _, err := CalculateLBO(input); !errors.Is(err, ErrInvalidMultiple) {
		t.Errorf("Expected ErrInvalidMultiple for zero entry multiple, got %v", err)
	}

	input = baseLBOInput()
	input.ExitMultiple = -1
	if _, err := CalculateLBO(input); !errors.Is(err, ErrInvalidMultiple) {
		t.Errorf("Expected ErrInvalidMultiple for negative exit multiple, got %v", err)
	}

	input = baseLBOInput()
	input.ProjectionYears = 0
	if _, err := CalculateLBO(input); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("Expected error for zero projection years, got %v", err)
	}
}

func TestLBOClosedFormIRR(t *testing.T) {
	// IRR^N consistency: (1+IRR)^N must equal MOIC exactly, since the
	// model has a single terminal cash flow.
	res, err := CalculateLBO(baseLBOInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(math.Pow(1+res.IRR, 5)-res.MOIC) > 1e-9 {
		t.Errorf("(1+IRR)^5 = %f != MOIC %f", math.Pow(1+res.IRR, 5), res.MOIC)
	}
}
