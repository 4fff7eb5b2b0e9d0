package calc

import (
	"errors"
	"math"
	"testing"

	"privco_valuation/pkg/models"
)

func testPeriods() []models.PeriodRecord {
	mk := func(id string, revenue, cogs, ebitda float64) models.PeriodRecord {
		return models.PeriodRecord{
			PeriodID:    id,
			Revenue:     revenue,
			CostOfGoods: []models.LineItem{{Label: "COGS", Amount: cogs}},
			GrossProfit: revenue - cogs,
			OperatingExpenses: []models.LineItem{
				{Label: "Opex", Amount: revenue - cogs - ebitda},
			},
			ReportedEBITDA: ebitda,
		}
	}
	return []models.PeriodRecord{
		mk("2025-Q1", 2050000, 779000, 351000),
		mk("2025-Q2", 2120000, 802600, 337400),
		mk("2025-Q3", 2250000, 849000, 425000),
		mk("2025-Q4", 2330000, 872400, 496600),
	}
}

func TestBuildTrailingWindowTTM(t *testing.T) {
	// Revenue: 2,050,000 + 2,120,000 + 2,250,000 + 2,330,000 = 8,750,000
	// EBITDA:    351,000 +   337,400 +   425,000 +   496,600 = 1,610,000
	win, err := BuildTrailingWindow(testPeriods(), []string{"2025-Q1", "2025-Q2", "2025-Q3", "2025-Q4"}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if win.Revenue != 8750000 {
		t.Errorf("Expected revenue 8750000, got %f", win.Revenue)
	}
	if win.ReportedEBITDA != 1610000 {
		t.Errorf("Expected reported EBITDA 1610000, got %f", win.ReportedEBITDA)
	}
	// COGS: 779,000 + 802,600 + 849,000 + 872,400 = 3,303,000
	if win.CostOfGoods != 3303000 {
		t.Errorf("Expected COGS 3303000, got %f", win.CostOfGoods)
	}
	if math.Abs(win.COGSRatio()-3303000.0/8750000.0) > 1e-12 {
		t.Errorf("COGS ratio mismatch: %f", win.COGSRatio())
	}
	if len(win.PeriodIDs) != 4 || win.PeriodIDs[0] != "2025-Q1" {
		t.Errorf("window should preserve period order, got %v", win.PeriodIDs)
	}
}

func TestBuildTrailingWindowMissingPeriod(t *testing.T) {
	_, err := BuildTrailingWindow(testPeriods(), []string{"2025-Q1", "2025-Q2", "2025-Q3", "2024-Q4"}, 4)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for missing period, got %v", err)
	}
}

func TestBuildTrailingWindowWrongCadence(t *testing.T) {
	_, err := BuildTrailingWindow(testPeriods(), []string{"2025-Q1", "2025-Q2"}, 4)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for 2-quarter TTM, got %v", err)
	}

	_, err = BuildTrailingWindow(testPeriods(), nil, 0)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for empty window, got %v", err)
	}
}
