package calc

import (
	"fmt"

	"privco_valuation/pkg/models"
)

// EBITDABridge is the reported-to-adjusted walk. The adjustment list keeps
// its input order so reports can show each labeled step; the total itself
// is order-independent.
type EBITDABridge struct {
	Reported    float64                          `json:"reported"`
	Adjustments []models.NormalizationAdjustment `json:"adjustments"`
	Adjusted    float64                          `json:"adjusted"`
	Margin      float64                          `json:"margin"`
}

// BuildBridge applies the signed normalization adjustments to the window's
// reported EBITDA and computes the adjusted margin on window revenue.
// An empty adjustment list leaves adjusted == reported.
func BuildBridge(window TrailingWindow, adjustments []models.NormalizationAdjustment) (EBITDABridge, error) {
	if window.Revenue <= 0 {
		return EBITDABridge{}, fmt.Errorf("%w: window revenue must be positive, got %.2f", ErrDivisionByZero, window.Revenue)
	}

	adjusted := window.ReportedEBITDA
	for _, adj := range adjustments {
		adjusted += adj.Amount
	}

	// Copy so later mutation of the caller's slice cannot alter the bridge.
	kept := make([]models.NormalizationAdjustment, len(adjustments))
	copy(kept, adjustments)

	return EBITDABridge{
		Reported:    window.ReportedEBITDA,
		Adjustments: kept,
		Adjusted:    adjusted,
		Margin:      adjusted / window.Revenue,
	}, nil
}
