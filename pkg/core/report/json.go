package report

import (
	"encoding/json"
	"fmt"
	"os"

	"privco_valuation/pkg/core/pipeline"
)

// WriteJSON serializes the full report losslessly to a file. Every numeric
// field of every stage round-trips so downstream tooling can reproduce
// any figure.
func WriteJSON(r *pipeline.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
