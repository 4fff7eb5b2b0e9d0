// Package valuation exposes the analysis pipeline over HTTP. The handler
// is an export collaborator: it consumes finished engine structures and
// maps engine errors to configuration errors for the client.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"privco_valuation/pkg/core/calc"
	"privco_valuation/pkg/core/pipeline"
	"privco_valuation/pkg/core/report"
	coreval "privco_valuation/pkg/core/valuation"
	"privco_valuation/pkg/models"
)

// Handler serves valuation analysis requests. It holds no per-request
// state; each request runs against its own orchestrator so one caller's
// strict flag never leaks into another's run.
type Handler struct{}

// NewHandler creates a handler.
func NewHandler() *Handler {
	return &Handler{}
}

// AnalyzeRequest is the POST body: a full inline dataset.
type AnalyzeRequest struct {
	Dataset models.CompanyDataset `json:"dataset"`
	Strict  bool                  `json:"strict,omitempty"`
}

// run executes the pipeline for one request with its own orchestrator.
func (h *Handler) run(req *AnalyzeRequest) (*pipeline.AnalysisReport, error) {
	orch := pipeline.NewOrchestrator()
	if req.Strict {
		orch.SetValidationConfig(pipeline.ValidationConfig{Strict: true, Tolerance: 0.01})
	}
	return orch.Run(&req.Dataset)
}

// HandleAnalyze runs the full pipeline for an inline dataset and returns
// the AnalysisReport as JSON.
//
// POST /api/valuation/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	result, err := h.run(&req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleMarkdown returns the rendered markdown report for an inline
// dataset, for clients that want the document rather than raw numbers.
//
// POST /api/valuation/report
func (h *Handler) HandleMarkdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	result, err := h.run(&req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, report.RenderMarkdown(result))
}

// statusFor maps engine errors to HTTP statuses. The five engine error
// kinds and a strict validation rejection are all configuration errors
// on the caller's side.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calc.ErrInvalidWindow),
		errors.Is(err, calc.ErrDivisionByZero),
		errors.Is(err, coreval.ErrInvalidMultiple),
		errors.Is(err, coreval.ErrInvalidRate),
		errors.Is(err, coreval.ErrNegativeSponsorEquity),
		errors.Is(err, pipeline.ErrDatasetValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
