package models

import (
	"github.com/udislau/ppe-agents/internal/analysis"
	"github.com/udislau/ppe-agents/internal/sim"
)

// ErrorResponse is the error envelope for all API endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// SimulateResponse is returned by POST /api/v1/simulate.
type SimulateResponse struct {
	RunID        string             `json:"run_id"`
	Summary      analysis.Summary   `json:"summary"`
	Balances     map[string]float64 `json:"balances"`
	FinalStorage float64            `json:"final_storage"`

	History []sim.StepRecord `json:"history,omitempty"`
}

// HistoryResponse is returned by GET /api/v1/runs/:id/history.
type HistoryResponse struct {
	RunID   string           `json:"run_id"`
	History []sim.StepRecord `json:"history"`
}
