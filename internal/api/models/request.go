package models

import "github.com/udislau/ppe-agents/internal/model"

// SimulateRequest is the payload for POST /api/v1/simulate and the first
// websocket frame of /api/v1/simulate/stream.
type SimulateRequest struct {
	Config ConfigPayload `json:"config"`
	Steps  []StepPayload `json:"steps" binding:"required"`

	Options Options `json:"options"`
}

// ConfigPayload mirrors the YAML config for inline API use. Zero fields get
// the same defaults as the file-based config.
type ConfigPayload struct {
	BasePrice      float64 `json:"base_price"`
	SettlementMode string  `json:"settlement_mode"`

	Storage *StoragePayload `json:"storage,omitempty"`
	Token   TokenPayload    `json:"token"`
	Noise   NoisePayload    `json:"noise"`
	Advisor AdvisorPayload  `json:"advisor"`
}

type StoragePayload struct {
	ID                  string  `json:"id"`
	CapacityKWh         float64 `json:"capacity_kwh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	InitialLevelKWh     float64 `json:"initial_level_kwh"`
}

type TokenPayload struct {
	InitialBalance        float64   `json:"initial_balance"`
	MintRate              float64   `json:"mint_rate"`
	BurnRate              float64   `json:"burn_rate"`
	AchievementThresholds []float64 `json:"achievement_thresholds"`
}

type NoisePayload struct {
	StdDev float64 `json:"std_dev"`
	Seed   int64   `json:"seed"`
}

type AdvisorPayload struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// StepPayload is one step of the input stream.
type StepPayload struct {
	Label     string           `json:"label"`
	Forecasts []model.Forecast `json:"forecasts"`
	Grid      model.GridPrice  `json:"grid"`
	Decision  *model.Decision  `json:"decision,omitempty"`
}

type Options struct {
	// IncludeHistory inlines the per-step records in the response.
	IncludeHistory bool `json:"include_history"`
	// LimitSteps truncates the run (0 = all provided steps).
	LimitSteps int `json:"limit_steps"`
}
