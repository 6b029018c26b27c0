package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/udislau/ppe-agents/internal/analysis"
	"github.com/udislau/ppe-agents/internal/api"
	"github.com/udislau/ppe-agents/internal/api/models"
	"github.com/udislau/ppe-agents/internal/config"
	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/sim"
)

// SimulateHandler runs simulations and serves stored run histories.
type SimulateHandler struct {
	store *api.RunStore
	log   *logrus.Logger
}

func NewSimulateHandler(store *api.RunStore, log *logrus.Logger) *SimulateHandler {
	return &SimulateHandler{store: store, log: log}
}

// RunSimulation handles POST /api/v1/simulate.
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	coop, inputs, err := BuildRun(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		})
		return
	}

	steps := len(inputs)
	if req.Options.LimitSteps > 0 && req.Options.LimitSteps < steps {
		steps = req.Options.LimitSteps
	}

	res, err := coop.Run(inputs, steps)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var integrity *model.IntegrityError
		if errors.As(err, &integrity) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()},
		})
		return
	}

	id := h.store.Put(res)
	h.log.WithFields(logrus.Fields{"run_id": id, "steps": steps}).Info("simulation finished")

	resp := models.SimulateResponse{
		RunID:        id,
		Summary:      analysis.Summarize(res.History),
		Balances:     res.Balances,
		FinalStorage: res.FinalStorage,
	}
	if req.Options.IncludeHistory {
		resp.History = res.History
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistory handles GET /api/v1/runs/:id/history.
func (h *SimulateHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "RUN_NOT_FOUND", Message: "no run with id " + id},
		})
		return
	}
	c.JSON(http.StatusOK, models.HistoryResponse{RunID: id, History: res.History})
}

// BuildRun turns an API request into a ready cooperative and input stream.
func BuildRun(req models.SimulateRequest) (*sim.Cooperative, []sim.StepInput, error) {
	cfg := configFromPayload(req.Config)
	if err := cfg.Normalize(); err != nil {
		return nil, nil, err
	}
	coop, err := cfg.ToCooperative()
	if err != nil {
		return nil, nil, err
	}

	inputs := make([]sim.StepInput, 0, len(req.Steps))
	for _, s := range req.Steps {
		inputs = append(inputs, sim.StepInput{
			Label:     s.Label,
			Forecasts: s.Forecasts,
			Grid:      s.Grid,
			Decision:  s.Decision,
		})
	}
	return coop, inputs, nil
}

func configFromPayload(p models.ConfigPayload) *config.Config {
	cfg := &config.Config{
		Market: config.MarketConfig{
			BasePrice:      p.BasePrice,
			SettlementMode: p.SettlementMode,
		},
		Token: config.TokenConfig{
			InitialBalance:        p.Token.InitialBalance,
			MintRate:              p.Token.MintRate,
			BurnRate:              p.Token.BurnRate,
			AchievementThresholds: p.Token.AchievementThresholds,
		},
		Noise: config.NoiseConfig{StdDev: p.Noise.StdDev, Seed: p.Noise.Seed},
		Advisor: config.AdvisorConfig{
			Name:   p.Advisor.Name,
			Params: p.Advisor.Params,
		},
	}
	if p.Storage != nil {
		cfg.Storage = config.StorageConfig{
			ID:                  p.Storage.ID,
			CapacityKWh:         p.Storage.CapacityKWh,
			ChargeEfficiency:    p.Storage.ChargeEfficiency,
			DischargeEfficiency: p.Storage.DischargeEfficiency,
			InitialLevelKWh:     p.Storage.InitialLevelKWh,
		}
	}
	return cfg
}
