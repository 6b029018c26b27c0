package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/udislau/ppe-agents/internal/market"
	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/sim"
	"github.com/udislau/ppe-agents/internal/strategy"
	"github.com/udislau/ppe-agents/internal/token"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Market     MarketConfig     `yaml:"market"`
	Storage    StorageConfig    `yaml:"storage"`
	Token      TokenConfig      `yaml:"token"`
	Advisor    AdvisorConfig    `yaml:"advisor"`
	Noise      NoiseConfig      `yaml:"noise"`
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type MarketConfig struct {
	BasePrice      float64 `yaml:"base_price"`
	SettlementMode string  `yaml:"settlement_mode"`
}

type StorageConfig struct {
	ID                  string  `yaml:"id"`
	CapacityKWh         float64 `yaml:"capacity_kwh"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	InitialLevelKWh     float64 `yaml:"initial_level_kwh"`
}

type TokenConfig struct {
	InitialBalance        float64   `yaml:"initial_balance"`
	MintRate              float64   `yaml:"mint_rate"`
	BurnRate              float64   `yaml:"burn_rate"`
	AchievementThresholds []float64 `yaml:"achievement_thresholds"`
}

type AdvisorConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type NoiseConfig struct {
	StdDev float64 `yaml:"std_dev"`
	Seed   int64   `yaml:"seed"`
}

// GridConfig holds the flat price pair used when no per-hour costs file is
// supplied.
type GridConfig struct {
	PurchasePrice float64 `yaml:"purchase_price"`
	SalePrice     float64 `yaml:"sale_price"`
}

type SimulationConfig struct {
	// Steps limits the run; 0 means the full input stream.
	Steps int `yaml:"steps"`
}

// Default thresholds when the config leaves them out.
var defaultThresholds = []float64{150, 200, 250, 300}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Normalize fills defaults and validates. Callers that build a Config in
// memory (the API) run this instead of Load.
func (c *Config) Normalize() error {
	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Market.BasePrice == 0 {
		c.Market.BasePrice = 0.5
	}
	if c.Market.SettlementMode == "" {
		c.Market.SettlementMode = string(sim.SettleResidual)
	}
	if c.Token.InitialBalance == 0 {
		c.Token.InitialBalance = 100
	}
	if c.Token.MintRate == 0 {
		c.Token.MintRate = 0.1
	}
	if c.Token.BurnRate == 0 {
		c.Token.BurnRate = 0.1
	}
	if len(c.Token.AchievementThresholds) == 0 {
		c.Token.AchievementThresholds = defaultThresholds
	}
	if c.Grid.PurchasePrice == 0 {
		c.Grid.PurchasePrice = 1.0
	}
	if c.Grid.SalePrice == 0 {
		c.Grid.SalePrice = 0.4
	}
	if c.Storage.CapacityKWh > 0 {
		if c.Storage.ID == "" {
			c.Storage.ID = "storage"
		}
		if c.Storage.ChargeEfficiency == 0 {
			c.Storage.ChargeEfficiency = 1
		}
		if c.Storage.DischargeEfficiency == 0 {
			c.Storage.DischargeEfficiency = 1
		}
	}
}

// Validate checks the config by constructing the model objects it describes.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Market.BasePrice <= 0 {
		return errors.New("market.base_price must be > 0")
	}
	if c.Grid.PurchasePrice <= 0 {
		return errors.New("grid.purchase_price must be > 0")
	}
	if c.Grid.SalePrice < 0 {
		return errors.New("grid.sale_price must be >= 0")
	}
	if _, err := c.ToStorage(); err != nil {
		return fmt.Errorf("storage config invalid: %w", err)
	}
	if _, err := c.ToLedger(); err != nil {
		return fmt.Errorf("token config invalid: %w", err)
	}
	if _, err := c.ToAdvisor(); err != nil {
		return err
	}
	mode := sim.SettlementMode(c.Market.SettlementMode)
	if mode != sim.SettleResidual && mode != sim.SettleAdvisory {
		return fmt.Errorf("market.settlement_mode must be %q or %q", sim.SettleResidual, sim.SettleAdvisory)
	}
	return nil
}

// ToStorage builds the storage unit; no storage section means a disabled
// no-op unit.
func (c *Config) ToStorage() (*model.Storage, error) {
	if c.Storage.CapacityKWh == 0 {
		return model.Disabled(), nil
	}
	return model.NewStorage(model.StorageParams{
		ID:                  c.Storage.ID,
		CapacityKWh:         c.Storage.CapacityKWh,
		ChargeEfficiency:    c.Storage.ChargeEfficiency,
		DischargeEfficiency: c.Storage.DischargeEfficiency,
	}, c.Storage.InitialLevelKWh)
}

func (c *Config) ToLedger() (*token.Ledger, error) {
	return token.NewLedger(c.Token.InitialBalance, c.Token.MintRate, c.Token.BurnRate, c.Token.AchievementThresholds)
}

// ToAdvisor builds the configured advisory agent; an empty or "none" name
// means no advisor.
func (c *Config) ToAdvisor() (strategy.Advisor, error) {
	switch c.Advisor.Name {
	case "", "none":
		return nil, nil
	case "threshold":
		return &strategy.ThresholdAdvisor{Params: strategy.ThresholdParams{
			BuyBelow:    num(c.Advisor.Params, "buy_below", 0),
			SellAbove:   num(c.Advisor.Params, "sell_above", 0),
			MaxTradeKWh: num(c.Advisor.Params, "max_trade_kwh", 0),
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported advisor: %q", c.Advisor.Name)
	}
}

// ToCooperative wires storage, ledger, advisor and noise into a driver.
func (c *Config) ToCooperative() (*sim.Cooperative, error) {
	storage, err := c.ToStorage()
	if err != nil {
		return nil, err
	}
	ledger, err := c.ToLedger()
	if err != nil {
		return nil, err
	}
	advisor, err := c.ToAdvisor()
	if err != nil {
		return nil, err
	}
	opts := []sim.Option{}
	if advisor != nil {
		opts = append(opts, sim.WithAdvisor(advisor))
	}
	if c.Noise.StdDev > 0 {
		opts = append(opts, sim.WithNoise(market.NewNoise(c.Noise.StdDev, c.Noise.Seed)))
	}
	return sim.NewCooperative(sim.Params{
		BasePrice: c.Market.BasePrice,
		Mode:      sim.SettlementMode(c.Market.SettlementMode),
	}, storage, ledger, opts...)
}

func num(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}
