package sim

import (
	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/token"
)

// StepRecord is one row of per-step output, appended to the history after
// the step settles and never mutated afterward. This is the primary artifact
// for "what happened" in a run; external code persists or plots it.
type StepRecord struct {
	Step  int    `json:"step"`
	Label string `json:"label,omitempty"`

	TotalConsumption float64 `json:"total_consumption"`
	TotalProduction  float64 `json:"total_production"`

	TradedEnergy  float64 `json:"traded_energy"`
	AvgTradePrice float64 `json:"avg_trade_price"`

	GridPurchase   float64 `json:"grid_purchase"`
	GridSale       float64 `json:"grid_sale"`
	UnservedDemand float64 `json:"unserved_demand"`

	StorageLevel float64 `json:"storage_level"`

	TokensMinted  float64 `json:"tokens_minted"`
	TokensBurned  float64 `json:"tokens_burned"`
	CommunityFund float64 `json:"community_fund"`

	Trades       []model.Trade       `json:"trades,omitempty"`
	Achievements []token.Achievement `json:"achievements,omitempty"`
}

// Result bundles a finished run.
type Result struct {
	History []StepRecord `json:"history"`

	TotalTraded  float64 `json:"total_traded"`
	TotalMinted  float64 `json:"total_minted"`
	TotalBurned  float64 `json:"total_burned"`
	FinalStorage float64 `json:"final_storage"`

	Balances map[string]float64 `json:"balances"`
}
