// Package analysis computes aggregate metrics over a finished run's history.
package analysis

import "github.com/udislau/ppe-agents/internal/sim"

// Summary condenses a run into the figures a report cares about.
type Summary struct {
	Steps int `json:"steps"`

	TotalConsumption float64 `json:"total_consumption"`
	TotalProduction  float64 `json:"total_production"`
	TradedEnergy     float64 `json:"traded_energy"`
	AvgTradePrice    float64 `json:"avg_trade_price"`

	GridPurchase   float64 `json:"grid_purchase"`
	GridSale       float64 `json:"grid_sale"`
	UnservedDemand float64 `json:"unserved_demand"`

	TokensMinted float64 `json:"tokens_minted"`
	TokensBurned float64 `json:"tokens_burned"`

	PeakStorageLevel float64 `json:"peak_storage_level"`

	// SelfSufficiency is the share of consumption covered without grid
	// purchases, in [0, 1].
	SelfSufficiency float64 `json:"self_sufficiency"`
}

func Summarize(history []sim.StepRecord) Summary {
	s := Summary{Steps: len(history)}
	var priceVolume float64
	for _, r := range history {
		s.TotalConsumption += r.TotalConsumption
		s.TotalProduction += r.TotalProduction
		s.TradedEnergy += r.TradedEnergy
		priceVolume += r.AvgTradePrice * r.TradedEnergy
		s.GridPurchase += r.GridPurchase
		s.GridSale += r.GridSale
		s.UnservedDemand += r.UnservedDemand
		s.TokensMinted += r.TokensMinted
		s.TokensBurned += r.TokensBurned
		if r.StorageLevel > s.PeakStorageLevel {
			s.PeakStorageLevel = r.StorageLevel
		}
	}
	if s.TradedEnergy > 0 {
		s.AvgTradePrice = priceVolume / s.TradedEnergy
	}
	if s.TotalConsumption > 0 {
		s.SelfSufficiency = 1 - s.GridPurchase/s.TotalConsumption
		if s.SelfSufficiency < 0 {
			s.SelfSufficiency = 0
		}
	}
	return s
}
