package strategy

import "github.com/udislau/ppe-agents/internal/model"

// ThresholdParams implements a simple price-threshold policy:
// - Buy into storage while the purchase price is at or below BuyBelow
//   and storage has headroom.
// - Sell from storage while the sale price is at or above SellAbove
//   and storage holds energy.
// - Otherwise NONE.
//
// Amounts are capped by MaxTradeKWh and by what storage can take or give.
type ThresholdParams struct {
	BuyBelow    float64
	SellAbove   float64
	MaxTradeKWh float64
}

type ThresholdAdvisor struct {
	Params ThresholdParams
}

func (a *ThresholdAdvisor) Name() string { return "threshold" }

func (a *ThresholdAdvisor) Decide(ctx Context) model.Decision {
	headroom := ctx.StorageCapacity - ctx.StorageLevel

	if ctx.Grid.Purchase <= a.Params.BuyBelow && headroom > 0 {
		return model.Decision{Action: model.ActionBuy, Amount: capAmount(headroom, a.Params.MaxTradeKWh)}
	}
	if ctx.Grid.Sale >= a.Params.SellAbove && ctx.StorageLevel > 0 {
		return model.Decision{Action: model.ActionSell, Amount: capAmount(ctx.StorageLevel, a.Params.MaxTradeKWh)}
	}
	return model.Decision{Action: model.ActionNone}
}

func capAmount(amount, max float64) float64 {
	if max > 0 && amount > max {
		return max
	}
	return amount
}
