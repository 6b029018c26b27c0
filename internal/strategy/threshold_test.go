package strategy

import (
	"testing"

	"github.com/udislau/ppe-agents/internal/model"
)

func TestThresholdAdvisorBuysWhenCheap(t *testing.T) {
	a := &ThresholdAdvisor{Params: ThresholdParams{BuyBelow: 0.3, SellAbove: 0.9, MaxTradeKWh: 10}}
	d := a.Decide(Context{
		Grid:            model.GridPrice{Purchase: 0.25, Sale: 0.2},
		StorageLevel:    5,
		StorageCapacity: 50,
	})
	if d.Action != model.ActionBuy {
		t.Fatalf("action = %s, want BUY", d.Action)
	}
	if d.Amount != 10 {
		t.Errorf("amount = %g, want capped 10", d.Amount)
	}
}

func TestThresholdAdvisorSellsWhenDear(t *testing.T) {
	a := &ThresholdAdvisor{Params: ThresholdParams{BuyBelow: 0.3, SellAbove: 0.9}}
	d := a.Decide(Context{
		Grid:            model.GridPrice{Purchase: 0.8, Sale: 0.95},
		StorageLevel:    7,
		StorageCapacity: 50,
	})
	if d.Action != model.ActionSell {
		t.Fatalf("action = %s, want SELL", d.Action)
	}
	// Uncapped: everything in storage.
	if d.Amount != 7 {
		t.Errorf("amount = %g, want 7", d.Amount)
	}
}

func TestThresholdAdvisorHoldsOtherwise(t *testing.T) {
	a := &ThresholdAdvisor{Params: ThresholdParams{BuyBelow: 0.3, SellAbove: 0.9}}
	d := a.Decide(Context{
		Grid:            model.GridPrice{Purchase: 0.5, Sale: 0.5},
		StorageLevel:    7,
		StorageCapacity: 50,
	})
	if d.Action != model.ActionNone {
		t.Errorf("action = %s, want NONE", d.Action)
	}
}

func TestThresholdAdvisorRespectsStorageBounds(t *testing.T) {
	a := &ThresholdAdvisor{Params: ThresholdParams{BuyBelow: 0.3, SellAbove: 0.9}}
	// Full storage: nothing to buy even at a good price.
	d := a.Decide(Context{
		Grid:            model.GridPrice{Purchase: 0.1},
		StorageLevel:    50,
		StorageCapacity: 50,
	})
	if d.Action != model.ActionNone {
		t.Errorf("action = %s, want NONE with full storage", d.Action)
	}
	// Empty storage: nothing to sell.
	d = a.Decide(Context{
		Grid:            model.GridPrice{Sale: 1.0},
		StorageLevel:    0,
		StorageCapacity: 50,
	})
	if d.Action != model.ActionNone {
		t.Errorf("action = %s, want NONE with empty storage", d.Action)
	}
}
