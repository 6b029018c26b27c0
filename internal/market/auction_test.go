package market

import (
	"math"
	"testing"

	"github.com/udislau/ppe-agents/internal/model"
)

func buy(id string, qty, price float64) model.Offer {
	return model.Offer{ParticipantID: id, Side: model.SideBuy, Quantity: qty, Price: price}
}

func sell(id string, qty, price float64) model.Offer {
	return model.Offer{ParticipantID: id, Side: model.SideSell, Quantity: qty, Price: price}
}

func TestMatchSinglePair(t *testing.T) {
	res, err := Match(
		[]model.Offer{buy("b1", 10, 0.6)},
		[]model.Offer{sell("s1", 10, 0.4)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Quantity != 10 || tr.Price != 0.5 {
		t.Errorf("expected {10, 0.5}, got {%g, %g}", tr.Quantity, tr.Price)
	}
	if tr.BuyerID != "b1" || tr.SellerID != "s1" {
		t.Errorf("unexpected parties: %s/%s", tr.BuyerID, tr.SellerID)
	}
	if res.ResidualDemand != 0 || res.ResidualSurplus != 0 {
		t.Errorf("expected zero residuals, got %g/%g", res.ResidualDemand, res.ResidualSurplus)
	}
}

func TestMatchPartialFillAcrossSellers(t *testing.T) {
	res, err := Match(
		[]model.Offer{buy("b1", 10, 0.6)},
		[]model.Offer{sell("s1", 6, 0.4), sell("s2", 6, 0.5)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(res.Trades))
	}
	first, second := res.Trades[0], res.Trades[1]
	if first.SellerID != "s1" || first.Quantity != 6 || first.Price != 0.5 {
		t.Errorf("trade 1: expected s1 {6, 0.5}, got %s {%g, %g}", first.SellerID, first.Quantity, first.Price)
	}
	if second.SellerID != "s2" || second.Quantity != 4 || math.Abs(second.Price-0.55) > 1e-12 {
		t.Errorf("trade 2: expected s2 {4, 0.55}, got %s {%g, %g}", second.SellerID, second.Quantity, second.Price)
	}
	if res.ResidualDemand != 0 {
		t.Errorf("expected no residual demand, got %g", res.ResidualDemand)
	}
	if math.Abs(res.ResidualSurplus-2) > 1e-12 {
		t.Errorf("expected residual surplus 2, got %g", res.ResidualSurplus)
	}
}

func TestMatchNoCrossing(t *testing.T) {
	res, err := Match(
		[]model.Offer{buy("b1", 10, 0.3)},
		[]model.Offer{sell("s1", 8, 0.4)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(res.Trades))
	}
	if res.ResidualDemand != 10 || res.ResidualSurplus != 8 {
		t.Errorf("expected residuals 10/8, got %g/%g", res.ResidualDemand, res.ResidualSurplus)
	}
}

func TestMatchPriceBounds(t *testing.T) {
	buys := []model.Offer{buy("b1", 5, 0.9), buy("b2", 7, 0.7), buy("b3", 3, 0.5)}
	sells := []model.Offer{sell("s1", 4, 0.3), sell("s2", 6, 0.45), sell("s3", 8, 0.6)}
	res, err := Match(buys, sells)
	if err != nil {
		t.Fatal(err)
	}
	prices := map[string]float64{}
	for _, o := range append(buys, sells...) {
		prices[o.ParticipantID] = o.Price
	}
	for i, tr := range res.Trades {
		lo, hi := prices[tr.SellerID], prices[tr.BuyerID]
		if tr.Price < lo || tr.Price > hi {
			t.Errorf("trade %d price %g outside [%g, %g]", i, tr.Price, lo, hi)
		}
		if want := (lo + hi) / 2; math.Abs(tr.Price-want) > 1e-12 {
			t.Errorf("trade %d price %g, want mean %g", i, tr.Price, want)
		}
	}
}

func TestMatchConservesVolume(t *testing.T) {
	buys := []model.Offer{buy("b1", 12, 0.8), buy("b2", 5, 0.6)}
	sells := []model.Offer{sell("s1", 9, 0.4), sell("s2", 4, 0.55)}
	res, err := Match(buys, sells)
	if err != nil {
		t.Fatal(err)
	}
	var demand, supply float64
	for _, o := range buys {
		demand += o.Quantity
	}
	for _, o := range sells {
		supply += o.Quantity
	}
	matched := res.MatchedVolume()
	if math.Abs(matched+res.ResidualDemand-demand) > 1e-9 {
		t.Errorf("demand not conserved: matched %g + residual %g != %g", matched, res.ResidualDemand, demand)
	}
	if math.Abs(matched+res.ResidualSurplus-supply) > 1e-9 {
		t.Errorf("supply not conserved: matched %g + residual %g != %g", matched, res.ResidualSurplus, supply)
	}
}

func TestMatchStableTieOrder(t *testing.T) {
	// Equal prices: insertion order decides who trades first.
	res, err := Match(
		[]model.Offer{buy("b1", 4, 0.6), buy("b2", 4, 0.6)},
		[]model.Offer{sell("s1", 3, 0.4), sell("s2", 3, 0.4)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(res.Trades))
	}
	if res.Trades[0].BuyerID != "b1" || res.Trades[0].SellerID != "s1" {
		t.Errorf("trade 1: expected b1/s1, got %s/%s", res.Trades[0].BuyerID, res.Trades[0].SellerID)
	}
	if res.Trades[1].BuyerID != "b1" || res.Trades[1].SellerID != "s2" {
		t.Errorf("trade 2: expected b1/s2, got %s/%s", res.Trades[1].BuyerID, res.Trades[1].SellerID)
	}
	if res.Trades[2].BuyerID != "b2" || res.Trades[2].SellerID != "s2" {
		t.Errorf("trade 3: expected b2/s2, got %s/%s", res.Trades[2].BuyerID, res.Trades[2].SellerID)
	}
}

func TestMatchIdempotentOnResiduals(t *testing.T) {
	res, err := Match(
		[]model.Offer{buy("b1", 10, 0.6), buy("b2", 3, 0.45)},
		[]model.Offer{sell("s1", 6, 0.4), sell("s2", 6, 0.5)},
	)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Match(res.OpenBuys, res.OpenSells)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Trades) != 0 {
		t.Errorf("re-matching residuals produced %d trades", len(again.Trades))
	}
	if again.ResidualDemand != res.ResidualDemand || again.ResidualSurplus != res.ResidualSurplus {
		t.Errorf("residuals changed on re-match: %g/%g -> %g/%g",
			res.ResidualDemand, res.ResidualSurplus, again.ResidualDemand, again.ResidualSurplus)
	}
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	buys := []model.Offer{buy("b1", 10, 0.6)}
	sells := []model.Offer{sell("s1", 4, 0.4)}
	if _, err := Match(buys, sells); err != nil {
		t.Fatal(err)
	}
	if buys[0].Quantity != 10 || sells[0].Quantity != 4 {
		t.Errorf("inputs mutated: buy %g, sell %g", buys[0].Quantity, sells[0].Quantity)
	}
}
