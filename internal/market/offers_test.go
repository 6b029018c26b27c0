package market

import (
	"math"
	"reflect"
	"testing"

	"github.com/udislau/ppe-agents/internal/model"
)

func TestBuildOfferBookRoles(t *testing.T) {
	base := 0.5
	book := BuildOfferBook([]model.Forecast{
		{ParticipantID: "consumer", Consumption: 10},
		{ParticipantID: "producer", Production: 8},
		{ParticipantID: "pro-deficit", Production: 3, Consumption: 7},
		{ParticipantID: "pro-surplus", Production: 9, Consumption: 4},
		{ParticipantID: "balanced", Production: 5, Consumption: 5},
		{ParticipantID: "idle"},
	}, base)

	if len(book.Buys) != 2 {
		t.Fatalf("expected 2 buy offers, got %d", len(book.Buys))
	}
	if len(book.Sells) != 2 {
		t.Fatalf("expected 2 sell offers, got %d", len(book.Sells))
	}

	wantBuys := []model.Offer{
		{ParticipantID: "consumer", Side: model.SideBuy, Quantity: 10, Price: base * 1.2},
		{ParticipantID: "pro-deficit", Side: model.SideBuy, Quantity: 4, Price: base * 1.2},
	}
	if !reflect.DeepEqual(book.Buys, wantBuys) {
		t.Errorf("buys = %+v, want %+v", book.Buys, wantBuys)
	}

	wantSells := []model.Offer{
		{ParticipantID: "producer", Side: model.SideSell, Quantity: 8, Price: base * 0.75},
		{ParticipantID: "pro-surplus", Side: model.SideSell, Quantity: 5, Price: base * 0.8},
	}
	if !reflect.DeepEqual(book.Sells, wantSells) {
		t.Errorf("sells = %+v, want %+v", book.Sells, wantSells)
	}
}

func TestStorageOfferPrice(t *testing.T) {
	o := StorageOffer("battery", 7, 0.5)
	if o.Side != model.SideSell || o.Quantity != 7 {
		t.Errorf("unexpected offer: %+v", o)
	}
	if math.Abs(o.Price-0.425) > 1e-12 {
		t.Errorf("expected price 0.425, got %g", o.Price)
	}
}

func TestNoiseDeterministicPerSeed(t *testing.T) {
	forecasts := []model.Forecast{
		{ParticipantID: "a", Production: 5, Consumption: 3},
		{ParticipantID: "b", Production: 0, Consumption: 8},
	}
	first := NewNoise(1.0, 42).Apply(forecasts)
	second := NewNoise(1.0, 42).Apply(forecasts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different forecasts: %+v vs %+v", first, second)
	}
	other := NewNoise(1.0, 43).Apply(forecasts)
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds produced identical forecasts")
	}
}

func TestNoiseClampsNegative(t *testing.T) {
	forecasts := []model.Forecast{{ParticipantID: "a", Production: 0.001, Consumption: 0.001}}
	n := NewNoise(50, 7)
	for i := 0; i < 100; i++ {
		for _, f := range n.Apply(forecasts) {
			if f.Production < 0 || f.Consumption < 0 {
				t.Fatalf("noise produced negative forecast: %+v", f)
			}
		}
	}
}

func TestNilNoisePassesThrough(t *testing.T) {
	var n *Noise
	forecasts := []model.Forecast{{ParticipantID: "a", Production: 5}}
	if got := n.Apply(forecasts); !reflect.DeepEqual(got, forecasts) {
		t.Errorf("nil noise changed forecasts: %+v", got)
	}
}
