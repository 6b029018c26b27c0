// Demo runs a small built-in community for a day: a household, a solar
// roof, and a prosumer trading through the market with a shared battery.
package main

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/sim"
	"github.com/udislau/ppe-agents/internal/token"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	storage, err := model.NewStorage(model.StorageParams{
		ID:                  "battery",
		CapacityKWh:         40,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
	}, 0)
	if err != nil {
		log.Fatal(err)
	}
	ledger, err := token.NewLedger(100, 0.1, 0.1, []float64{150, 200, 250, 300})
	if err != nil {
		log.Fatal(err)
	}
	coop, err := sim.NewCooperative(sim.Params{BasePrice: 0.5}, storage, ledger)
	if err != nil {
		log.Fatal(err)
	}

	inputs := make([]sim.StepInput, 24)
	for h := 0; h < 24; h++ {
		// Solar bell curve around noon, flat household load with an
		// evening bump.
		solar := 12 * math.Exp(-math.Pow(float64(h)-12, 2)/8)
		load := 3.0
		if h >= 18 && h <= 22 {
			load = 6
		}
		inputs[h] = sim.StepInput{
			Forecasts: []model.Forecast{
				{ParticipantID: "household", Consumption: load},
				{ParticipantID: "solar-roof", Production: solar},
				{ParticipantID: "prosumer", Production: solar * 0.5, Consumption: 2},
			},
			Grid: model.GridPrice{Purchase: 1.0, Sale: 0.4},
		}
	}

	for i, in := range inputs {
		rec, err := coop.Step(in)
		if err != nil {
			log.Fatalf("step %d: %v", i, err)
		}
		log.WithFields(logrus.Fields{
			"step":     rec.Step,
			"traded":   rec.TradedEnergy,
			"price":    rec.AvgTradePrice,
			"grid_buy": rec.GridPurchase,
			"storage":  rec.StorageLevel,
			"fund":     rec.CommunityFund,
		}).Info("step settled")
	}

	log.Infof("final balances: %v", ledger.Snapshot())
}
