// Package market builds the per-step offer book and clears it through a
// continuous double auction.
package market

import (
	"github.com/udislau/ppe-agents/internal/model"
)

// Price multipliers applied to the market base price. These are fixed by the
// market rules; changing them breaks compatibility with recorded histories.
const (
	BuyerMarkup      = 1.2
	ProsumerDiscount = 0.8
	ProducerDiscount = 0.75
	StorageDiscount  = 0.85
)

// OfferBook is the priced order book for one step.
type OfferBook struct {
	Buys  []model.Offer
	Sells []model.Offer
}

// BuildOfferBook converts per-participant forecasts into priced offers:
// - pure consumers bid their consumption at basePrice*1.2
// - prosumers with net demand bid the shortfall at basePrice*1.2
// - prosumers with net surplus ask the excess at basePrice*0.8
// - pure producers ask their production at basePrice*0.75
// Participants with nothing to trade produce no offer. Pure function; offer
// order follows forecast order, which the matcher preserves on price ties.
func BuildOfferBook(forecasts []model.Forecast, basePrice float64) OfferBook {
	var book OfferBook
	for _, f := range forecasts {
		switch {
		case f.Production <= 0 && f.Consumption > 0:
			book.Buys = append(book.Buys, model.Offer{
				ParticipantID: f.ParticipantID,
				Side:          model.SideBuy,
				Quantity:      f.Consumption,
				Price:         basePrice * BuyerMarkup,
			})
		case f.Consumption <= 0 && f.Production > 0:
			book.Sells = append(book.Sells, model.Offer{
				ParticipantID: f.ParticipantID,
				Side:          model.SideSell,
				Quantity:      f.Production,
				Price:         basePrice * ProducerDiscount,
			})
		case f.Consumption > f.Production:
			book.Buys = append(book.Buys, model.Offer{
				ParticipantID: f.ParticipantID,
				Side:          model.SideBuy,
				Quantity:      f.Consumption - f.Production,
				Price:         basePrice * BuyerMarkup,
			})
		case f.Production > f.Consumption:
			book.Sells = append(book.Sells, model.Offer{
				ParticipantID: f.ParticipantID,
				Side:          model.SideSell,
				Quantity:      f.Production - f.Consumption,
				Price:         basePrice * ProsumerDiscount,
			})
		}
	}
	return book
}

// StorageOffer builds the sell offer injected when the shared storage unit
// discharges into the second matching pass.
func StorageOffer(storageID string, quantity, basePrice float64) model.Offer {
	return model.Offer{
		ParticipantID: storageID,
		Side:          model.SideSell,
		Quantity:      quantity,
		Price:         basePrice * StorageDiscount,
	}
}
