package market

import (
	"fmt"
	"sort"

	"github.com/udislau/ppe-agents/internal/model"
)

// MatchResult is the outcome of one auction pass. OpenBuys and OpenSells
// carry the unfilled offers with their remaining quantities, so a later pass
// (storage arbitrage) can re-match them without touching the caller's book.
type MatchResult struct {
	Trades          []model.Trade
	OpenBuys        []model.Offer
	OpenSells       []model.Offer
	ResidualDemand  float64
	ResidualSurplus float64
}

// MatchedVolume returns the total energy moved by the pass.
func (r MatchResult) MatchedVolume() float64 {
	var v float64
	for _, tr := range r.Trades {
		v += tr.Quantity
	}
	return v
}

// Match clears the book with a price-priority continuous double auction with
// partial fills. Buys are sorted by price descending and sells ascending;
// ties keep insertion order (stable sort) so runs are deterministic. Two
// cursors walk the books while the best bid crosses the best ask; each match
// trades min(remaining) at the mean of the two offer prices. A side advances
// once its remainder drops below model.Epsilon.
//
// The input slices are not modified.
func Match(buys, sells []model.Offer) (MatchResult, error) {
	sortedBuys := sortByPrice(buys, func(a, b model.Offer) bool { return a.Price > b.Price })
	sortedSells := sortByPrice(sells, func(a, b model.Offer) bool { return a.Price < b.Price })

	remBuy := remaining(sortedBuys)
	remSell := remaining(sortedSells)

	var res MatchResult
	i, j := 0, 0
	for i < len(sortedBuys) && j < len(sortedSells) && sortedBuys[i].Price >= sortedSells[j].Price {
		qty := remBuy[i]
		if remSell[j] < qty {
			qty = remSell[j]
		}
		res.Trades = append(res.Trades, model.Trade{
			BuyerID:  sortedBuys[i].ParticipantID,
			SellerID: sortedSells[j].ParticipantID,
			Quantity: qty,
			Price:    (sortedBuys[i].Price + sortedSells[j].Price) / 2,
		})
		remBuy[i] -= qty
		remSell[j] -= qty
		if remBuy[i] < -model.Epsilon || remSell[j] < -model.Epsilon {
			return MatchResult{}, &model.IntegrityError{
				Msg: fmt.Sprintf("offer remainder went negative (buy=%g sell=%g)", remBuy[i], remSell[j]),
			}
		}
		if remBuy[i] < model.Epsilon {
			i++
		}
		if remSell[j] < model.Epsilon {
			j++
		}
	}

	res.OpenBuys, res.ResidualDemand = open(sortedBuys, remBuy, i)
	res.OpenSells, res.ResidualSurplus = open(sortedSells, remSell, j)
	return res, nil
}

func sortByPrice(offers []model.Offer, less func(a, b model.Offer) bool) []model.Offer {
	out := make([]model.Offer, len(offers))
	copy(out, offers)
	sort.SliceStable(out, func(a, b int) bool { return less(out[a], out[b]) })
	return out
}

func remaining(offers []model.Offer) []float64 {
	rem := make([]float64, len(offers))
	for i, o := range offers {
		rem[i] = o.Quantity
	}
	return rem
}

// open collects the unfilled offers from cursor onward, with quantities
// replaced by what is left, and sums the residual volume.
func open(offers []model.Offer, rem []float64, cursor int) ([]model.Offer, float64) {
	var out []model.Offer
	var total float64
	for k := cursor; k < len(offers); k++ {
		if rem[k] < model.Epsilon {
			continue
		}
		o := offers[k]
		o.Quantity = rem[k]
		out = append(out, o)
		total += rem[k]
	}
	return out, total
}
