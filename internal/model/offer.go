package model

// Side marks an offer as a bid or an ask.
// Keep these values stable; they are intended for CSV/JSON output.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Epsilon is the quantity below which an offer counts as fully filled.
const Epsilon = 1e-6

// Offer is one participant's priced bid or ask for a single step.
// Quantities are kWh, prices are tokens/kWh. Offers are immutable; the
// matcher tracks remaining quantity separately.
type Offer struct {
	ParticipantID string  `json:"participant_id"`
	Side          Side    `json:"side"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
}

// Trade is an executed match between a buyer and a seller offer.
// Price is the arithmetic mean of the two offer prices. Immutable.
type Trade struct {
	BuyerID  string  `json:"buyer_id"`
	SellerID string  `json:"seller_id"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}
