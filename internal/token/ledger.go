// Package token keeps the cooperative's incentive-token accounts: per
// participant balances, the community fund, mint/burn rules, and achievement
// thresholds.
package token

import (
	"errors"
	"fmt"
	"sort"

	"github.com/udislau/ppe-agents/internal/model"
)

// CommunityID is the reserved account the community fund's counterpart
// operations are booked against.
const CommunityID = "community"

// FundShare is the fraction of every mint created on top for the community
// fund. It is newly created, not deducted from the trading parties.
const FundShare = 0.1

// Achievement is a one-time event fired when a participant's balance first
// reaches a threshold.
type Achievement struct {
	ParticipantID string  `json:"participant_id"`
	Threshold     float64 `json:"threshold"`
	Balance       float64 `json:"balance"`
}

// Ledger tracks token balances. Balances only move through mint (credit) and
// burn (debit clamped at zero); they can never go negative.
type Ledger struct {
	balances      map[string]float64
	communityFund float64

	mintRate   float64
	burnRate   float64
	thresholds []float64
	reached    map[string]map[float64]bool
}

func NewLedger(initialBalance, mintRate, burnRate float64, thresholds []float64) (*Ledger, error) {
	if initialBalance < 0 {
		return nil, errors.New("initial balance must be >= 0")
	}
	if mintRate < 0 || burnRate < 0 {
		return nil, errors.New("mint and burn rates must be >= 0")
	}
	sorted := make([]float64, len(thresholds))
	copy(sorted, thresholds)
	sort.Float64s(sorted)
	return &Ledger{
		balances:      map[string]float64{},
		communityFund: initialBalance,
		mintRate:      mintRate,
		burnRate:      burnRate,
		thresholds:    sorted,
		reached:       map[string]map[float64]bool{},
	}, nil
}

// Register opens an account with the given starting balance. Registering an
// existing account is a no-op.
func (l *Ledger) Register(id string, balance float64) {
	if _, ok := l.balances[id]; ok {
		return
	}
	l.balances[id] = balance
}

// Balance returns the account balance, zero for unknown accounts.
func (l *Ledger) Balance(id string) float64 { return l.balances[id] }

// CommunityFund returns the shared fund balance.
func (l *Ledger) CommunityFund() float64 { return l.communityFund }

// Snapshot copies all balances for reporting, with the community fund under
// CommunityID.
func (l *Ledger) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(l.balances)+1)
	for id, b := range l.balances {
		out[id] = b
	}
	out[CommunityID] = l.communityFund
	return out
}

// MintForTrade credits buyer and seller half of quantity*mintRate each and
// creates an additional FundShare of the mint into the community fund.
// Returns the minted amount (excluding the fund bonus) and any achievements
// the credits triggered.
func (l *Ledger) MintForTrade(tr model.Trade) (float64, []Achievement) {
	minted := tr.Quantity * l.mintRate
	if minted <= 0 {
		return 0, nil
	}
	var events []Achievement
	events = append(events, l.credit(tr.BuyerID, minted/2)...)
	events = append(events, l.credit(tr.SellerID, minted/2)...)
	l.communityFund += minted * FundShare
	return minted, events
}

// GridSettlement reports how a grid purchase was funded.
type GridSettlement struct {
	// PaidEnergy is the energy the fund could pay for, kWh.
	PaidEnergy float64
	// Cost is the tokens spent on the purchase.
	Cost float64
	// Burned is the tokens destroyed on top of the cost.
	Burned float64
	// Unserved is the demand the fund could not cover, kWh.
	Unserved float64
}

// SettleGridPurchase pays for deficit kWh of grid energy from the community
// fund and burns deficit*burnRate. If the fund cannot cover the full cost,
// only fund/price energy is paid for, the fund drops to zero and the burn is
// computed on the affordable portion; no balance ever goes negative.
func (l *Ledger) SettleGridPurchase(deficit, price float64) (GridSettlement, error) {
	if price <= 0 {
		return GridSettlement{}, fmt.Errorf("grid purchase price must be > 0, got %g", price)
	}
	if deficit <= 0 {
		return GridSettlement{}, nil
	}
	cost := deficit * price
	if l.communityFund >= cost {
		burned := deficit * l.burnRate
		l.communityFund -= cost
		if burned > l.communityFund {
			burned = l.communityFund
		}
		l.communityFund -= burned
		return GridSettlement{PaidEnergy: deficit, Cost: cost, Burned: burned}, nil
	}
	affordable := l.communityFund / price
	spent := l.communityFund
	l.communityFund = 0
	return GridSettlement{
		PaidEnergy: affordable,
		Cost:       spent,
		Burned:     affordable * l.burnRate,
		Unserved:   deficit - affordable,
	}, nil
}

// CreditGridSale pays the community fund for energy exported to the grid.
// Grid sales do not mint: minting rewards peer-to-peer trades only.
func (l *Ledger) CreditGridSale(energy, price float64) float64 {
	if energy <= 0 || price <= 0 {
		return 0
	}
	revenue := energy * price
	l.communityFund += revenue
	return revenue
}

// credit adds tokens to an account and fires any newly crossed achievement
// thresholds. A threshold fires at most once per participant.
func (l *Ledger) credit(id string, amount float64) []Achievement {
	if amount <= 0 {
		return nil
	}
	l.balances[id] += amount
	balance := l.balances[id]

	var events []Achievement
	for _, th := range l.thresholds {
		if th > balance {
			break
		}
		if l.reached[id][th] {
			continue
		}
		if l.reached[id] == nil {
			l.reached[id] = map[float64]bool{}
		}
		l.reached[id][th] = true
		events = append(events, Achievement{ParticipantID: id, Threshold: th, Balance: balance})
	}
	return events
}

// Reached reports whether the participant has already crossed the threshold.
func (l *Ledger) Reached(id string, threshold float64) bool {
	return l.reached[id][threshold]
}

// CheckIntegrity verifies no balance is negative. A failure indicates a
// ledger bug, not a recoverable condition.
func (l *Ledger) CheckIntegrity() error {
	if l.communityFund < 0 {
		return &model.IntegrityError{Msg: fmt.Sprintf("community fund is negative: %g", l.communityFund)}
	}
	for id, b := range l.balances {
		if b < 0 {
			return &model.IntegrityError{Msg: fmt.Sprintf("balance of %s is negative: %g", id, b)}
		}
	}
	return nil
}
