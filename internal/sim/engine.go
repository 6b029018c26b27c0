// Package sim drives the per-step market clearing pipeline: offer book,
// two-phase double auction, storage arbitrage, grid settlement, and the
// token ledger.
package sim

import (
	"errors"
	"fmt"

	"github.com/udislau/ppe-agents/internal/market"
	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/strategy"
	"github.com/udislau/ppe-agents/internal/token"
)

// SettlementMode selects how grid flows are decided.
type SettlementMode string

const (
	// SettleResidual buys and sells on the grid whatever the auction and
	// storage leave unmatched. Advisory decisions are ignored.
	SettleResidual SettlementMode = "residual"
	// SettleAdvisory applies an advisor's BUY/SELL decision against storage
	// and the grid before residual clearing.
	SettleAdvisory SettlementMode = "advisory"
)

// Params are the market-wide constants of a run.
type Params struct {
	BasePrice float64
	Mode      SettlementMode
}

// StepInput is everything the engine needs for one step. Forecast figures
// and grid prices come from external collaborators (profile replay or a
// predictive agent).
type StepInput struct {
	Label     string
	Forecasts []model.Forecast
	Grid      model.GridPrice
	// Decision, when set, overrides the advisor in advisory mode.
	Decision *model.Decision
}

// Cooperative owns the stateful pieces of the market (storage, token ledger)
// and clears one step at a time. Steps are strictly sequential; any error is
// fatal to the run.
type Cooperative struct {
	params  Params
	storage *model.Storage
	ledger  *token.Ledger
	advisor strategy.Advisor
	noise   *market.Noise

	history []StepRecord
}

// Option configures optional collaborators.
type Option func(*Cooperative)

// WithAdvisor installs the advisory agent consulted in advisory mode.
func WithAdvisor(a strategy.Advisor) Option {
	return func(c *Cooperative) { c.advisor = a }
}

// WithNoise installs a seeded forecast-noise source. Randomness stays in
// offer construction; matching and the ledger remain deterministic.
func WithNoise(n *market.Noise) Option {
	return func(c *Cooperative) { c.noise = n }
}

func NewCooperative(params Params, storage *model.Storage, ledger *token.Ledger, opts ...Option) (*Cooperative, error) {
	if params.BasePrice <= 0 {
		return nil, errors.New("base price must be > 0")
	}
	if params.Mode == "" {
		params.Mode = SettleResidual
	}
	if params.Mode != SettleResidual && params.Mode != SettleAdvisory {
		return nil, fmt.Errorf("unknown settlement mode %q", params.Mode)
	}
	if storage == nil {
		storage = model.Disabled()
	}
	if ledger == nil {
		return nil, errors.New("ledger is nil")
	}
	c := &Cooperative{params: params, storage: storage, ledger: ledger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StorageLevel exposes the current storage level for reporting.
func (c *Cooperative) StorageLevel() float64 { return c.storage.Level() }

// Ledger exposes the token ledger for reporting.
func (c *Cooperative) Ledger() *token.Ledger { return c.ledger }

// History returns the appended step records so far.
func (c *Cooperative) History() []StepRecord { return c.history }

// Run clears steps sequentially from the input stream and returns the
// accumulated result. A stream shorter than steps is a data error at the
// first missing step.
func (c *Cooperative) Run(inputs []StepInput, steps int) (*Result, error) {
	for i := 0; i < steps; i++ {
		if i >= len(inputs) {
			return nil, fmt.Errorf("step %d: %w (have %d)", i, ErrStreamExhausted, len(inputs))
		}
		if _, err := c.Step(inputs[i]); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	res := &Result{
		History:      c.history,
		FinalStorage: c.storage.Level(),
		Balances:     c.ledger.Snapshot(),
	}
	for _, rec := range c.history {
		res.TotalTraded += rec.TradedEnergy
		res.TotalMinted += rec.TokensMinted
		res.TotalBurned += rec.TokensBurned
	}
	return res, nil
}

// Step clears one market step end to end and appends its record to the
// history. The pipeline order is fixed: offers, first auction pass, storage
// arbitrage with a second pass, grid settlement, ledger updates.
func (c *Cooperative) Step(input StepInput) (StepRecord, error) {
	rec := StepRecord{Step: len(c.history), Label: input.Label}

	for _, f := range input.Forecasts {
		if f.Production < 0 || f.Consumption < 0 {
			return StepRecord{}, fmt.Errorf("participant %s: %w", f.ParticipantID, ErrNegativeForecast)
		}
		rec.TotalProduction += f.Production
		rec.TotalConsumption += f.Consumption
	}
	if input.Grid.Purchase <= 0 {
		return StepRecord{}, fmt.Errorf("grid purchase price must be > 0, got %g", input.Grid.Purchase)
	}

	// Advisory grid action, applied against storage before residual clearing.
	if c.params.Mode == SettleAdvisory {
		if err := c.applyAdvisory(input, &rec); err != nil {
			return StepRecord{}, err
		}
	}

	forecasts := c.noise.Apply(input.Forecasts)
	book := market.BuildOfferBook(forecasts, c.params.BasePrice)

	phase1, err := market.Match(book.Buys, book.Sells)
	if err != nil {
		return StepRecord{}, err
	}
	trades := phase1.Trades

	// Surplus side: charge storage, sell the remainder to the grid.
	surplus := phase1.ResidualSurplus
	if surplus > model.Epsilon {
		surplus -= c.storage.Charge(surplus)
	}

	// Demand side: discharge storage into a second auction pass.
	demand := phase1.ResidualDemand
	if demand > model.Epsilon {
		discharged := c.storage.Discharge(demand)
		if discharged > 0 {
			offer := market.StorageOffer(c.storage.ID(), discharged, c.params.BasePrice)
			phase2, err := market.Match(phase1.OpenBuys, []model.Offer{offer})
			if err != nil {
				return StepRecord{}, err
			}
			trades = append(trades, phase2.Trades...)
			demand = phase2.ResidualDemand
			// Discharged energy that found no buyer goes back into storage.
			if phase2.ResidualSurplus > model.Epsilon {
				c.storage.Restore(phase2.ResidualSurplus)
			}
		}
	}

	// Grid settlement for what is left on both sides.
	if demand > model.Epsilon {
		settle, err := c.ledger.SettleGridPurchase(demand, input.Grid.Purchase)
		if err != nil {
			return StepRecord{}, err
		}
		rec.GridPurchase += settle.PaidEnergy
		rec.TokensBurned += settle.Burned
		rec.UnservedDemand = settle.Unserved
	}
	if surplus > model.Epsilon {
		c.ledger.CreditGridSale(surplus, input.Grid.Sale)
		rec.GridSale += surplus
	}

	// Mint for every settled trade, both passes alike.
	for _, tr := range trades {
		minted, events := c.ledger.MintForTrade(tr)
		rec.TokensMinted += minted
		rec.Achievements = append(rec.Achievements, events...)
	}
	if err := c.ledger.CheckIntegrity(); err != nil {
		return StepRecord{}, err
	}

	rec.Trades = trades
	for _, tr := range trades {
		rec.TradedEnergy += tr.Quantity
		rec.AvgTradePrice += tr.Quantity * tr.Price
	}
	if rec.TradedEnergy > 0 {
		rec.AvgTradePrice /= rec.TradedEnergy
	}
	rec.StorageLevel = c.storage.Level()
	rec.CommunityFund = c.ledger.CommunityFund()

	c.history = append(c.history, rec)
	return rec, nil
}

// applyAdvisory executes the advisor's (or the caller's) BUY/SELL decision:
// BUY purchases grid energy into storage, SELL discharges storage to the
// grid. Purchases are limited by storage headroom and by what the community
// fund can pay.
func (c *Cooperative) applyAdvisory(input StepInput, rec *StepRecord) error {
	decision := model.Decision{Action: model.ActionNone}
	switch {
	case input.Decision != nil:
		decision = *input.Decision
	case c.advisor != nil:
		decision = c.advisor.Decide(strategy.Context{
			Step:            rec.Step,
			Grid:            input.Grid,
			Forecasts:       input.Forecasts,
			StorageLevel:    c.storage.Level(),
			StorageCapacity: c.storage.Params.CapacityKWh,
		})
	}

	switch decision.Action {
	case model.ActionBuy:
		if decision.Amount <= 0 {
			return nil
		}
		absorbable := decision.Amount
		if headroom := c.storage.Headroom() / c.storage.Params.ChargeEfficiency; absorbable > headroom {
			absorbable = headroom
		}
		settle, err := c.ledger.SettleGridPurchase(absorbable, input.Grid.Purchase)
		if err != nil {
			return err
		}
		c.storage.Charge(settle.PaidEnergy)
		rec.GridPurchase += settle.PaidEnergy
		rec.TokensBurned += settle.Burned
	case model.ActionSell:
		if decision.Amount <= 0 {
			return nil
		}
		delivered := c.storage.Discharge(decision.Amount)
		if delivered > 0 {
			c.ledger.CreditGridSale(delivered, input.Grid.Sale)
			rec.GridSale += delivered
		}
	}
	return nil
}
