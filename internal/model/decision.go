package model

// Action is an advisory grid action for a timestep.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionNone Action = "NONE"
)

// Decision is an optional grid-flow override from an advisory agent.
// Amount is kWh; it is ignored when Action is NONE.
type Decision struct {
	Action Action  `json:"action"`
	Amount float64 `json:"amount"`
}
