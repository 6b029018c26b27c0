package strategy

import "github.com/udislau/ppe-agents/internal/model"

// Context is what an advisor sees before a step is cleared.
type Context struct {
	Step      int
	Grid      model.GridPrice
	Forecasts []model.Forecast

	StorageLevel    float64
	StorageCapacity float64
}

// NetForecast returns total forecast production minus consumption.
func (c Context) NetForecast() float64 {
	var net float64
	for _, f := range c.Forecasts {
		net += f.Net()
	}
	return net
}

// Advisor proposes a grid BUY/SELL action for a step. The proposal is only
// applied when the cooperative runs in advisory settlement mode.
type Advisor interface {
	Name() string
	Decide(ctx Context) model.Decision
}
