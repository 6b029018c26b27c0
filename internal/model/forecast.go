package model

// Forecast is one participant's expected production and consumption for a
// step, supplied externally (profile replay or a predictive agent).
type Forecast struct {
	ParticipantID string  `json:"participant_id"`
	Production    float64 `json:"production"`
	Consumption   float64 `json:"consumption"`
}

// Net returns production minus consumption.
func (f Forecast) Net() float64 {
	return f.Production - f.Consumption
}

// GridPrice is the main-grid price pair for a step, tokens/kWh.
type GridPrice struct {
	Purchase float64 `json:"purchase"`
	Sale     float64 `json:"sale"`
}
