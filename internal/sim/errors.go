package sim

import "errors"

// Data errors abort the run at the offending step; skipping a step would
// misalign the history.
var (
	ErrStreamExhausted  = errors.New("forecast stream shorter than requested steps")
	ErrNegativeForecast = errors.New("forecast has negative production or consumption")
)
