package model

// IntegrityError reports a state that correct clearing logic can never
// produce: a negative offer remainder, a storage level outside its bounds, a
// negative token balance. Any occurrence is a matching/ledger bug and is
// fatal to the run.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Msg
}
