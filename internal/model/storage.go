package model

import "errors"

// StorageParams defines the physical parameters of the shared storage unit.
// Units:
// - CapacityKWh: kWh
// - Efficiencies: (0, 1]
type StorageParams struct {
	ID                  string
	CapacityKWh         float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
}

// StorageState captures mutable state.
type StorageState struct {
	// LevelKWh is the stored energy, always within [0, CapacityKWh].
	LevelKWh float64
}

// Storage is a bounded energy buffer owned by the cooperative. LevelKWh is
// mutated only by Charge and Discharge, which clamp it to [0, capacity].
type Storage struct {
	Params StorageParams
	State  StorageState

	disabled bool
}

func NewStorage(params StorageParams, initialLevel float64) (*Storage, error) {
	s := &Storage{
		Params: params,
		State:  StorageState{LevelKWh: initialLevel},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Disabled returns a no-op storage unit that always reports zero charge and
// discharge. It lets settlement code skip nil checks when no storage is
// configured.
func Disabled() *Storage {
	return &Storage{
		Params:   StorageParams{ID: "none", ChargeEfficiency: 1, DischargeEfficiency: 1},
		disabled: true,
	}
}

func (s *Storage) Validate() error {
	if s.disabled {
		return nil
	}
	p := s.Params
	if p.ID == "" {
		return errors.New("storage ID must not be empty")
	}
	if p.CapacityKWh <= 0 {
		return errors.New("CapacityKWh must be > 0")
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return errors.New("ChargeEfficiency must be in (0, 1]")
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return errors.New("DischargeEfficiency must be in (0, 1]")
	}
	if s.State.LevelKWh < 0 || s.State.LevelKWh > p.CapacityKWh {
		return errors.New("initial level must be within [0, CapacityKWh]")
	}
	return nil
}

// ID returns the participant id the unit trades under.
func (s *Storage) ID() string { return s.Params.ID }

// Level returns the current stored energy in kWh.
func (s *Storage) Level() float64 { return s.State.LevelKWh }

// Headroom returns how much more energy the unit can hold.
func (s *Storage) Headroom() float64 {
	return s.Params.CapacityKWh - s.State.LevelKWh
}

// Available returns the energy deliverable right now, after discharge losses.
func (s *Storage) Available() float64 {
	return s.State.LevelKWh * s.Params.DischargeEfficiency
}

// Charge absorbs up to amount kWh of offered energy. The stored energy is
// amount*ChargeEfficiency capped at the remaining headroom. The return value
// is the offer-side energy actually absorbed (stored/ChargeEfficiency), so a
// caller can subtract it from a surplus and keep the balance exact; the
// efficiency loss stays inside the unit.
func (s *Storage) Charge(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	stored := amount * s.Params.ChargeEfficiency
	if headroom := s.Headroom(); stored > headroom {
		stored = headroom
	}
	if stored <= 0 {
		return 0
	}
	s.State.LevelKWh = clampLevel(s.State.LevelKWh+stored, s.Params.CapacityKWh)
	return stored / s.Params.ChargeEfficiency
}

// Discharge delivers up to amount kWh. Deliverable energy is limited by
// level*DischargeEfficiency; the level drops by delivered/DischargeEfficiency.
// Returns the energy delivered.
func (s *Storage) Discharge(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	discharged := amount
	if avail := s.Available(); discharged > avail {
		discharged = avail
	}
	if discharged <= 0 {
		return 0
	}
	s.State.LevelKWh = clampLevel(s.State.LevelKWh-discharged/s.Params.DischargeEfficiency, s.Params.CapacityKWh)
	return discharged
}

// Restore undoes part of an earlier Discharge when the delivered energy
// found no buyer, putting the withdrawn energy back without a second
// efficiency loss.
func (s *Storage) Restore(delivered float64) {
	if delivered <= 0 {
		return
	}
	s.State.LevelKWh = clampLevel(s.State.LevelKWh+delivered/s.Params.DischargeEfficiency, s.Params.CapacityKWh)
}

func clampLevel(level, capacity float64) float64 {
	if level < 0 {
		return 0
	}
	if level > capacity {
		return capacity
	}
	return level
}
