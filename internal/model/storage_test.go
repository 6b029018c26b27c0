package model

import (
	"math"
	"testing"
)

func mustStorage(t *testing.T, params StorageParams, level float64) *Storage {
	t.Helper()
	s, err := NewStorage(params, level)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStorageValidation(t *testing.T) {
	cases := []struct {
		name   string
		params StorageParams
		level  float64
	}{
		{"zero capacity", StorageParams{ID: "s", CapacityKWh: 0, ChargeEfficiency: 1, DischargeEfficiency: 1}, 0},
		{"negative capacity", StorageParams{ID: "s", CapacityKWh: -5, ChargeEfficiency: 1, DischargeEfficiency: 1}, 0},
		{"charge efficiency zero", StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 0, DischargeEfficiency: 1}, 0},
		{"charge efficiency above one", StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 1.1, DischargeEfficiency: 1}, 0},
		{"discharge efficiency zero", StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 1, DischargeEfficiency: 0}, 0},
		{"level above capacity", StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 1, DischargeEfficiency: 1}, 11},
		{"negative level", StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 1, DischargeEfficiency: 1}, -1},
		{"missing id", StorageParams{CapacityKWh: 10, ChargeEfficiency: 1, DischargeEfficiency: 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStorage(tc.params, tc.level); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestDischargeAppliesEfficiency(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 20, ChargeEfficiency: 1, DischargeEfficiency: 0.95}, 10)

	got := s.Discharge(5)
	if got != 5 {
		t.Errorf("expected delivery of 5, got %g", got)
	}
	want := 10 - 5/0.95
	if math.Abs(s.Level()-want) > 1e-9 {
		t.Errorf("expected level %g, got %g", want, s.Level())
	}
}

func TestDischargeLimitedByAvailable(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 20, ChargeEfficiency: 1, DischargeEfficiency: 0.9}, 10)

	got := s.Discharge(100)
	if math.Abs(got-9) > 1e-9 {
		t.Errorf("expected delivery of 9, got %g", got)
	}
	if s.Level() > 1e-9 {
		t.Errorf("expected empty storage, got level %g", s.Level())
	}
}

func TestChargeReturnsAbsorbedEnergy(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 100, ChargeEfficiency: 0.9, DischargeEfficiency: 1}, 0)

	absorbed := s.Charge(10)
	if math.Abs(absorbed-10) > 1e-9 {
		t.Errorf("expected 10 absorbed, got %g", absorbed)
	}
	if math.Abs(s.Level()-9) > 1e-9 {
		t.Errorf("expected level 9, got %g", s.Level())
	}
}

func TestChargeCappedByHeadroom(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 0.8, DischargeEfficiency: 1}, 8)

	absorbed := s.Charge(100)
	// Only 2 kWh of headroom: offer-side absorption is 2/0.8.
	if math.Abs(absorbed-2.5) > 1e-9 {
		t.Errorf("expected 2.5 absorbed, got %g", absorbed)
	}
	if math.Abs(s.Level()-10) > 1e-9 {
		t.Errorf("expected full storage, got level %g", s.Level())
	}
	if s.Charge(1) != 0 {
		t.Error("full storage still absorbed energy")
	}
}

func TestLevelStaysInBounds(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 10, ChargeEfficiency: 0.9, DischargeEfficiency: 0.9}, 5)
	for i := 0; i < 50; i++ {
		s.Charge(float64(i % 7))
		s.Discharge(float64(i % 5))
		if s.Level() < 0 || s.Level() > s.Params.CapacityKWh {
			t.Fatalf("level %g escaped [0, %g]", s.Level(), s.Params.CapacityKWh)
		}
	}
}

func TestRestoreUndoesDischarge(t *testing.T) {
	s := mustStorage(t, StorageParams{ID: "s", CapacityKWh: 20, ChargeEfficiency: 1, DischargeEfficiency: 0.95}, 10)
	delivered := s.Discharge(5)
	s.Restore(delivered)
	if math.Abs(s.Level()-10) > 1e-9 {
		t.Errorf("expected level back at 10, got %g", s.Level())
	}
}

func TestDisabledStorageIsNoop(t *testing.T) {
	s := Disabled()
	if s.Charge(10) != 0 {
		t.Error("disabled storage absorbed energy")
	}
	if s.Discharge(10) != 0 {
		t.Error("disabled storage delivered energy")
	}
	if s.Level() != 0 {
		t.Errorf("disabled storage has level %g", s.Level())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("disabled storage failed validation: %v", err)
	}
}
